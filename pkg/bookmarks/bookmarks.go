// Package bookmarks defines the domain model shared across the module: a
// Bookmark is one captured document, carrying the highlights a reader took
// from it, and it knows how to render its own annotation block. The types
// are source-agnostic; the Readwise client converts its wire format into
// these and nothing downstream knows where a bookmark came from.
package bookmarks

import (
	"sort"
	"strings"

	"github.com/agentstation/utc"
)

// Highlight is one captured passage from a bookmark.
type Highlight struct {
	Text          string   `json:"text" yaml:"text"`                                   // Captured passage text
	Note          string   `json:"note,omitempty" yaml:"note,omitempty"`               // Reader note attached to the passage
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`               // Highlight-level tag names
	Location      int      `json:"location,omitempty" yaml:"location,omitempty"`       // Position within the source document
	SourceLink    string   `json:"source_link,omitempty" yaml:"source_link,omitempty"` // Deep link back to the captured highlight
	HighlightedAt utc.Time `json:"highlighted_at" yaml:"highlighted_at"`               // When the reader captured the passage
}

// Bookmark is one captured document with its highlights in capture order.
type Bookmark struct {
	URL        string      `json:"url" yaml:"url"`                                     // Canonical document URL
	Kind       Kind        `json:"kind" yaml:"kind"`                                   // What the bookmark points at
	Title      string      `json:"title" yaml:"title"`                                 // Document title, the store lookup key
	Author     string      `json:"author,omitempty" yaml:"author,omitempty"`           // Document author
	CoverImage string      `json:"cover_image,omitempty" yaml:"cover_image,omitempty"` // Cover or preview image URL
	DocNote    string      `json:"note,omitempty" yaml:"note,omitempty"`               // Document-level reader note
	Summary    string      `json:"summary,omitempty" yaml:"summary,omitempty"`         // Source-provided summary
	Tags       []string    `json:"tags,omitempty" yaml:"tags,omitempty"`               // Document-level tag names
	Highlights []Highlight `json:"highlights,omitempty" yaml:"highlights,omitempty"`   // Highlights ordered by Location
}

// DisplayTitle returns the title used to identify the bookmark in the
// store and in logs, falling back to the URL for untitled captures.
func (b *Bookmark) DisplayTitle() string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if u := strings.TrimSpace(b.URL); u != "" {
		return u
	}
	return "(untitled)"
}

// HighlightTexts returns the captured texts in capture order, one entry
// per highlight, ready for pattern compilation.
func (b *Bookmark) HighlightTexts() []string {
	texts := make([]string, len(b.Highlights))
	for i, h := range b.Highlights {
		texts[i] = h.Text
	}
	return texts
}

// SortHighlights orders the highlights by their location in the source
// document. The sort is stable so equal locations keep arrival order.
func (b *Bookmark) SortHighlights() {
	sort.SliceStable(b.Highlights, func(i, j int) bool {
		return b.Highlights[i].Location < b.Highlights[j].Location
	})
}
