package readwise

import (
	"github.com/agentstation/utc"

	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
)

// convertBookmark converts an export result into the domain bookmark.
// Discarded highlights are dropped, tags are flattened to their names,
// and the surviving highlights are ordered by location.
func convertBookmark(r exportResult) bookmarks.Bookmark {
	b := bookmarks.Bookmark{
		URL:        bookmarkURL(r),
		Kind:       bookmarks.ParseKind(r.Category),
		Title:      bookmarkTitle(r),
		Author:     r.Author,
		CoverImage: r.CoverImageURL,
		DocNote:    r.DocumentNote,
		Summary:    r.Summary,
		Tags:       tagNames(r.BookTags),
	}

	for _, h := range r.Highlights {
		if h.IsDiscard {
			continue
		}
		b.Highlights = append(b.Highlights, bookmarks.Highlight{
			Text:          h.Text,
			Note:          h.Note,
			Tags:          tagNames(h.Tags),
			Location:      h.Location,
			SourceLink:    highlightLink(h),
			HighlightedAt: utc.Time{Time: h.HighlightedAt},
		})
	}
	b.SortHighlights()
	return b
}

// bookmarkTitle prefers the cleaned-up readable title the API provides.
func bookmarkTitle(r exportResult) string {
	if r.ReadableTitle != "" {
		return r.ReadableTitle
	}
	return r.Title
}

// bookmarkURL prefers the original source URL over the Readwise reader
// copy; books usually have neither.
func bookmarkURL(r exportResult) string {
	if r.SourceURL != "" {
		return r.SourceURL
	}
	return r.UniqueURL
}

// highlightLink is the deep link rendered into the annotation block.
func highlightLink(h exportHighlight) string {
	if h.ReadwiseURL != "" {
		return h.ReadwiseURL
	}
	return h.URL
}

func tagNames(tags []exportTag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name == "" {
			continue
		}
		names = append(names, t.Name)
	}
	if len(names) == 0 {
		return nil
	}
	return names
}
