// Package highlight implements the highlight reconciliation engine. It
// canonicalizes captured highlight text and rendered document text into a
// comparable form, compiles each highlight into a tolerant match pattern,
// scans document bodies line by line for the passages those patterns
// describe, wraps matched spans in CriticMarkup-style markers, and merges
// freshly generated annotation blocks with previously stored ones without
// duplicating lines across runs.
//
// The engine consumes and produces plain text values only. Fetching
// highlights, talking to the document store, and persisting the watermark
// are handled by their own packages.
package highlight

import "strings"

// Marker delimiters for highlighted spans. This is the CriticMarkup
// highlight syntax and the one wire format downstream renderers depend on.
const (
	MarkerOpen  = "{=="
	MarkerClose = "==}"
)

// StripMarkers removes any highlight marker delimiters from a line.
// Wrapping always strips first, so successive runs never nest markers.
func StripMarkers(line string) string {
	if !strings.Contains(line, MarkerOpen) && !strings.Contains(line, MarkerClose) {
		return line
	}
	line = strings.ReplaceAll(line, MarkerOpen, "")
	return strings.ReplaceAll(line, MarkerClose, "")
}

// Wrap returns the line with the span matched by p bracketed by highlight
// markers. Existing markers are stripped before the span is located, so
// wrapping an already wrapped line yields the same visible text with the
// markers in the same position. Trailing sentence punctuation and a
// bracket or parenthesis citation immediately after the match fall inside
// the markers when present. When p cannot locate a span on the stripped
// line the entire line is wrapped.
func Wrap(line string, p *Pattern) string {
	stripped := StripMarkers(line)
	if strings.TrimSpace(stripped) == "" {
		return stripped
	}
	if p != nil {
		if start, end, ok := p.FindSpan(stripped); ok && end > start {
			return stripped[:start] + MarkerOpen + stripped[start:end] + MarkerClose + stripped[end:]
		}
	}
	return MarkerOpen + stripped + MarkerClose
}
