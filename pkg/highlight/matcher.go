package highlight

import "strings"

// Matcher holds the compiled patterns for one bookmark's highlights,
// index-aligned with capture order. Highlights whose text had nothing to
// match occupy a nil slot and are simply never matched.
type Matcher struct {
	patterns []*Pattern
}

// NewMatcher compiles a pattern per highlight text, preserving capture
// order. Compilation failures do not fail the matcher; the corresponding
// slot stays nil so the remaining highlights still reconcile.
func NewMatcher(texts []string) *Matcher {
	patterns := make([]*Pattern, len(texts))
	for i, text := range texts {
		p, err := Compile(text)
		if err != nil {
			continue
		}
		patterns[i] = p
	}
	return &Matcher{patterns: patterns}
}

// Len returns the number of highlight slots, usable or not.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Compiled returns how many highlights produced a usable pattern.
func (m *Matcher) Compiled() int {
	n := 0
	for _, p := range m.patterns {
		if p != nil {
			n++
		}
	}
	return n
}

// Pattern returns the compiled pattern at index i, or nil when the
// highlight at that index was unusable.
func (m *Matcher) Pattern(i int) *Pattern {
	if i < 0 || i >= len(m.patterns) {
		return nil
	}
	return m.patterns[i]
}

// MatchLine returns the index of the first highlight, in capture order,
// whose pattern matches the line. Blank and whitespace-only lines never
// match. The line is stripped of any existing highlight markers and
// normalized before the patterns see it.
func (m *Matcher) MatchLine(line string) (int, bool) {
	if strings.TrimSpace(line) == "" {
		return 0, false
	}
	normalized := Normalize(StripMarkers(line))
	for i, p := range m.patterns {
		if p == nil {
			continue
		}
		if p.Match(normalized) {
			return i, true
		}
	}
	return 0, false
}

// Match records that a highlight claimed a body line.
type Match struct {
	// Line is the zero-based line index within the body.
	Line int
	// Highlight is the index into the capture-ordered highlight list.
	Highlight int
}

// Apply walks the body in a single pass, wrapping on each line the span
// claimed by the first highlight that matches it, and returns the
// rewritten body plus the matches in document order. A line matched by
// several highlights is wrapped for the earliest-captured one only; a
// highlight may claim any number of lines. Text the renderer broke across
// physical lines is only found where the whole skeleton fits on one line.
func (m *Matcher) Apply(body string) (string, []Match) {
	lines := strings.Split(body, "\n")
	var matches []Match
	for i, line := range lines {
		idx, ok := m.MatchLine(line)
		if !ok {
			continue
		}
		lines[i] = Wrap(line, m.patterns[idx])
		matches = append(matches, Match{Line: i, Highlight: idx})
	}
	return strings.Join(lines, "\n"), matches
}

// Matched reports which highlight indices claimed at least one line.
func Matched(matches []Match) map[int]bool {
	found := make(map[int]bool, len(matches))
	for _, m := range matches {
		found[m.Highlight] = true
	}
	return found
}
