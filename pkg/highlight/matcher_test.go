package highlight

import (
	"strings"
	"testing"
)

func TestNewMatcher(t *testing.T) {
	m := NewMatcher([]string{"usable text", "", "!!!"})
	if got := m.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := m.Compiled(); got != 1 {
		t.Errorf("Compiled() = %d, want 1", got)
	}
	if m.Pattern(0) == nil {
		t.Error("Pattern(0) = nil, want compiled pattern")
	}
	if m.Pattern(1) != nil {
		t.Error("Pattern(1) != nil, want nil for empty text")
	}
	if m.Pattern(2) != nil {
		t.Error("Pattern(2) != nil, want nil for punctuation-only text")
	}
	if m.Pattern(-1) != nil || m.Pattern(3) != nil {
		t.Error("Pattern() out of range should be nil")
	}
}

func TestMatchLine(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		line    string
		wantIdx int
		wantOK  bool
	}{
		{
			name:    "first capture wins",
			texts:   []string{"alpha beta", "beta"},
			line:    "alpha beta gamma",
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "later capture matches",
			texts:   []string{"zeta", "beta"},
			line:    "alpha beta gamma",
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:   "blank line never matches",
			texts:  []string{"alpha"},
			line:   "",
			wantOK: false,
		},
		{
			name:   "whitespace line never matches",
			texts:  []string{"alpha"},
			line:   "   \t ",
			wantOK: false,
		},
		{
			name:    "markers stripped before matching",
			texts:   []string{"alpha beta"},
			line:    "{==alpha==} beta gamma",
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "markup stripped before matching",
			texts:   []string{"alpha beta"},
			line:    "> **alpha** beta",
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "unusable slots skipped",
			texts:   []string{"", "beta"},
			line:    "alpha beta",
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:   "no pattern matches",
			texts:  []string{"alpha", "beta"},
			line:   "gamma delta",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.texts)
			idx, ok := m.MatchLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("MatchLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && idx != tt.wantIdx {
				t.Errorf("MatchLine(%q) = %d, want %d", tt.line, idx, tt.wantIdx)
			}
		})
	}
}

func TestApply(t *testing.T) {
	m := NewMatcher([]string{
		"The quick brown fox",
		"lazy dog",
	})
	body := strings.Join([]string{
		"# Chapter One",
		"",
		"The quick brown fox jumps.",
		"Nothing relevant here.",
		"A lazy dog sleeps in the sun.",
	}, "\n")

	got, matches := m.Apply(body)

	want := strings.Join([]string{
		"# Chapter One",
		"",
		"{==The quick brown fox==} jumps.",
		"Nothing relevant here.",
		"A {==lazy dog==} sleeps in the sun.",
	}, "\n")
	if got != want {
		t.Errorf("Apply() body =\n%s\nwant:\n%s", got, want)
	}

	wantMatches := []Match{{Line: 2, Highlight: 0}, {Line: 4, Highlight: 1}}
	if len(matches) != len(wantMatches) {
		t.Fatalf("Apply() matches = %v, want %v", matches, wantMatches)
	}
	for i, match := range matches {
		if match != wantMatches[i] {
			t.Errorf("Apply() match[%d] = %v, want %v", i, match, wantMatches[i])
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	m := NewMatcher([]string{"repeated phrase"})
	body := "before\nthe repeated phrase appears\nafter"

	once, firstMatches := m.Apply(body)
	twice, secondMatches := m.Apply(once)

	if once != twice {
		t.Errorf("Apply() not idempotent:\nfirst:  %q\nsecond: %q", once, twice)
	}
	if len(firstMatches) != 1 || len(secondMatches) != 1 {
		t.Errorf("Apply() matches = %d then %d, want 1 and 1",
			len(firstMatches), len(secondMatches))
	}
	if strings.Count(twice, MarkerOpen) != 1 {
		t.Errorf("Apply() produced %d opening markers, want 1",
			strings.Count(twice, MarkerOpen))
	}
}

func TestApplyClaimsEveryMatchingLine(t *testing.T) {
	m := NewMatcher([]string{"echoed line"})
	body := "the echoed line\nunrelated\nthe echoed line again"

	_, matches := m.Apply(body)

	if len(matches) != 2 {
		t.Fatalf("Apply() matches = %d, want 2", len(matches))
	}
	if matches[0].Line != 0 || matches[1].Line != 2 {
		t.Errorf("Apply() match lines = %d, %d, want 0, 2",
			matches[0].Line, matches[1].Line)
	}
	found := Matched(matches)
	if !found[0] || len(found) != 1 {
		t.Errorf("Matched() = %v, want highlight 0 only", found)
	}
}

func TestApplySingleWrapPerLine(t *testing.T) {
	// Both highlights match the line; only the earlier capture wraps it.
	m := NewMatcher([]string{"alpha", "beta"})
	got, matches := m.Apply("alpha beta together")

	if want := "{==alpha==} beta together"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
	if len(matches) != 1 || matches[0].Highlight != 0 {
		t.Errorf("Apply() matches = %v, want one match for highlight 0", matches)
	}
}
