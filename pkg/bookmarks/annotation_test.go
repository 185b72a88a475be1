package bookmarks

import (
	"strings"
	"testing"
)

func TestAnnotation(t *testing.T) {
	b := Bookmark{
		Title:   "Deep Work",
		Summary: "A case for focused effort.",
		DocNote: "Recommended by Ana.",
		Highlights: []Highlight{
			{
				Text:       "Clarity about what matters provides clarity about what does not.",
				Note:       "core thesis",
				Tags:       []string{"focus", "deep work"},
				SourceLink: "https://readwise.io/open/101",
			},
			{
				Text: "Busyness is not a proxy for productivity.",
			},
		},
	}

	got := b.Annotation()
	want := strings.Join([]string{
		"A case for focused effort.",
		"Recommended by Ana.",
		"> Clarity about what matters provides clarity about what does not.",
		"core thesis",
		"#focus #deep-work",
		"[source](https://readwise.io/open/101)",
		"> Busyness is not a proxy for productivity.",
	}, "\n\n")

	if got != want {
		t.Errorf("Annotation() =\n%s\nwant:\n%s", got, want)
	}
}

func TestAnnotationCollapsesMultilineEntries(t *testing.T) {
	b := Bookmark{
		Highlights: []Highlight{
			{
				Text: "a passage\nthe reader captured\nacross lines",
				Note: "note with\nits own break",
			},
		},
	}

	got := b.Annotation()
	want := "> a passage the reader captured across lines\n\nnote with its own break"
	if got != want {
		t.Errorf("Annotation() = %q, want %q", got, want)
	}
}

func TestAnnotationEmptyBookmark(t *testing.T) {
	b := Bookmark{Title: "Silent"}
	if got := b.Annotation(); got != "" {
		t.Errorf("Annotation() = %q, want empty", got)
	}
}

func TestHashtags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{
			name: "simple tags",
			tags: []string{"focus", "habits"},
			want: "#focus #habits",
		},
		{
			name: "spaces become hyphens",
			tags: []string{"deep work", "  spaced   out  "},
			want: "#deep-work #spaced-out",
		},
		{
			name: "existing hash not doubled",
			tags: []string{"#focus"},
			want: "#focus",
		},
		{
			name: "empty tags dropped",
			tags: []string{"", "  ", "focus"},
			want: "#focus",
		},
		{
			name: "no tags",
			tags: nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hashtags(tt.tags); got != tt.want {
				t.Errorf("Hashtags(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}
