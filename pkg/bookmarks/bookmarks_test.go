package bookmarks

import "testing"

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		bookmark Bookmark
		want     string
	}{
		{
			name:     "title preferred",
			bookmark: Bookmark{Title: "Deep Work", URL: "https://example.com/deep-work"},
			want:     "Deep Work",
		},
		{
			name:     "url fallback",
			bookmark: Bookmark{URL: "https://example.com/deep-work"},
			want:     "https://example.com/deep-work",
		},
		{
			name:     "whitespace title falls back",
			bookmark: Bookmark{Title: "   ", URL: "https://example.com/x"},
			want:     "https://example.com/x",
		},
		{
			name:     "nothing to show",
			bookmark: Bookmark{},
			want:     "(untitled)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bookmark.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlightTexts(t *testing.T) {
	b := Bookmark{
		Highlights: []Highlight{
			{Text: "first passage", Location: 10},
			{Text: "second passage", Location: 20},
			{Text: "", Location: 30},
		},
	}
	got := b.HighlightTexts()
	want := []string{"first passage", "second passage", ""}
	if len(got) != len(want) {
		t.Fatalf("HighlightTexts() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HighlightTexts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSortHighlights(t *testing.T) {
	b := Bookmark{
		Highlights: []Highlight{
			{Text: "third", Location: 300},
			{Text: "first", Location: 10},
			{Text: "tie-a", Location: 50},
			{Text: "tie-b", Location: 50},
		},
	}
	b.SortHighlights()

	want := []string{"first", "tie-a", "tie-b", "third"}
	for i, h := range b.Highlights {
		if h.Text != want[i] {
			t.Errorf("SortHighlights()[%d] = %q, want %q", i, h.Text, want[i])
		}
	}
}
