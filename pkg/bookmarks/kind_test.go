package bookmarks

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		category string
		want     Kind
	}{
		{"articles", KindArticle},
		{"article", KindArticle},
		{"emails", KindEmail},
		{"email", KindEmail},
		{"books", KindBook},
		{"book", KindBook},
		{"Articles", KindArticle},
		{"BOOKS", KindBook},
		{" emails ", KindEmail},
		{"tweets", KindArticle},
		{"podcasts", KindArticle},
		{"", KindArticle},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := ParseKind(tt.category); got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestKindFetchable(t *testing.T) {
	if !KindArticle.Fetchable() {
		t.Error("KindArticle.Fetchable() = false, want true")
	}
	if !KindEmail.Fetchable() {
		t.Error("KindEmail.Fetchable() = false, want true")
	}
	if KindBook.Fetchable() {
		t.Error("KindBook.Fetchable() = true, want false")
	}
}
