package bookmarks

import "strings"

// Kind classifies what a bookmark points at. It decides whether the sync
// pipeline may fetch a document body for it.
type Kind string

// The kinds a capture source can hand us.
const (
	KindArticle Kind = "article"
	KindEmail   Kind = "email"
	KindBook    Kind = "book"
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Fetchable reports whether a document body can plausibly be fetched from
// the bookmark URL. Books have no canonical web body and always get a
// stub record.
func (k Kind) Fetchable() bool {
	return k != KindBook
}

// ParseKind maps a capture source category onto a Kind. Unrecognized
// categories become articles so a new source category degrades to the
// most general handling instead of failing the bookmark.
func ParseKind(category string) Kind {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "articles", "article":
		return KindArticle
	case "emails", "email":
		return KindEmail
	case "books", "book":
		return KindBook
	default:
		return KindArticle
	}
}
