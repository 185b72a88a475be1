// Package content builds the markdown body for a bookmark that has no
// record yet: a metadata header, then the readable article extracted
// from the bookmark URL and converted to markdown. Every failure along
// that path degrades to the header-only stub; a body is always produced.
package content

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"

	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

// Fetcher downloads and converts document bodies.
type Fetcher struct {
	http *http.Client
}

// NewFetcher creates a Fetcher with the default fetch timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		http: &http.Client{Timeout: constants.FetchTimeout},
	}
}

// Body returns the markdown body for the bookmark. Books and bookmarks
// without a URL get the header-only stub; so does anything whose fetch,
// extraction, or conversion fails. Fetch problems are logged and
// swallowed here because a stub record is always better than no record.
func (f *Fetcher) Body(ctx context.Context, b *bookmarks.Bookmark) string {
	header := Header(b)
	if !b.Kind.Fetchable() || strings.TrimSpace(b.URL) == "" {
		return header
	}

	ctx = logging.WithURL(ctx, b.URL)
	article, err := f.fetch(ctx, b.URL)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("title", b.DisplayTitle()).
			Err(err).
			Msg("Could not fetch document body, using stub")
		return header
	}
	return header + "\n" + article
}

// Header renders the metadata block every record body starts with.
func Header(b *bookmarks.Bookmark) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(b.DisplayTitle())
	sb.WriteString("\n")
	if b.Author != "" {
		sb.WriteString("\nBy ")
		sb.WriteString(b.Author)
		sb.WriteString("\n")
	}
	if b.URL != "" {
		sb.WriteString("\n[Source](")
		sb.WriteString(b.URL)
		sb.WriteString(")\n")
	}
	if b.CoverImage != "" {
		sb.WriteString("\n![](")
		sb.WriteString(b.CoverImage)
		sb.WriteString(")\n")
	}
	return sb.String()
}

// fetch downloads the page, extracts the readable article, and converts
// it to markdown.
func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.WrapResource("fetch", "document", rawURL, err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return "", errors.WrapResource("fetch", "document", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &errors.APIError{
			Service:    "fetch",
			StatusCode: resp.StatusCode,
			Endpoint:   rawURL,
			Message:    "document fetch failed",
		}
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.WrapValidation("url", err)
	}
	article, err := readability.FromReader(io.LimitReader(resp.Body, constants.MaxBodyBytes), pageURL)
	if err != nil {
		return "", errors.WrapParse("html", rawURL, err)
	}

	markdown, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		return "", errors.WrapParse("markdown", rawURL, err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", errors.NewParseError("html", rawURL, "no readable content", nil)
	}
	return markdown + "\n", nil
}
