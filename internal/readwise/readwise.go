// Package readwise provides a client for the Readwise Export API v2.
package readwise

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/ttscoff/readwise-to-devonthink/internal/transport"
	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

// Response structures for the Readwise Export API.
type exportResponse struct {
	Count          int            `json:"count"`
	NextPageCursor pageCursor     `json:"nextPageCursor"`
	Results        []exportResult `json:"results"`
}

type exportResult struct {
	UserBookID    int64             `json:"user_book_id"`
	Title         string            `json:"title"`
	ReadableTitle string            `json:"readable_title"`
	Author        string            `json:"author"`
	Category      string            `json:"category"`
	Source        string            `json:"source"`
	CoverImageURL string            `json:"cover_image_url"`
	SourceURL     string            `json:"source_url"`
	UniqueURL     string            `json:"unique_url"`
	Summary       string            `json:"summary"`
	DocumentNote  string            `json:"document_note"`
	ReadwiseURL   string            `json:"readwise_url"`
	BookTags      []exportTag       `json:"book_tags"`
	Highlights    []exportHighlight `json:"highlights"`
}

type exportHighlight struct {
	ID            int64       `json:"id"`
	Text          string      `json:"text"`
	Note          string      `json:"note"`
	Location      int         `json:"location"`
	HighlightedAt time.Time   `json:"highlighted_at"`
	ReadwiseURL   string      `json:"readwise_url"`
	URL           string      `json:"url"`
	IsDiscard     bool        `json:"is_discard"`
	Tags          []exportTag `json:"tags"`
}

type exportTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// pageCursor tolerates the cursor arriving as a JSON string, number, or
// null; it is opaque and only ever echoed back in the next request.
type pageCursor string

// UnmarshalJSON implements json.Unmarshaler for pageCursor.
func (c *pageCursor) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null" || s == `""`:
		*c = ""
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		*c = pageCursor(s[1 : len(s)-1])
	default:
		*c = pageCursor(s)
	}
	return nil
}

// Client fetches captured bookmarks and highlights from Readwise.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// New creates a Readwise client for the given access token.
func New(token string) *Client {
	return &Client{
		baseURL:   constants.ReadwiseBaseURL,
		transport: transport.New(&transport.TokenAuth{}, token),
	}
}

// WithBaseURL points the client at a different API root. Tests use this
// to target an httptest server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// CheckAuth verifies the access token against the auth endpoint, which
// answers 204 for a valid token.
func (c *Client) CheckAuth(ctx context.Context) error {
	endpoint := c.baseURL + "/auth/"
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return &errors.APIError{
			Service:  constants.ReadwiseService,
			Endpoint: endpoint,
			Message:  "auth check failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return &errors.APIError{
		Service:    constants.ReadwiseService,
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Message:    "auth check rejected",
	}
}

// Fetch retrieves every bookmark updated after since, following
// pagination until the API reports no further page. A zero since fetches
// the full export. The returned bookmarks keep the API's order with each
// bookmark's highlights sorted by location.
func (c *Client) Fetch(ctx context.Context, since utc.Time) ([]bookmarks.Bookmark, error) {
	logger := logging.FromContext(ctx)

	var out []bookmarks.Bookmark
	cursor := ""
	for page := 1; page <= constants.MaxPages; page++ {
		payload, err := c.fetchPage(ctx, since, cursor)
		if err != nil {
			return nil, err
		}

		logger.Debug().
			Int("page", page).
			Int("bookmarks", len(payload.Results)).
			Msg("Fetched export page")

		for _, result := range payload.Results {
			out = append(out, convertBookmark(result))
		}
		if payload.NextPageCursor == "" {
			return out, nil
		}
		cursor = string(payload.NextPageCursor)
	}

	return nil, &errors.APIError{
		Service:  constants.ReadwiseService,
		Endpoint: c.baseURL + "/export/",
		Message:  "pagination did not terminate",
	}
}

// fetchPage requests a single export page, waiting out one rate-limit
// response before giving up on the page.
func (c *Client) fetchPage(ctx context.Context, since utc.Time, cursor string) (*exportResponse, error) {
	endpoint := c.exportURL(since, cursor)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, &errors.APIError{
			Service:  constants.ReadwiseService,
			Endpoint: endpoint,
			Message:  "export request failed",
			Err:      err,
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := transport.RetryAfter(resp, constants.RetryAfterFallback, constants.MaxRetryAfter)
		_ = resp.Body.Close()

		logging.FromContext(ctx).Warn().
			Dur("wait", wait).
			Msg("Rate limited by Readwise, waiting before retry")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		resp, err = c.transport.Get(ctx, endpoint)
		if err != nil {
			return nil, &errors.APIError{
				Service:  constants.ReadwiseService,
				Endpoint: endpoint,
				Message:  "export retry failed",
				Err:      err,
			}
		}
	}

	var payload exportResponse
	if err := transport.DecodeResponse(resp, constants.ReadwiseService, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// exportURL builds the export endpoint URL for one page request.
func (c *Client) exportURL(since utc.Time, cursor string) string {
	query := url.Values{}
	if !since.IsZero() {
		query.Set("updatedAfter", since.Format(time.RFC3339))
	}
	if cursor != "" {
		query.Set("pageCursor", cursor)
	}

	endpoint := c.baseURL + "/export/"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}
