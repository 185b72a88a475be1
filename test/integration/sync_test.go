// Package integration exercises the whole pipeline over real HTTP: a
// fake Readwise export API with pagination, article fetching and
// conversion, the folder store, and the watermark file.
package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	rwdt "github.com/ttscoff/readwise-to-devonthink"
	"github.com/ttscoff/readwise-to-devonthink/internal/readwise"
	"github.com/ttscoff/readwise-to-devonthink/internal/watermark"
	"github.com/ttscoff/readwise-to-devonthink/pkg/store"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>The Art of Focus</title></head>
<body>
<article>
<h1>The Art of Focus</h1>
<p>Attention is the scarcest resource a reader has, and almost every
page on the web is built to take it. The essays that survive are the
ones that respect it, laying out one idea at a time and letting the
reader breathe between them.</p>
<p>Midway through it all, watch as the quick brown fox jumps over the lazy dog and nobody pauses to ask why.</p>
<p>What remains afterwards is not the prose itself but the shape of the
argument, which is why people mark passages at all. A marked passage is
a promise to a future self that this part, at least, was worth the
attention it cost.</p>
</article>
</body>
</html>`

const (
	pageOneTemplate = `{
  "count": 2,
  "nextPageCursor": "p2",
  "results": [
    {
      "user_book_id": 101,
      "title": "the art of focus",
      "readable_title": "The Art of Focus",
      "author": "Ann Writer",
      "category": "articles",
      "source_url": %q,
      "highlights": [
        {"id": 1001, "text": "the quick brown fox jumps over the lazy dog", "location": 10, "readwise_url": "https://readwise.io/open/1001"},
        {"id": 1002, "text": "concentration rewards whoever protects it fiercely", "location": 20}
      ]
    }
  ]
}`

	pageTwo = `{
  "count": 2,
  "nextPageCursor": null,
  "results": [
    {
      "user_book_id": 102,
      "title": "Deep Work",
      "readable_title": "Deep Work",
      "author": "Cal Newport",
      "category": "books",
      "highlights": [
        {"id": 2001, "text": "clarity about what matters provides clarity about what does not", "location": 5, "readwise_url": "https://readwise.io/open/2001"}
      ]
    }
  ]
}`

	emptyPage = `{"count": 0, "nextPageCursor": null, "results": []}`
)

// newExportServer serves a two-page export plus the article body. A
// request carrying updatedAfter gets an empty window, which is what the
// live API answers once the watermark has passed the fixtures.
func newExportServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/article", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	})

	mux.HandleFunc("/export/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token integration-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("updatedAfter") != "" {
			fmt.Fprint(w, emptyPage)
			return
		}
		if r.URL.Query().Get("pageCursor") == "p2" {
			fmt.Fprint(w, pageTwo)
			return
		}
		fmt.Fprintf(w, pageOneTemplate, server.URL+"/article")
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newSyncClient(t *testing.T, serverURL, storeDir, statePath string) rwdt.Client {
	t.Helper()

	source := readwise.New("integration-token").WithBaseURL(serverURL)
	client, err := rwdt.New(
		rwdt.WithSource(source),
		rwdt.WithStoreConfig(store.Config{Backend: store.BackendFolder, Path: storeDir}),
		rwdt.WithWatermarkPath(statePath),
		rwdt.WithIndexDelay(0),
	)
	if err != nil {
		t.Fatalf("rwdt.New() failed: %v", err)
	}
	return client
}

func TestFullSyncRoundTrip(t *testing.T) {
	server := newExportServer(t)
	storeDir := t.TempDir()
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	client := newSyncClient(t, server.URL, storeDir, statePath)
	ctx := context.Background()

	// First run pulls both pages and builds both records.
	result, err := client.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if result.Fetched != 2 {
		t.Errorf("Fetched = %d, want 2", result.Fetched)
	}
	if result.Created != 2 {
		t.Errorf("Created = %d, want 2", result.Created)
	}
	if result.Matched != 1 {
		t.Errorf("Matched = %d, want 1", result.Matched)
	}
	if result.Unmatched != 2 {
		t.Errorf("Unmatched = %d, want 2", result.Unmatched)
	}
	if result.Updated != 2 {
		t.Errorf("Updated = %d, want 2", result.Updated)
	}
	if result.HasErrors() {
		t.Fatalf("Sync() reported errors: %v", result.Errs)
	}

	folder, err := store.NewFolder(storeDir)
	if err != nil {
		t.Fatalf("NewFolder() failed: %v", err)
	}

	// The fetched article got its matched span wrapped in place.
	article, err := folder.Lookup(ctx, "The Art of Focus")
	if err != nil {
		t.Fatalf("Lookup(article) failed: %v", err)
	}
	if !strings.Contains(article.Body, "{==the quick brown fox jumps over the lazy dog==}") {
		t.Errorf("article body missing wrapped span:\n%s", article.Body)
	}
	if !strings.Contains(article.Body, "# The Art of Focus") {
		t.Errorf("article body missing header:\n%s", article.Body)
	}

	annotation, err := folder.Annotation(ctx, "The Art of Focus")
	if err != nil {
		t.Fatalf("Annotation(article) failed: %v", err)
	}
	if !strings.Contains(annotation, "> the quick brown fox jumps over the lazy dog") {
		t.Errorf("annotation missing highlight quote:\n%s", annotation)
	}
	if !strings.Contains(annotation, "[source](https://readwise.io/open/1001)") {
		t.Errorf("annotation missing source link:\n%s", annotation)
	}

	// The book has no body to fetch, so it got the header stub and an
	// annotation with its unmatched highlight.
	book, err := folder.Lookup(ctx, "Deep Work")
	if err != nil {
		t.Fatalf("Lookup(book) failed: %v", err)
	}
	if !strings.HasPrefix(book.Body, "# Deep Work\n") {
		t.Errorf("book body should be the header stub:\n%s", book.Body)
	}
	if strings.Contains(book.Body, "{==") {
		t.Errorf("book stub should have no wrapped spans:\n%s", book.Body)
	}

	bookNote, err := folder.Annotation(ctx, "Deep Work")
	if err != nil {
		t.Fatalf("Annotation(book) failed: %v", err)
	}
	if !strings.Contains(bookNote, "> clarity about what matters") {
		t.Errorf("book annotation missing highlight quote:\n%s", bookNote)
	}

	mark, err := watermark.New(statePath).Load()
	if err != nil {
		t.Fatalf("watermark Load() failed: %v", err)
	}
	if mark.IsZero() {
		t.Error("watermark not written after successful sync")
	}

	// Second run sends updatedAfter from the watermark, and the server
	// answers with an empty window.
	second, err := client.Sync(ctx)
	if err != nil {
		t.Fatalf("second Sync() failed: %v", err)
	}
	if second.Fetched != 0 {
		t.Errorf("second Fetched = %d, want 0 (updatedAfter window)", second.Fetched)
	}
	if second.Created != 0 || second.Updated != 0 {
		t.Errorf("second run should change nothing, got created %d updated %d",
			second.Created, second.Updated)
	}

	// A full re-run reprocesses everything without changing a byte.
	third, err := client.Sync(ctx, rwdt.WithAll(true))
	if err != nil {
		t.Fatalf("third Sync() failed: %v", err)
	}
	if third.Fetched != 2 {
		t.Errorf("third Fetched = %d, want 2", third.Fetched)
	}
	if third.Created != 0 {
		t.Errorf("third Created = %d, want 0", third.Created)
	}
	if third.Updated != 0 {
		t.Errorf("third Updated = %d, want 0 (idempotent)", third.Updated)
	}

	rewrapped, err := folder.Lookup(ctx, "The Art of Focus")
	if err != nil {
		t.Fatalf("Lookup(article) after re-run failed: %v", err)
	}
	if rewrapped.Body != article.Body {
		t.Error("article body changed on an idempotent re-run")
	}
}

func TestSyncDryRunLeavesNoTrace(t *testing.T) {
	server := newExportServer(t)
	storeDir := t.TempDir()
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	client := newSyncClient(t, server.URL, storeDir, statePath)
	ctx := context.Background()

	result, err := client.Sync(ctx, rwdt.WithDryRun(true))
	if err != nil {
		t.Fatalf("Sync(dry run) failed: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("dry run Created = %d, want 2", result.Created)
	}
	if !result.DryRun {
		t.Error("result should be flagged as a dry run")
	}

	folder, err := store.NewFolder(storeDir)
	if err != nil {
		t.Fatalf("NewFolder() failed: %v", err)
	}
	if _, err := folder.Lookup(ctx, "The Art of Focus"); err == nil {
		t.Error("dry run created a record")
	}

	mark, err := watermark.New(statePath).Load()
	if err != nil {
		t.Fatalf("watermark Load() failed: %v", err)
	}
	if !mark.IsZero() {
		t.Error("dry run advanced the watermark")
	}
}
