package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/linkshelf/internal/composer"
	"github.com/starford/linkshelf/internal/entries"
	"github.com/starford/linkshelf/internal/imagecache"
	"github.com/starford/linkshelf/internal/opengraph"
	"github.com/starford/linkshelf/internal/storage"
	"github.com/starford/linkshelf/internal/testutil"
)

func testServer(t *testing.T, vocab string) (*Server, storage.Provider) {
	t.Helper()

	_, store := testutil.TestEntries(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := New("test", Deps{
		VocabularyPath: testutil.WriteVocabulary(t, vocab),
		Entries:        entries.NewService(store, false),
		Scraper:        opengraph.NewHTTPScraper(),
		Images:         imagecache.New(store, imagecache.NewHTTPFetcher(), imagecache.ContentClassifier{}, imagecache.WithLogger(logger)),
		Logger:         logger,
	})
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "validate_tags":
		result, err = srv.validateTags(ctx, req)
	case "list_entries":
		result, err = srv.listEntries(ctx, req)
	case "read_entry":
		result, err = srv.readEntry(ctx, req)
	case "create_entry":
		result, err = srv.createEntry(ctx, req)
	case "cache_images":
		result, err = srv.cacheImages(ctx, req)
	case "get_entry_contract":
		result, err = srv.getEntryContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListTags(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "list_tags", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("list_tags error: %s", resultText(r))
	}
	var tags []struct {
		Name    string   `json:"name"`
		Parents []string `json:"parents"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &tags); err != nil {
		t.Fatal(err)
	}
	if len(tags) != 4 || tags[1].Name != "go" || tags[1].Parents[0] != "tech" {
		t.Errorf("tags = %+v", tags)
	}
}

func TestValidateTags(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "validate_tags", map[string]interface{}{})
	if r.IsError || resultText(r) != "vocabulary is consistent" {
		t.Errorf("validate_tags = %q (error=%v)", resultText(r), r.IsError)
	}

	srv, _ = testServer(t, "- name: go\n  parents: [tech]\n")
	r = callTool(t, srv, "validate_tags", map[string]interface{}{})
	if !r.IsError || resultText(r) != "go mentions unknown parent tech" {
		t.Errorf("validate_tags = %q (error=%v)", resultText(r), r.IsError)
	}
}

func TestValidateTags_Cycles(t *testing.T) {
	vocab := "- name: a\n  parents: [b]\n- name: b\n  parents: [a]\n"
	srv, _ := testServer(t, vocab)

	r := callTool(t, srv, "validate_tags", map[string]interface{}{})
	if r.IsError {
		t.Errorf("cycles reported without opt-in: %s", resultText(r))
	}
	r = callTool(t, srv, "validate_tags", map[string]interface{}{"cycles": true})
	if !r.IsError || !strings.Contains(resultText(r), "a is part of a parent cycle") {
		t.Errorf("validate_tags(cycles) = %q", resultText(r))
	}
}

func TestCreateReadAndListEntries(t *testing.T) {
	page := `<html><head><meta property="og:title" content="Effective Go">
<meta property="og:description" content="Tips for writing clear Go."></head></html>`
	site := testutil.Server(t, func(r chi.Router) {
		r.Get("/doc", testutil.Bytes("text/html", []byte(page)))
	})
	srv, _ := testServer(t, testutil.SampleVocabulary)

	r := callTool(t, srv, "create_entry", map[string]interface{}{
		"url":  site.URL + "/doc",
		"tags": []interface{}{"go"},
	})
	if r.IsError {
		t.Fatalf("create_entry error: %s", resultText(r))
	}
	var res composer.Result
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Path != "effective-go.md" {
		t.Errorf("path = %q", res.Path)
	}

	r = callTool(t, srv, "read_entry", map[string]interface{}{"path": "effective-go.md"})
	if !strings.Contains(resultText(r), "Tips for writing clear Go.") {
		t.Errorf("read_entry = %q", resultText(r))
	}

	r = callTool(t, srv, "list_entries", map[string]interface{}{"tag": "go"})
	if !strings.Contains(resultText(r), `"path": "effective-go.md"`) {
		t.Errorf("list_entries = %s", resultText(r))
	}
	r = callTool(t, srv, "list_entries", map[string]interface{}{"tag": "news"})
	if strings.TrimSpace(resultText(r)) != "[]" {
		t.Errorf("list_entries(news) = %s", resultText(r))
	}

	r = callTool(t, srv, "create_entry", map[string]interface{}{"url": site.URL + "/doc"})
	if !r.IsError {
		t.Error("expected collision error on second create")
	}
}

func TestCreateEntry_RejectsUnknownTag(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "create_entry", map[string]interface{}{
		"url":   "http://127.0.0.1:1/unreachable",
		"title": "Anything",
		"tags":  []interface{}{"bogus"},
	})
	if !r.IsError {
		t.Error("expected error for unknown tag")
	}
}

func TestReadEntryMissing(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "read_entry", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Fatal("expected error for missing entry")
	}
	if got := resultText(r); got != "not found: nope.md" {
		t.Errorf("read_entry = %q", got)
	}
}

func TestReadEntryOutsideRoot(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "read_entry", map[string]interface{}{"path": "../outside.md"})
	if !r.IsError {
		t.Fatal("expected error for path outside the entries root")
	}
	text := resultText(r)
	if strings.HasPrefix(text, "not found") || !strings.Contains(text, "escapes") {
		t.Errorf("read_entry = %q, want the storage error", text)
	}
}

func TestCacheImages(t *testing.T) {
	img := testutil.PNG(t)
	site := testutil.Server(t, func(r chi.Router) {
		r.Get("/cover", testutil.Bytes("image/png", img))
	})
	srv, store := testServer(t, testutil.SampleVocabulary)
	_ = store.Write("a.md", []byte("---\ntitle: A\nurl: https://a.test\nimageUrl: "+site.URL+"/cover\ntags: []\n---\n\nx\n"))
	_ = store.Write("b.md", []byte("---\ntitle: B\nurl: https://b.test\nimageUrl: \"\"\ntags: []\n---\n\nx\n"))

	r := callTool(t, srv, "cache_images", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("cache_images error: %s", resultText(r))
	}
	var report imagecache.Report
	if err := json.Unmarshal([]byte(resultText(r)), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Cached) != 1 || report.Cached[0] != "a.png" || len(report.Skipped) != 1 {
		t.Errorf("report = %+v", report)
	}

	r = callTool(t, srv, "cache_images", map[string]interface{}{"path": "b.md"})
	if !r.IsError {
		t.Error("expected error for entry without image")
	}
}

func TestGetEntryContract(t *testing.T) {
	srv, _ := testServer(t, testutil.SampleVocabulary)
	r := callTool(t, srv, "get_entry_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "imageUrl") {
		t.Error("contract does not describe imageUrl")
	}
}
