// Package testutil provides shared test helpers: temporary entries
// directories, vocabulary files, image fixtures and fixture HTTP servers.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/linkshelf/internal/storage"
)

// SampleVocabulary is a small consistent tag hierarchy.
const SampleVocabulary = `- name: tech
  desc: Technology
- name: go
  parents: [tech]
- name: tools
  parents: [tech]
- name: news
`

// TestEntries creates a temporary entries directory with a storage.Provider.
func TestEntries(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteVocabulary writes content to a tags.yaml file in a temp dir.
func WriteVocabulary(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tags.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// PNG returns the encoding of a small opaque image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Server starts an httptest server whose routes are registered by setup.
func Server(t *testing.T, setup func(r chi.Router)) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// Bytes returns a handler serving data with the given content type.
func Bytes(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write(data)
	}
}
