// Package entries reads and writes typed link entries through a storage
// provider.
package entries

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"slices"

	"github.com/starford/linkshelf/internal/apperr"
	"github.com/starford/linkshelf/internal/checksum"
	"github.com/starford/linkshelf/internal/models"
	"github.com/starford/linkshelf/internal/parser"
	"github.com/starford/linkshelf/internal/storage"
)

// Ext is the file extension of entry files.
const Ext = ".md"

// Detail is the full representation of an entry file.
type Detail struct {
	Path     string       `json:"path"`
	Checksum string       `json:"checksum"`
	Content  string       `json:"content"`
	Entry    models.Entry `json:"entry"`
}

// ListItem is a lightweight item in a list response.
type ListItem struct {
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Tags     []string `json:"tags"`
	Checksum string   `json:"checksum"`
	Error    string   `json:"error,omitempty"`
}

// Service coordinates entry parsing and storage.
type Service struct {
	store     storage.Provider
	overwrite bool
}

// NewService creates a new entries service. When overwrite is false,
// Create refuses to replace an existing file.
func NewService(store storage.Provider, overwrite bool) *Service {
	return &Service{store: store, overwrite: overwrite}
}

// Folders returns the first-level subfolders entries may be filed under.
func (s *Service) Folders(_ context.Context) ([]string, error) {
	return s.store.Dirs()
}

// Path returns the relative file path for an entry named base in folder.
func Path(folder, base string) string {
	if folder == "" {
		return base + Ext
	}
	return path.Join(folder, base+Ext)
}

// Get reads and parses the entry at p.
func (s *Service) Get(_ context.Context, p string) (*Detail, error) {
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("entries: %s: %w", p, apperr.ErrNotFound)
		}
		return nil, err
	}
	return buildDetail(p, data)
}

// Create renders e and writes it to p. Missing directories are created.
func (s *Service) Create(_ context.Context, p string, e *models.Entry) (*Detail, error) {
	if !s.overwrite {
		exists, err := s.store.Exists(p)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("entries: %s: %w", p, apperr.ErrAlreadyExists)
		}
	}
	content, err := parser.Render(e)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(p, content); err != nil {
		return nil, err
	}
	return buildDetail(p, content)
}

// List returns every entry, optionally filtered to those carrying tag.
// Files that fail to parse are listed with Error set.
func (s *Service) List(_ context.Context, tag string) ([]ListItem, error) {
	files, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(files))
	for _, f := range files {
		item := ListItem{Path: f.Path, Checksum: f.Checksum, Tags: []string{}}
		data, err := s.store.Read(f.Path)
		if err == nil {
			var e *models.Entry
			if e, err = parser.Parse(data); err == nil {
				item.Title = e.Title
				item.URL = e.URL
				item.ImageURL = e.ImageURL
				item.Tags = nonNilSlice(e.Tags)
			}
		}
		if err != nil {
			item.Error = err.Error()
		}
		if tag != "" && !slices.Contains(item.Tags, tag) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func buildDetail(p string, data []byte) (*Detail, error) {
	e, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("entries: %s: %w", p, err)
	}
	e.Tags = nonNilSlice(e.Tags)
	return &Detail{
		Path:     p,
		Checksum: checksum.Sum(data),
		Content:  string(data),
		Entry:    *e,
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
