// Package imagecache downloads the preview image of every entry and
// stores it next to the entry file, named after it and typed by content.
package imagecache

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/linkshelf/internal/apperr"
	"github.com/starford/linkshelf/internal/checksum"
	"github.com/starford/linkshelf/internal/parser"
	"github.com/starford/linkshelf/internal/storage"
)

const defaultConcurrency = 4

// Failure records an entry whose image could not be cached.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report summarizes a cache run. Cached and Unchanged hold image paths,
// Skipped and Failed hold entry paths.
type Report struct {
	Cached    []string  `json:"cached"`
	Unchanged []string  `json:"unchanged"`
	Skipped   []string  `json:"skipped"`
	Failed    []Failure `json:"failed"`
}

// Cache writes image artifacts for entries in a storage provider.
type Cache struct {
	store       storage.Provider
	fetcher     Fetcher
	classifier  Classifier
	logger      *slog.Logger
	concurrency int
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for per-entry progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// WithConcurrency bounds how many entries are fetched at once.
func WithConcurrency(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a Cache.
func New(store storage.Provider, fetcher Fetcher, classifier Classifier, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		fetcher:     fetcher,
		classifier:  classifier,
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type outcome int

const (
	outcomeCached outcome = iota
	outcomeUnchanged
	outcomeSkipped
)

// Run caches the image of every entry. A failing entry is logged and
// recorded in the report; the run only returns an error when the entries
// cannot be listed or ctx is cancelled.
func (c *Cache) Run(ctx context.Context) (Report, error) {
	var report Report
	files, err := c.store.List("")
	if err != nil {
		return report, fmt.Errorf("imagecache: list entries: %w", err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			target, res, err := c.cacheEntry(ctx, f.Path)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				c.logger.Warn("image not cached",
					slog.String("entry", f.Path),
					slog.String("error", err.Error()))
				report.Failed = append(report.Failed, Failure{Path: f.Path, Error: err.Error()})
			case res == outcomeSkipped:
				report.Skipped = append(report.Skipped, f.Path)
			case res == outcomeUnchanged:
				report.Unchanged = append(report.Unchanged, target)
			default:
				report.Cached = append(report.Cached, target)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Cached)
	sort.Strings(report.Unchanged)
	sort.Strings(report.Skipped)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Path < report.Failed[j].Path })

	c.logger.Info("image cache finished",
		slog.Int("cached", len(report.Cached)),
		slog.Int("unchanged", len(report.Unchanged)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)))

	return report, ctx.Err()
}

func (c *Cache) cacheEntry(ctx context.Context, entryPath string) (string, outcome, error) {
	data, err := c.store.Read(entryPath)
	if err != nil {
		return "", 0, err
	}
	e, err := parser.Parse(data)
	if err != nil {
		return "", 0, err
	}
	if strings.TrimSpace(e.ImageURL) == "" {
		c.logger.Info("no imageUrl", slog.String("entry", entryPath))
		return "", outcomeSkipped, nil
	}

	c.logger.Debug("fetching image", slog.String("entry", entryPath), slog.String("url", e.ImageURL))
	img, err := c.fetcher.Fetch(ctx, e.ImageURL)
	if err != nil {
		return "", 0, err
	}
	ext, err := c.classifier.Classify(img)
	if err != nil {
		return "", 0, err
	}
	target := ArtifactPath(entryPath, ext)

	if prev, err := c.store.Read(target); err == nil && checksum.Same(prev, img) {
		c.logger.Debug("image unchanged", slog.String("path", target))
		return target, outcomeUnchanged, nil
	}
	if err := c.store.Write(target, img); err != nil {
		return "", 0, err
	}
	c.logger.Debug("image written", slog.String("path", target), slog.Int("bytes", len(img)))
	return target, outcomeCached, nil
}

// ArtifactPath returns the sibling image path for an entry file.
func ArtifactPath(entryPath, ext string) string {
	dir, file := path.Split(entryPath)
	base := strings.TrimSuffix(file, path.Ext(file))
	return dir + base + "." + ext
}

// Single caches the image of one entry, for callers that operate on a
// single file. It returns the written image path.
func (c *Cache) Single(ctx context.Context, entryPath string) (string, error) {
	target, res, err := c.cacheEntry(ctx, entryPath)
	if err != nil {
		return "", err
	}
	if res == outcomeSkipped {
		return "", fmt.Errorf("imagecache: %s: %w", entryPath, apperr.ErrNoImage)
	}
	return target, nil
}
