// Package composer builds a new link entry from a URL: it scrapes Open
// Graph metadata, asks the user to confirm or override it, and writes the
// resulting Markdown file.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/linkshelf/internal/entries"
	"github.com/starford/linkshelf/internal/models"
	"github.com/starford/linkshelf/internal/opengraph"
	"github.com/starford/linkshelf/internal/slug"
	"github.com/starford/linkshelf/internal/vocabulary"
)

// Prompt messages, in the order they are asked.
const (
	MsgURL      = "URL to include?"
	MsgTitle    = "Title"
	MsgImageURL = "Image URL"
	MsgTags     = "Tags? (space selects)"
	MsgPath     = "Path"
)

// DefaultURL is offered when no other default is configured.
const DefaultURL = "https://ogp.me"

// ErrEmptySlug is returned when the title has no characters usable in a
// file name.
var ErrEmptySlug = errors.New("composer: title produces an empty file name")

// AnswerProvider asks the user questions.
type AnswerProvider interface {
	Input(message, initial string) (string, error)
	MultiSelect(message string, choices []string) ([]string, error)
	Select(message string, choices []string, initial string) (string, error)
}

// EntryWriter stores composed entries.
type EntryWriter interface {
	Folders(ctx context.Context) ([]string, error)
	Create(ctx context.Context, path string, e *models.Entry) (*entries.Detail, error)
}

// Result describes a written entry.
type Result struct {
	Path  string       `json:"path"`
	Entry models.Entry `json:"entry"`
}

// Composer runs the interactive entry workflow.
type Composer struct {
	vocab      *vocabulary.Vocabulary
	answers    AnswerProvider
	scraper    opengraph.Scraper
	store      EntryWriter
	logger     *slog.Logger
	subfolders bool
	defaultURL string
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = l
	}
}

// WithSubfolders enables asking for a subfolder of the entries root.
func WithSubfolders(enabled bool) Option {
	return func(c *Composer) {
		c.subfolders = enabled
	}
}

// WithDefaultURL overrides the URL offered at the first prompt.
func WithDefaultURL(u string) Option {
	return func(c *Composer) {
		if u != "" {
			c.defaultURL = u
		}
	}
}

// New creates a Composer.
func New(vocab *vocabulary.Vocabulary, answers AnswerProvider, scraper opengraph.Scraper, store EntryWriter, opts ...Option) *Composer {
	c := &Composer{
		vocab:      vocab,
		answers:    answers,
		scraper:    scraper,
		store:      store,
		logger:     slog.Default(),
		defaultURL: DefaultURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose asks for a URL, pre-fills title and image from the page's Open
// Graph metadata and writes the entry.
func (c *Composer) Compose(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var folders []string
	if c.subfolders {
		var err error
		if folders, err = c.store.Folders(ctx); err != nil {
			return nil, fmt.Errorf("composer: list folders: %w", err)
		}
	}

	var a Answers
	var err error
	if a.URL, err = c.answers.Input(MsgURL, c.defaultURL); err != nil {
		return nil, err
	}
	a.URL = strings.TrimSpace(a.URL)

	og := c.scrape(ctx, a.URL)

	if a.Title, err = c.answers.Input(MsgTitle, og.Title); err != nil {
		return nil, err
	}
	if a.ImageURL, err = c.answers.Input(MsgImageURL, og.FirstImageURL()); err != nil {
		return nil, err
	}
	if a.Tags, err = c.answers.MultiSelect(MsgTags, c.vocab.Names()); err != nil {
		return nil, err
	}
	if len(folders) > 0 {
		suggestion := SuggestFolder(a.Tags, folders, c.vocab)
		if a.Path, err = c.answers.Select(MsgPath, folders, suggestion); err != nil {
			return nil, err
		}
	}

	entry, err := BuildEntry(a, og, c.vocab, folders)
	if err != nil {
		return nil, err
	}

	base := slug.Make(entry.Title)
	if base == "" {
		return nil, ErrEmptySlug
	}
	path := entries.Path(entry.Path, base)

	if _, err := c.store.Create(ctx, path, entry); err != nil {
		return nil, err
	}
	c.logger.Info("entry written",
		slog.String("path", path),
		slog.Int("tags", len(entry.Tags)))
	return &Result{Path: path, Entry: *entry}, nil
}

// scrape never fails: errors are logged and an empty result is returned.
func (c *Composer) scrape(ctx context.Context, rawURL string) *opengraph.Result {
	og, err := c.scraper.Scrape(ctx, rawURL)
	if err != nil || og == nil {
		attrs := []any{slog.String("url", rawURL)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		c.logger.Warn("Unable to read OG results", attrs...)
		return &opengraph.Result{}
	}
	return og
}
