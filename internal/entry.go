// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/linkshelf/internal/composer"
	"github.com/starford/linkshelf/internal/entries"
	"github.com/starford/linkshelf/internal/imagecache"
	"github.com/starford/linkshelf/internal/mcpserver"
	"github.com/starford/linkshelf/internal/opengraph"
	"github.com/starford/linkshelf/internal/prompt"
	"github.com/starford/linkshelf/internal/storage"
	"github.com/starford/linkshelf/internal/vocabulary"
)

// Version is reported by the MCP server.
var Version = "dev"

// ErrInconsistentVocabulary is returned by RunValidate when the report is
// not empty.
var ErrInconsistentVocabulary = errors.New("tag hierarchy is inconsistent")

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{
		in:     os.Stdin,
		out:    os.Stdout,
		logOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	logger := newLogger(app.config.App, app.logOut)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("vocabulary_path", app.config.Vocabulary.Path),
		slog.String("entries_root", app.config.Entries.Root),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, logger, nil
}

// newLogger writes to w so that stdout stays free for command output.
func newLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func (a *application) entriesService() (*entries.Service, error) {
	store, err := storage.NewFS(a.config.Entries.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return entries.NewService(store, a.config.Entries.Overwrite), nil
}

func (a *application) scraper() *opengraph.HTTPScraper {
	f := a.config.Fetch
	return opengraph.NewHTTPScraper(
		opengraph.WithTimeout(f.Timeout),
		opengraph.WithUserAgent(f.UserAgent),
		opengraph.WithMaxBytes(f.MaxBytes),
	)
}

func (a *application) imageCache(logger *slog.Logger) (*imagecache.Cache, error) {
	store, err := storage.NewFS(a.config.Entries.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	f := a.config.Fetch
	fetcher := imagecache.NewHTTPFetcher(
		imagecache.WithTimeout(f.Timeout),
		imagecache.WithMaxBytes(f.MaxBytes),
		imagecache.WithUserAgent(f.UserAgent),
		imagecache.WithBlockPrivate(f.BlockPrivate),
	)
	return imagecache.New(store, fetcher, imagecache.ContentClassifier{},
		imagecache.WithLogger(logger),
		imagecache.WithConcurrency(a.config.Images.Concurrency),
	), nil
}

// RunCompose interactively creates one entry.
func RunCompose(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	vocab, err := vocabulary.Load(cfg.Vocabulary.Path)
	if err != nil {
		return err
	}
	svc, err := app.entriesService()
	if err != nil {
		return err
	}

	answers := app.answers
	if answers == nil {
		term := prompt.NewTerminal(app.out)
		defer term.Close()
		answers = term
	}

	c := composer.New(vocab, answers, app.scraper(), svc,
		composer.WithLogger(logger),
		composer.WithSubfolders(cfg.Entries.Subfolders),
		composer.WithDefaultURL(cfg.Entries.DefaultURL),
	)
	res, err := c.Compose(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Wrote %s\n", res.Path)
	return nil
}

// RunValidate checks the tag hierarchy and prints the report. With watch,
// it keeps re-checking on every change to the vocabulary file until ctx is
// cancelled.
func RunValidate(ctx context.Context, watch bool, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config.Vocabulary

	report, err := vocabulary.Check(cfg.Path, cfg.CheckCycles)
	if err != nil {
		return err
	}
	printReport(app.out, report)

	if !watch {
		if report != "" {
			return ErrInconsistentVocabulary
		}
		return nil
	}

	return vocabulary.Watch(ctx, cfg.Path, cfg.CheckCycles, logger, func(report string, err error) {
		if err != nil {
			fmt.Fprintf(app.out, "error: %v\n", err)
			return
		}
		printReport(app.out, report)
	})
}

func printReport(w io.Writer, report string) {
	if report == "" {
		fmt.Fprintln(w, "vocabulary is consistent")
		return
	}
	fmt.Fprintln(w, report)
}

// RunCacheImages downloads the preview image of every entry. The
// vocabulary must load even though images do not depend on it.
func RunCacheImages(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	if _, err := vocabulary.Load(app.config.Vocabulary.Path); err != nil {
		return err
	}
	cache, err := app.imageCache(logger)
	if err != nil {
		return err
	}
	report, err := cache.Run(ctx)
	if err != nil {
		return err
	}
	for _, p := range report.Cached {
		fmt.Fprintf(app.out, "Wrote %s\n", p)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(app.out, "Failed %s: %s\n", f.Path, f.Error)
	}
	return nil
}

// RunTags prints the tag vocabulary as an indented tree.
func RunTags(_ context.Context, opts ...Option) error {
	app, _, err := newApplication(opts)
	if err != nil {
		return err
	}
	vocab, err := vocabulary.Load(app.config.Vocabulary.Path)
	if err != nil {
		return err
	}
	return vocabulary.PrintTree(app.out, vocab.Tree())
}

// RunMCP serves the MCP tools on the configured input and output streams
// until ctx is cancelled or the input is closed.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	svc, err := app.entriesService()
	if err != nil {
		return err
	}
	cache, err := app.imageCache(logger)
	if err != nil {
		return err
	}

	srv := mcpserver.New(Version, mcpserver.Deps{
		VocabularyPath: cfg.Vocabulary.Path,
		CheckCycles:    cfg.Vocabulary.CheckCycles,
		Subfolders:     cfg.Entries.Subfolders,
		DefaultURL:     cfg.Entries.DefaultURL,
		Entries:        svc,
		Scraper:        app.scraper(),
		Images:         cache,
		Logger:         logger,
	})

	logger.Info("MCP server starting on stdio")
	if err := srv.Serve(ctx, app.in, app.out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	logger.Info("MCP server stopped")
	return nil
}
