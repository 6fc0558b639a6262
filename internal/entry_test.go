package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/starford/linkshelf/internal/apperr"
	"github.com/starford/linkshelf/internal/composer"
	"github.com/starford/linkshelf/internal/prompt"
	"github.com/starford/linkshelf/internal/testutil"
)

func testConfig(t *testing.T, vocab string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.App.LogLevel = slog.LevelError
	cfg.Vocabulary.Path = testutil.WriteVocabulary(t, vocab)
	cfg.Entries.Root = t.TempDir()
	cfg.Entries.Subfolders = false
	return cfg
}

func run(t *testing.T, fn func(context.Context, ...Option) error, cfg *Config, extra ...Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts := append([]Option{WithConfig(cfg), WithIO(strings.NewReader(""), &out, io.Discard)}, extra...)
	err := fn(context.Background(), opts...)
	return out.String(), err
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := RunTags(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRunValidate(t *testing.T) {
	out, err := run(t, func(ctx context.Context, opts ...Option) error {
		return RunValidate(ctx, false, opts...)
	}, testConfig(t, testutil.SampleVocabulary))
	if err != nil {
		t.Fatalf("RunValidate: %v", err)
	}
	if out != "vocabulary is consistent\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunValidate_Inconsistent(t *testing.T) {
	vocab := "- name: go\n  parents: [tech, lang]\n"
	out, err := run(t, func(ctx context.Context, opts ...Option) error {
		return RunValidate(ctx, false, opts...)
	}, testConfig(t, vocab))
	if !errors.Is(err, ErrInconsistentVocabulary) {
		t.Fatalf("expected ErrInconsistentVocabulary, got %v", err)
	}
	want := "go mentions unknown parent tech\ngo mentions unknown parent lang\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunValidate_MissingVocabulary(t *testing.T) {
	cfg := testConfig(t, testutil.SampleVocabulary)
	cfg.Vocabulary.Path = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := run(t, func(ctx context.Context, opts ...Option) error {
		return RunValidate(ctx, false, opts...)
	}, cfg)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestRunCacheImages_MissingVocabulary(t *testing.T) {
	cfg := testConfig(t, testutil.SampleVocabulary)
	cfg.Vocabulary.Path = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := run(t, RunCacheImages, cfg)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestRunCacheImages_MalformedVocabulary(t *testing.T) {
	cfg := testConfig(t, "- name: go\n  colour: blue\n")
	_, err := run(t, RunCacheImages, cfg)
	if !errors.Is(err, apperr.ErrInvalidVocabulary) {
		t.Fatalf("expected ErrInvalidVocabulary, got %v", err)
	}
}

func TestRunTags(t *testing.T) {
	out, err := run(t, RunTags, testConfig(t, testutil.SampleVocabulary))
	if err != nil {
		t.Fatalf("RunTags: %v", err)
	}
	want := "- tech: Technology\n  - go\n  - tools\n- news\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRunComposeAndCacheImages(t *testing.T) {
	img := testutil.PNG(t)
	srv := testutil.Server(t, func(r chi.Router) {
		r.Get("/page", testutil.Bytes("text/html", []byte(
			`<html><head><meta property="og:title" content="My Great Link">`+
				`<meta property="og:image" content="/cover"></head></html>`)))
		r.Get("/cover", testutil.Bytes("image/png", img))
	})
	cfg := testConfig(t, testutil.SampleVocabulary)

	answers := &prompt.Scripted{
		Inputs:     map[string]string{composer.MsgURL: srv.URL + "/page"},
		Selections: map[string][]string{composer.MsgTags: {"news"}},
	}
	out, err := run(t, RunCompose, cfg, WithAnswers(answers))
	if err != nil {
		t.Fatalf("RunCompose: %v", err)
	}
	if out != "Wrote my-great-link.md\n" {
		t.Errorf("compose output = %q", out)
	}

	out, err = run(t, RunCacheImages, cfg)
	if err != nil {
		t.Fatalf("RunCacheImages: %v", err)
	}
	if out != "Wrote my-great-link.png\n" {
		t.Errorf("cache output = %q", out)
	}
	got, err := os.ReadFile(filepath.Join(cfg.Entries.Root, "my-great-link.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, img) {
		t.Error("cached image differs from source")
	}
}
