package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors emit on save.
const debounce = 200 * time.Millisecond

// ReportFunc receives the outcome of each reload. err is non-nil when the
// file could not be loaded; report is the Validate (and optionally Cycles)
// text otherwise.
type ReportFunc func(report string, err error)

// Check loads path and returns the validation report.
func Check(path string, withCycles bool) (string, error) {
	v, err := Load(path)
	if err != nil {
		return "", err
	}
	tags := v.Tags()
	errs := Validate(tags)
	if withCycles {
		errs = append(errs, Cycles(tags)...)
	}
	return Report(errs), nil
}

// Watch re-checks the vocabulary file every time it changes and calls fn
// with the result, until ctx is cancelled. The directory containing the
// file is watched so that editors replacing the file are handled.
func Watch(ctx context.Context, path string, withCycles bool, logger *slog.Logger, fn ReportFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("vocabulary: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("vocabulary: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("vocabulary: watch %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			report, err := Check(abs, withCycles)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
			} else {
				logger.Debug("watcher: reloaded", slog.String("path", abs))
			}
			fn(report, err)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
