// Package watch reacts to changes made to the data file and upload
// directory behind the server's back.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a callback fires.
const DefaultDebounce = 200 * time.Millisecond

// Options configures Watch.
type Options struct {
	// UploadDir is watched for removed or renamed attachments.
	UploadDir string
	// DataFile, when set, is watched for external rewrites.
	DataFile string
	// Debounce overrides DefaultDebounce.
	Debounce time.Duration
	// IgnorePrefixes lists temp file prefixes whose events are dropped.
	IgnorePrefixes []string

	// OnUploadsRemoved runs after attachments disappear.
	OnUploadsRemoved func(ctx context.Context)
	// OnDataChanged runs after the data file is rewritten.
	OnDataChanged func(ctx context.Context)
}

// Watch blocks processing fsnotify events until ctx is cancelled.
func Watch(ctx context.Context, opts Options, logger *slog.Logger) error {
	if opts.UploadDir == "" && opts.DataFile == "" {
		return errors.New("watch: nothing to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	for _, p := range []*string{&opts.UploadDir, &opts.DataFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	var dataDir, dataName string
	if opts.UploadDir != "" {
		if err := w.Add(opts.UploadDir); err != nil {
			return err
		}
	}
	if opts.DataFile != "" {
		dataDir, dataName = filepath.Split(opts.DataFile)
		dataDir = filepath.Clean(dataDir)
		if dataDir != opts.UploadDir {
			if err := w.Add(dataDir); err != nil {
				return err
			}
		}
	}

	logger.Info("watcher: started",
		slog.String("uploads", opts.UploadDir),
		slog.String("data_file", opts.DataFile))

	uploads := newDebouncer(opts.Debounce)
	data := newDebouncer(opts.Debounce)
	defer uploads.stop()
	defer data.stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case <-uploads.C():
			if opts.OnUploadsRemoved != nil {
				opts.OnUploadsRemoved(ctx)
			}

		case <-data.C():
			if opts.OnDataChanged != nil {
				opts.OnDataChanged(ctx)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			dir, name := filepath.Split(ev.Name)
			dir = filepath.Clean(dir)
			if ignored(name, opts.IgnorePrefixes) {
				continue
			}

			switch {
			case dataName != "" && dir == dataDir && name == dataName:
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					logger.Debug("watcher: data file changed", slog.String("op", ev.Op.String()))
					data.schedule()
				}
			case opts.UploadDir != "" && dir == opts.UploadDir:
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					logger.Debug("watcher: upload removed", slog.String("file", name))
					uploads.schedule()
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func ignored(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// debouncer coalesces bursts of events into one timer fire.
// It is only touched from the Watch goroutine.
type debouncer struct {
	d     time.Duration
	timer *time.Timer
}

func newDebouncer(d time.Duration) *debouncer {
	return &debouncer{d: d}
}

func (b *debouncer) schedule() {
	if b.timer == nil {
		b.timer = time.NewTimer(b.d)
		return
	}
	b.timer.Reset(b.d)
}

// C returns nil until the first schedule, which blocks forever in a select.
func (b *debouncer) C() <-chan time.Time {
	if b.timer == nil {
		return nil
	}
	return b.timer.C
}

func (b *debouncer) stop() {
	if b.timer != nil {
		b.timer.Stop()
	}
}
