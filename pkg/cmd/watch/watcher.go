package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/league-results/log"
)

type (
	Option  func(*Watcher)
	Watcher struct {
		path     string
		debounce time.Duration
		onChange func()
		l        *log.Logger
	}
)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func WithOnChange(f func()) Option {
	return func(w *Watcher) {
		w.onChange = f
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		w.l = l
	}
}

// NewWatcher creates a watcher for a single file.
// The directory of the file is watched since the file is replaced on save.
func NewWatcher(path string, opts ...Option) *Watcher {
	ret := &Watcher{
		path:     filepath.Clean(path),
		debounce: 500 * time.Millisecond,
		onChange: func() {},
		l:        log.Default().Named("watch"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run blocks until ctx is done. Multiple events within the debounce period
// result in a single onChange call.
//
//nolint:gocognit // by design
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.l.Error("could not create fsnotify watcher", log.ErrorField(err))
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.l.Error("could not watch directory", log.ErrorField(err))
		return err
	}
	w.l.Info("watching", log.String("file", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.l.Debug("change detected", log.String("file", event.Name), log.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case <-timer.C:
			w.l.Info("file changed", log.String("file", w.path))
			w.onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.l.Error("watcher error", log.ErrorField(err))
		}
	}
}
