// Package watch reloads the catalog when its file changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
)

// ReloadFunc is called once per burst of file changes.
type ReloadFunc func(ctx context.Context) error

// Watcher watches a single file. It watches the parent directory so that
// editors that replace the file by rename are still noticed.
type Watcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path.
func New(path string, reload ReloadFunc, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", path, "catalog path is required to watch")
	}
	if reload == nil {
		return nil, errors.NewValidationError("reload", nil, "reload function is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapIO("resolve", path, err)
	}
	w := &Watcher{path: abs, reload: reload, debounce: constants.ReloadDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is cancelled. Reload failures are logged and do not
// stop the watcher; the previous catalog stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("path", w.path).Logger()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO("watch", w.path, err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing file watcher failed")
		}
	}()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.WrapIO("watch", filepath.Dir(w.path), err)
	}
	log.Info().Dur("debounce", w.debounce).Msg("Watching catalog file")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Catalog watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("Catalog file changed")
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("File watcher error")

		case <-timer.C:
			if err := w.reload(logging.WithLogger(ctx, &log)); err != nil {
				log.Error().Err(err).Msg("Catalog reload failed")
				continue
			}
			log.Info().Msg("Catalog reload applied")
		}
	}
}

// relevant reports whether event touches the watched file with a content change.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
