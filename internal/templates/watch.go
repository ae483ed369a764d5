package templates

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/logging"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize templates watcher")

const defaultDebounce = 250 * time.Millisecond

// ReloadFunc receives every successfully rebuilt set.
type ReloadFunc func(*Set)

// Watcher reloads a templates file when it changes on disk. A file that
// fails to load or build is logged and the previous set stays in use.
type Watcher struct {
	path     string
	onReload ReloadFunc
	logger   *logging.Logger
	debounce time.Duration

	watcher  *fsnotify.Watcher
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches the directory holding path. Watching the directory
// keeps working across editors that replace the file by rename.
func NewWatcher(path string, onReload ReloadFunc, logger *logging.Logger) (*Watcher, error) {
	if onReload == nil {
		return nil, errors.New("reload callback is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve templates path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		onReload: onReload,
		logger:   logger,
		debounce: defaultDebounce,
		watcher:  fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start processes filesystem events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop closes the underlying watcher and waits for the event loop to exit.
// It must only be called after Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors emit bursts of events for one save.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "templates watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	s, err := Load(w.path)
	if err != nil {
		w.logger.Error(ctx, "templates reload failed, keeping previous set",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	w.logger.Info(ctx, "templates reloaded",
		zap.String("path", w.path),
		zap.Strings("groups", s.Names()),
		zap.Int("templates", s.TemplateCount()),
	)
	w.onReload(s)
}
