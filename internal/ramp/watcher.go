package ramp

import (
	"path/filepath"

	"GopherToon/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher republishes a preset file as a fresh StopSet every time it is
// written. Editors often save by rename, so the parent directory is watched
// and events are filtered by name.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan StopSet
	errs    chan error
	done    chan struct{}
}

// NewWatcher starts watching path. The file does not need to exist yet.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fs:      fsw,
		updates: make(chan StopSet, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	logger.Log.Info("Watching ramp preset", zap.String("path", abs))
	return w, nil
}

// Updates delivers the latest stop set. Only the newest unread snapshot is
// kept; older ones are dropped.
func (w *Watcher) Updates() <-chan StopSet {
	return w.updates
}

// Errors delivers read and parse failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.updates)
	defer close(w.errs)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			stops, err := LoadPreset(w.path)
			if err != nil {
				logger.Log.Warn("Ramp preset reload failed", zap.String("path", w.path), zap.Error(err))
				w.sendErr(err)
				continue
			}
			logger.Log.Debug("Ramp preset reloaded", zap.String("path", w.path), zap.Int("stops", len(stops)))
			w.sendStops(stops)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

func (w *Watcher) sendStops(stops StopSet) {
	for {
		select {
		case w.updates <- stops:
			return
		default:
		}
		// drop the stale snapshot
		select {
		case <-w.updates:
		default:
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
