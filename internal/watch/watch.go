// Package watch monitors a single image file for changes so the recolor
// pipeline can re-run automatically. It prefers fsnotify notifications and
// falls back to stat polling when the platform cannot deliver them.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// DefaultPollInterval is the stat frequency used in polling mode when no
// interval is configured.
const DefaultPollInterval = 5 * time.Second

// Watcher monitors one input file for changes using fsnotify with a polling
// fallback.
type Watcher struct {
	// path is the absolute path to the input file being monitored.
	path string
	// dir is the parent directory registered with fsnotify. Watching the
	// directory instead of the file survives editors that save via a
	// temp-file rename.
	dir string
	// raw receives one signal per detected change, before debouncing.
	// Buffered to 1: back-to-back writes collapse into one signal.
	raw chan struct{}
	// events delivers a debounced signal each time the input file changes.
	events chan struct{}
	// done signals the watch goroutines to exit; [Watcher.Close] closes it.
	done chan struct{}
	// fsw is the native notification watcher, nil once polling takes over.
	fsw *fsnotify.Watcher
	// once makes [Watcher.Close] safe to call more than once.
	once sync.Once
	// polling flips to true when stat polling replaces fsnotify.
	polling atomic.Bool
	// pollInterval is the stat cadence in polling mode.
	pollInterval time.Duration
	// debounce is the quiet period applied after a change before the event
	// is delivered. Zero delivers immediately.
	debounce time.Duration
}

// NewWatcher creates a new Watcher for the given input file path. It uses
// fsnotify on the parent directory as the primary change detection mechanism
// and falls back to polling if fsnotify is unavailable. pollInterval controls
// the stat frequency in polling mode and debounce the quiet period before an
// event fires.
func NewWatcher(inputPath string, pollInterval, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	w := &Watcher{
		path:         abs,
		dir:          filepath.Dir(abs),
		raw:          make(chan struct{}, 1),
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: pollInterval,
		debounce:     debounce,
	}

	go w.pump()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("file notifications unavailable, polling instead", "error", err)
		w.polling.Store(true)
		go w.poll()
		return w, nil
	}

	w.fsw = fsw
	if err := fsw.Add(w.dir); err != nil {
		slog.Info("cannot watch directory, falling back to polling", "path", w.dir, "error", err)
		fsw.Close()
		w.fsw = nil
		w.polling.Store(true)
		go w.poll()
		return w, nil
	}

	go w.watch()
	return w, nil
}

// isTarget reports whether an fsnotify event name refers to the watched file.
// Event names may arrive relative or absolute, so only the base is compared;
// every event comes from the watched directory.
func (w *Watcher) isTarget(name string) bool {
	return filepath.Base(name) == filepath.Base(w.path)
}

// Polling reports whether the watcher fell back to stat polling.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Events returns a channel that receives a signal when the input file changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watch goroutines and releases the fsnotify handle.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
		}
	})
	return err
}

// watch loops over fsnotify events on the parent directory, forwarding
// write/create notifications for the watched file. If fsnotify encounters an
// error, watch closes the native watcher and falls back to [Watcher.poll].
func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && w.isTarget(event.Name) {
				w.trigger()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Info("file notification stream failed, polling instead", "error", err)
			w.fsw.Close()
			w.fsw = nil
			w.polling.Store(true)
			go w.poll()
			return
		}
	}
}

// poll periodically stats the input file and raises a change when the
// modification time or size differs from the last observation. It runs as a
// fallback when fsnotify is unavailable.
func (w *Watcher) poll() {
	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(w.path); err == nil {
		lastMod = info.ModTime()
		lastSize = info.Size()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if !info.ModTime().Equal(lastMod) || info.Size() != lastSize {
				lastMod = info.ModTime()
				lastSize = info.Size()
				w.trigger()
			}
		}
	}
}

// pump turns raw change triggers into debounced events. After the first
// trigger it waits out the debounce window, absorbing any further triggers,
// then delivers a single signal. Editors that emit several writes per save
// produce one re-run.
func (w *Watcher) pump() {
	for {
		select {
		case <-w.done:
			return
		case <-w.raw:
			if w.debounce > 0 {
				timer := time.NewTimer(w.debounce)
			settle:
				for {
					select {
					case <-w.done:
						timer.Stop()
						return
					case <-w.raw:
						// Another change inside the window rides along.
					case <-timer.C:
						break settle
					}
				}
			}
			w.notify()
		}
	}
}

// trigger records a raw change. If one is already pending the call is a no-op.
func (w *Watcher) trigger() {
	select {
	case w.raw <- struct{}{}:
	default:
	}
}

// notify delivers one debounced event. When the consumer has not drained
// the previous one the delivery is dropped, not queued.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
