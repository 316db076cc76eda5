// Package filewatch reports changes to a single file using fsnotify.
package filewatch

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/gifplay/pkg/ports"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reading the file. Editors and encoders often write a file
// in several steps.
const DefaultDebounce = 50 * time.Millisecond

// Change is one settled modification of the watched file.
type Change struct {
	Path string
	// Op aggregates the operations seen during the debounce window.
	Op  fsnotify.Op
	Err error
}

// Watcher watches the directory holding a file, so replacing the file by
// rename is seen as well as writing it in place. Only changes that alter
// the file's contents are reported.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   ports.Logger

	changes chan Change
	cancel  context.CancelFunc
	done    chan struct{}

	sum [sha1.Size]byte
}

// New starts watching path until ctx is done or Close is called. A
// debounce of zero or less uses DefaultDebounce.
func New(ctx context.Context, path string, debounce time.Duration, logger ports.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		logger:   logger.WithComponent("watcher"),
		changes:  make(chan Change, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if b, err := os.ReadFile(abs); err == nil {
		w.sum = sha1.Sum(b)
	}

	go w.run(ctx)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Changes returns the channel of settled changes. It is closed when the
// watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.changes)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var pending fsnotify.Op
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending |= ev.Op
			timer.Reset(w.debounce)

		case <-timer.C:
			if !w.settle(ctx, pending) {
				return
			}
			pending = 0

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error: %s", err)
			if !w.send(ctx, Change{Path: w.path, Err: err}) {
				return
			}
		}
	}
}

// settle reads the file after a quiet period and reports it when its
// contents differ from the last report. It returns false if ctx ended.
func (w *Watcher) settle(ctx context.Context, op fsnotify.Op) bool {
	b, err := os.ReadFile(w.path)
	if err != nil {
		return w.send(ctx, Change{Path: w.path, Op: op, Err: err})
	}
	sum := sha1.Sum(b)
	if sum == w.sum {
		return true
	}
	w.sum = sum
	w.logger.Debug("Source changed: %s", w.path)
	return w.send(ctx, Change{Path: w.path, Op: op})
}

func (w *Watcher) send(ctx context.Context, c Change) bool {
	select {
	case w.changes <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
