package tasklog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceDelay   = 100 * time.Millisecond
	eventBufferSize = 16
)

// Watcher reports changes to a log file. Compaction replaces the file by
// rename, so the containing directory is watched rather than the file.
type Watcher struct {
	path    string
	name    string
	watcher *fsnotify.Watcher
	events  chan time.Time
	errs    chan error

	mu       sync.Mutex
	debounce *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching the log at path. The directory is created if
// it does not exist.
func NewWatcher(path string) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		name:    filepath.Base(path),
		watcher: fw,
		events:  make(chan time.Time, eventBufferSize),
		errs:    make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Changes receives the time of each debounced change to the log. The
// channel is closed by Close.
func (w *Watcher) Changes() <-chan time.Time {
	return w.events
}

// Errors receives watcher failures reported by the operating system.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	close(w.events)
	w.mu.Unlock()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	// Temp files written during compaction are ignored; the rename onto the
	// log shows up as a Create of the log name.
	if filepath.Base(event.Name) != w.name {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}

	select {
	case w.events <- time.Now():
	default:
		// A pending notification already covers this change.
	}
	w.debounce = nil
}
