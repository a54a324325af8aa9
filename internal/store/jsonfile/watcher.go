package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const debounceDelay = 50 * time.Millisecond

// Watcher reports changes to documents in a Store directory using fsnotify.
// Bursts of events for the same file (temp write, rename) collapse into one
// signal after debounceDelay.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu          sync.Mutex
	subscribers map[string][]chan struct{} // file name -> channels
	debounce    map[string]*time.Timer     // file name -> debounce timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a new watcher for dir.
// The directory is created if it doesn't exist.
func NewWatcher(dir string, log zerolog.Logger) (*Watcher, error) {
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
		dir:         dir,
		watcher:     fw,
		log:         log,
		subscribers: make(map[string][]chan struct{}),
		debounce:    make(map[string]*time.Timer),
		ctx:         ctx,
		cancel:      cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch returns a channel that receives a signal whenever key's document is
// written, replaced or removed. The channel is closed when ctx is done or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	name := fileName(key)
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	w.subscribers[name] = append(w.subscribers[name], ch)
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.unsubscribe(name, ch)
		case <-w.ctx.Done():
		}
	}()

	return ch, nil
}

// Close stops watching and closes all subscriber channels.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	for _, subs := range w.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	w.subscribers = make(map[string][]chan struct{})
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) unsubscribe(name string, ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	subs := w.subscribers[name]
	for i, sub := range subs {
		if sub == ch {
			w.subscribers[name] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(w.subscribers[name]) == 0 {
		delete(w.subscribers, name)
	}
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
			w.log.Warn().Err(err).Str("dir", w.dir).Msg("file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	name := filepath.Base(event.Name)
	if _, ok := keyFromFile(name); !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, watched := w.subscribers[name]; !watched {
		return
	}

	if timer, exists := w.debounce[name]; exists {
		timer.Stop()
	}
	w.debounce[name] = time.AfterFunc(debounceDelay, func() {
		w.notify(name)
	})
}

func (w *Watcher) notify(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subscribers[name] {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
	delete(w.debounce, name)
}
