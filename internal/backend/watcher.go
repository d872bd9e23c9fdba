// Package backend watches the store files so every window process learns
// about list changes made elsewhere, including by other tools.
package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

const (
	DefaultDebounce     = 150 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// Event reports that a watched file changed, or that watching failed.
type Event struct {
	Path string
	Err  error
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll skips fsnotify, for filesystems that do not deliver events.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher emits an Event whenever one of its files changes. Bursts of writes
// (a temp file plus rename, a database and its journal) produce one event.
type Watcher struct {
	paths        []string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	ctx    context.Context
	cancel context.CancelFunc

	fsw       *fsnotify.Watcher
	debouncer *debouncer

	mu      sync.Mutex
	changed string
	fire    chan struct{}

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching paths. Files need not exist yet.
func NewWatcher(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		abs = append(abs, a)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		paths:        abs,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		ctx:          ctx,
		cancel:       cancel,
		events:       make(chan Event, 16),
		fire:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = newDebouncer(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
	w.wg.Add(1)
	go w.dispatch()

	if !w.forcePoll {
		if err := w.startNotify(); err != nil {
			w.forcePoll = true
		}
	}
	if w.forcePoll {
		w.wg.Add(1)
		go w.poll()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns the change stream. It is closed after Stop once every
// goroutine has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Polling reports whether the watcher fell back to stat polling.
func (w *Watcher) Polling() bool {
	return w.forcePoll
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
	w.debouncer.stop()
	if w.fsw != nil {
		w.fsw.Close()
	}
}

// Wait blocks until the watcher goroutines have exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startNotify() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := make(map[string]struct{})
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		// Watching the directory survives the rename used for atomic writes.
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return err
		}
	}
	w.fsw = fsw
	w.wg.Add(1)
	go w.watchNotify()
	return nil
}

func (w *Watcher) watchNotify() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if path, ok := w.match(evt.Name); ok {
				w.mark(path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emit(Event{Err: err})
		}
	}
}

// match maps a changed file to the watched path it belongs to. Companion
// files such as a sqlite "-wal" journal count as the main file.
func (w *Watcher) match(name string) (string, bool) {
	name = filepath.Clean(name)
	for _, p := range w.paths {
		if name == p || strings.HasPrefix(name, p+"-") {
			return p, true
		}
	}
	return "", false
}

func (w *Watcher) mark(path string) {
	w.mu.Lock()
	w.changed = path
	w.mu.Unlock()
	w.debouncer.trigger()
}

func (w *Watcher) dispatch() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.fire:
			w.mu.Lock()
			path := w.changed
			w.mu.Unlock()
			events.Store.Changed(path)
			w.emit(Event{Path: path})
		}
	}
}

func (w *Watcher) emit(evt Event) {
	select {
	case <-w.ctx.Done():
	case w.events <- evt:
	}
}

type fileState struct {
	mtime time.Time
	size  int64
	ok    bool
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{mtime: info.ModTime(), size: info.Size(), ok: true}
}

func (w *Watcher) poll() {
	defer w.wg.Done()
	last := make(map[string]fileState, len(w.paths))
	for _, p := range w.paths {
		last[p] = stat(p)
	}
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			for _, p := range w.paths {
				cur := stat(p)
				if cur != last[p] {
					last[p] = cur
					w.mark(p)
				}
			}
		}
	}
}
