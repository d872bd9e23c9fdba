package window

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

var ErrNotOpen = errors.New("window not open")

// Factory creates the window for a key that has none.
type Factory func(ctx context.Context) (*Handle, error)

// Registry maps keys to open windows.
type Registry struct {
	host Host

	mu      sync.Mutex
	windows map[string]*Handle
	pending map[string]chan struct{}
}

func NewRegistry(host Host) *Registry {
	return &Registry{
		host:    host,
		windows: make(map[string]*Handle),
		pending: make(map[string]chan struct{}),
	}
}

// Host returns the host the registry drives.
func (r *Registry) Host() Host {
	return r.host
}

// OpenOrFocus focuses the window registered under key, or creates one with
// factory when there is none. created reports which happened. Concurrent
// calls for the same key never run factory twice.
func (r *Registry) OpenOrFocus(ctx context.Context, key string, factory Factory) (h *Handle, created bool, err error) {
	for {
		r.mu.Lock()
		if existing, ok := r.windows[key]; ok && !existing.Closed() {
			r.mu.Unlock()
			events.Window.Focus(key)
			if err := r.host.Focus(ctx, existing); err != nil {
				return existing, false, fmt.Errorf("focus %s: %w", key, err)
			}
			return existing, false, nil
		}
		wait, busy := r.pending[key]
		if !busy {
			break
		}
		r.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	delete(r.windows, key)
	gate := make(chan struct{})
	r.pending[key] = gate
	r.mu.Unlock()

	h, err = factory(ctx)

	r.mu.Lock()
	delete(r.pending, key)
	close(gate)
	if err == nil && h != nil {
		r.windows[key] = h
	}
	r.mu.Unlock()

	if err != nil {
		return nil, false, fmt.Errorf("create %s: %w", key, err)
	}
	if h == nil {
		return nil, false, fmt.Errorf("create %s: factory returned no window", key)
	}
	events.Window.Open(key, h.Position.X, h.Position.Y, h.Size.Width, h.Size.Height)
	go r.watch(key, h)
	return h, true, nil
}

// Open creates key through the host, or focuses the existing window.
func (r *Registry) Open(ctx context.Context, key string, cfg Config) (*Handle, bool, error) {
	return r.OpenOrFocus(ctx, key, func(ctx context.Context) (*Handle, error) {
		return r.host.Create(ctx, key, cfg)
	})
}

// Adopt registers a window this process did not create, such as the pane it
// runs in.
func (r *Registry) Adopt(h *Handle) {
	r.mu.Lock()
	r.windows[h.Key] = h
	r.mu.Unlock()
	go r.watch(h.Key, h)
}

// Get returns the open window under key.
func (r *Registry) Get(key string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.windows[key]
	if !ok || h.Closed() {
		return nil, false
	}
	return h, true
}

// Exists reports whether key has an open window.
func (r *Registry) Exists(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys lists the registered keys.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.windows))
	for k, h := range r.windows {
		if !h.Closed() {
			keys = append(keys, k)
		}
	}
	return keys
}

// CloseByKey asks the host to close key and forgets it. The entry is removed
// even when the host call fails so a later open starts fresh.
func (r *Registry) CloseByKey(ctx context.Context, key string) error {
	r.mu.Lock()
	h, ok := r.windows[key]
	delete(r.windows, key)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("close %s: %w", key, ErrNotOpen)
	}
	events.Window.Close(key)
	err := r.host.Close(ctx, h)
	h.MarkClosed()
	if err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

// CloseAll closes every registered window except the ones named in keep.
func (r *Registry) CloseAll(ctx context.Context, keep ...string) error {
	skip := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		skip[k] = struct{}{}
	}
	var errs []error
	for _, key := range r.Keys() {
		if _, ok := skip[key]; ok {
			continue
		}
		if err := r.CloseByKey(ctx, key); err != nil && !errors.Is(err, ErrNotOpen) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) watch(key string, h *Handle) {
	<-h.Done()
	r.mu.Lock()
	if r.windows[key] == h {
		delete(r.windows, key)
	}
	r.mu.Unlock()
	events.Window.Closed(key)
}
