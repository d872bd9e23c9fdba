// Package store persists the prompt list and the scalar settings. Each is a
// named document of key/value pairs held by a pluggable backend. A document is
// a snapshot of the last Reload plus local Set calls; Save writes the whole
// document, so concurrent writers resolve as last-writer-wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	json "github.com/goccy/go-json"
)

// Document is a named key/value record stored by a backend.
type Document interface {
	Name() string
	// Path is the file that changes when the document is saved.
	Path() string
	Reload(ctx context.Context) error
	Get(key string, dst any) (bool, error)
	Set(key string, v any) error
	Save(ctx context.Context) error
	Close() error
}

var ErrDocumentClosed = errors.New("document closed")

// values is the in-memory state shared by every backend.
type values struct {
	mu     sync.Mutex
	data   map[string]json.RawMessage
	closed bool
}

func (v *values) get(key string, dst any) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false, ErrDocumentClosed
	}
	raw, ok := v.data[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (v *values) set(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrDocumentClosed
	}
	if v.data == nil {
		v.data = make(map[string]json.RawMessage)
	}
	v.data[key] = raw
	return nil
}

func (v *values) replace(data map[string]json.RawMessage) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrDocumentClosed
	}
	if data == nil {
		data = make(map[string]json.RawMessage)
	}
	v.data = data
	return nil
}

// snapshot copies the current pairs in key order.
func (v *values) snapshot() ([]string, map[string]json.RawMessage, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, nil, ErrDocumentClosed
	}
	keys := make([]string, 0, len(v.data))
	out := make(map[string]json.RawMessage, len(v.data))
	for k, raw := range v.data {
		keys = append(keys, k)
		out[k] = raw
	}
	sort.Strings(keys)
	return keys, out, nil
}

func (v *values) close() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	v.closed = true
	v.data = nil
	return true
}
