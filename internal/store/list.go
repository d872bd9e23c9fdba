package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
)

const (
	PromptsDocument = "prompts"
	PromptsKey      = "prompts"
)

// ListStore reads and writes the whole prompt list.
type ListStore struct {
	mu  sync.Mutex
	doc Document
}

func NewListStore(doc Document) *ListStore {
	return &ListStore{doc: doc}
}

// Document exposes the backing document, mainly for its Path.
func (s *ListStore) Document() Document {
	return s.doc
}

// Load returns exactly what is persisted. found is false when the list has
// never been written.
func (s *ListStore) Load(ctx context.Context) (prompt.List, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *ListStore) loadLocked(ctx context.Context) (prompt.List, bool, error) {
	if err := s.doc.Reload(ctx); err != nil {
		return nil, false, err
	}
	var list prompt.List
	found, err := s.doc.Get(PromptsKey, &list)
	if err != nil {
		return nil, found, err
	}
	if list == nil {
		list = prompt.List{}
	}
	events.Store.Load(s.doc.Name(), len(list), false)
	return list, found, nil
}

// LoadOrSeed loads the list and writes the default prompts when none exist.
func (s *ListStore) LoadOrSeed(ctx context.Context) (prompt.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, _, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return list, nil
	}
	list = prompt.Defaults()
	if err := s.saveLocked(ctx, list); err != nil {
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	events.Store.Load(s.doc.Name(), len(list), true)
	return list, nil
}

// Save persists list, overwriting whatever was stored.
func (s *ListStore) Save(ctx context.Context, list prompt.List) error {
	if err := list.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, list)
}

func (s *ListStore) saveLocked(ctx context.Context, list prompt.List) error {
	if list == nil {
		list = prompt.List{}
	}
	if err := s.doc.Set(PromptsKey, list); err != nil {
		return err
	}
	if err := s.doc.Save(ctx); err != nil {
		return err
	}
	events.Store.Save(s.doc.Name(), len(list))
	return nil
}
