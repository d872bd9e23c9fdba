package store

import (
	"context"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

const (
	SettingsDocument = "settings"

	toggleShortcutKey   = "toggle_shortcut"
	submitAfterPasteKey = "submit_after_paste"
)

// DefaultToggleShortcut is the tmux key that shows and hides the bar.
const DefaultToggleShortcut = "M-Enter"

// Settings are the scalar preferences edited from the settings window.
type Settings struct {
	ToggleShortcut   string
	SubmitAfterPaste bool
}

// DefaultSettings is used for any key that was never stored.
func DefaultSettings() Settings {
	return Settings{ToggleShortcut: DefaultToggleShortcut}
}

// SettingsStore reads and writes Settings.
type SettingsStore struct {
	mu  sync.Mutex
	doc Document
}

func NewSettingsStore(doc Document) *SettingsStore {
	return &SettingsStore{doc: doc}
}

func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := DefaultSettings()
	if err := s.doc.Reload(ctx); err != nil {
		return out, err
	}
	var shortcut string
	found, err := s.doc.Get(toggleShortcutKey, &shortcut)
	if err != nil {
		return out, err
	}
	if found && shortcut != "" {
		out.ToggleShortcut = shortcut
	}
	if _, err := s.doc.Get(submitAfterPasteKey, &out.SubmitAfterPaste); err != nil {
		return out, err
	}
	return out, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.ToggleShortcut == "" {
		settings.ToggleShortcut = DefaultToggleShortcut
	}
	if err := s.doc.Set(toggleShortcutKey, settings.ToggleShortcut); err != nil {
		return err
	}
	if err := s.doc.Set(submitAfterPasteKey, settings.SubmitAfterPaste); err != nil {
		return err
	}
	if err := s.doc.Save(ctx); err != nil {
		return err
	}
	events.Store.Save(s.doc.Name(), 2)
	return nil
}
