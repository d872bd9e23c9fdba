package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend selects the document storage.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend accepts the names used on the command line.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json", "jsonfile":
		return BackendJSON, nil
	case "sqlite", "sqlite3":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown store backend %q", s)
	}
}

const sqliteFile = "prompt-bar.db"

// Options configure Open.
type Options struct {
	Dir     string
	Backend Backend
}

// Store bundles the documents a window process works with.
type Store struct {
	Prompts  *ListStore
	Settings *SettingsStore

	docs []Document
}

// Open opens the prompt and settings documents. Call it once per process and
// Close on shutdown.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("store directory not set")
	}
	var prompts, settings Document
	switch opts.Backend {
	case BackendJSON, "":
		p, err := OpenJSONFile(ctx, opts.Dir, PromptsDocument)
		if err != nil {
			return nil, err
		}
		s, err := OpenJSONFile(ctx, opts.Dir, SettingsDocument)
		if err != nil {
			p.Close()
			return nil, err
		}
		prompts, settings = p, s
	case BackendSQLite:
		db, err := OpenSQLite(ctx, filepath.Join(opts.Dir, sqliteFile))
		if err != nil {
			return nil, err
		}
		p, err := db.Document(ctx, PromptsDocument)
		if err != nil {
			db.Close()
			return nil, err
		}
		s, err := db.Document(ctx, SettingsDocument)
		if err != nil {
			p.Close()
			return nil, err
		}
		prompts, settings = p, s
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	return &Store{
		Prompts:  NewListStore(prompts),
		Settings: NewSettingsStore(settings),
		docs:     []Document{prompts, settings},
	}, nil
}

// WatchPaths lists the files whose modification means a document changed.
func (s *Store) WatchPaths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, doc := range s.docs {
		if _, ok := seen[doc.Path()]; ok {
			continue
		}
		seen[doc.Path()] = struct{}{}
		out = append(out, doc.Path())
	}
	return out
}

func (s *Store) Close() error {
	var errs []error
	for _, doc := range s.docs {
		if err := doc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
