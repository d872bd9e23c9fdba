package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name  TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (name, key)
)`

// SQLiteDB holds the connection shared by the documents of one database file.
type SQLiteDB struct {
	db   *sql.DB
	path string

	mu   sync.Mutex
	refs int
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteDB{db: db, path: path}, nil
}

// Document returns the named document backed by this database.
func (s *SQLiteDB) Document(ctx context.Context, name string) (*SQLiteDocument, error) {
	doc := &SQLiteDocument{owner: s, name: name}
	if err := doc.Reload(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
	return doc, nil
}

// Close closes the connection once every document is closed.
func (s *SQLiteDB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs > 0 {
		s.refs--
		if s.refs > 0 {
			return nil
		}
	}
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SQLiteDocument stores one document as rows of the documents table.
type SQLiteDocument struct {
	values
	owner *SQLiteDB
	name  string
}

func (d *SQLiteDocument) Name() string { return d.name }

func (d *SQLiteDocument) Path() string { return d.owner.path }

func (d *SQLiteDocument) Reload(ctx context.Context) error {
	rows, err := d.owner.db.QueryContext(ctx, `SELECT key, value FROM documents WHERE name = ?`, d.name)
	if err != nil {
		return fmt.Errorf("load %s: %w", d.name, err)
	}
	defer rows.Close()
	data := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("load %s: %w", d.name, err)
		}
		data[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load %s: %w", d.name, err)
	}
	return d.replace(data)
}

func (d *SQLiteDocument) Get(key string, dst any) (bool, error) { return d.get(key, dst) }

func (d *SQLiteDocument) Set(key string, v any) error { return d.set(key, v) }

// Save replaces every row of the document in a single transaction.
func (d *SQLiteDocument) Save(ctx context.Context) error {
	keys, data, err := d.snapshot()
	if err != nil {
		return err
	}
	tx, err := d.owner.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, d.name); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (name, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	defer stmt.Close()
	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, d.name, key, string(data[key])); err != nil {
			return fmt.Errorf("save %s.%s: %w", d.name, key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	return nil
}

func (d *SQLiteDocument) Close() error {
	if !d.close() {
		return nil
	}
	return d.owner.Close()
}
