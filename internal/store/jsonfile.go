package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// JSONFile keeps one document per file, written atomically.
type JSONFile struct {
	values
	name string
	path string
}

// OpenJSONFile opens name.json inside dir. A missing file is an empty
// document until the first Save.
func OpenJSONFile(ctx context.Context, dir, name string) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	doc := &JSONFile{name: name, path: filepath.Join(dir, name+".json")}
	if err := doc.Reload(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *JSONFile) Name() string { return d.name }

func (d *JSONFile) Path() string { return d.path }

func (d *JSONFile) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return d.replace(nil)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", d.path, err)
	}
	data := make(map[string]json.RawMessage)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("parse %s: %w", d.path, err)
		}
	}
	return d.replace(data)
}

func (d *JSONFile) Get(key string, dst any) (bool, error) { return d.get(key, dst) }

func (d *JSONFile) Set(key string, v any) error { return d.set(key, v) }

func (d *JSONFile) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, data, err := d.snapshot()
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+d.name+"-*.json")
	if err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	return nil
}

func (d *JSONFile) Close() error {
	d.close()
	return nil
}
