package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps every key in one JSON document. Writes go to a temp file
// that is renamed over the original, so readers see either the old or the
// new document.
type FileStore struct {
	mu     sync.Mutex
	path   string
	closed bool
}

type fileDocument struct {
	Values map[string]string `json:"values"`
}

func OpenFile(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: state file path is empty")
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return &FileStore{path: trimmed}, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *FileStore) SetMany(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		doc.Values[k] = v
	}
	return f.write(doc)
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Values[key]; !ok {
		return ErrNotFound
	}
	delete(doc.Values, key)
	return f.write(doc)
}

func (f *FileStore) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// read treats a missing, empty or unparsable file as an empty document; the
// next write replaces it.
func (f *FileStore) read() (fileDocument, error) {
	doc := fileDocument{Values: make(map[string]string)}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("read state file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return doc, nil
	}
	var parsed fileDocument
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Values == nil {
		return doc, nil
	}
	return parsed, nil
}

func (f *FileStore) write(doc fileDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
