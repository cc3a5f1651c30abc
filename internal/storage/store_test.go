package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := OpenSQLite(filepath.Join(dir, "nested", "dayroll.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	fileStore, err := OpenFile(filepath.Join(dir, "state", "dayroll.json"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	stores := map[string]Store{
		"sqlite": sqliteStore,
		"file":   fileStore,
		"memory": NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreGetMissingKey(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := store.Get(context.Background(), KeyTasks)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok || v != "" {
				t.Fatalf("expected absent key, got ok=%v value=%q", ok, v)
			}
		})
	}
}

func TestStoreSetOverwritesAndSetManyCommitsAll(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, KeyTasks, "[]"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.SetMany(ctx, map[string]string{
				KeyTasks:       `[{"id":"a"}]`,
				KeyLastOpenDay: "2026-02-10",
			}); err != nil {
				t.Fatalf("set many: %v", err)
			}
			tasks, _, _ := store.Get(ctx, KeyTasks)
			day, _, _ := store.Get(ctx, KeyLastOpenDay)
			if tasks != `[{"id":"a"}]` || day != "2026-02-10" {
				t.Fatalf("unexpected values: tasks=%q day=%q", tasks, day)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, KeyLastReminder, "2026-02-09"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.Delete(ctx, KeyLastReminder); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := store.Get(ctx, KeyLastReminder); ok {
				t.Fatal("expected key removed")
			}
			if err := store.Delete(ctx, KeyLastReminder); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got: %v", err)
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(context.Background(), KeyWrapData, `{"streak":2}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	v, ok, err := second.Get(context.Background(), KeyWrapData)
	if err != nil || !ok || v != `{"streak":2}` {
		t.Fatalf("unexpected value after reopen: %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileStoreRecoversFromCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, err := store.Get(context.Background(), KeyTasks); err != nil || ok {
		t.Fatalf("expected empty document, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(context.Background(), KeyTasks, "[]"); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file renamed away, stat err=%v", err)
	}
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Close()
	if err := store.Set(context.Background(), KeyTasks, "[]"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Backend("redis"), ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	s, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
}
