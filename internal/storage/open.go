package storage

import "fmt"

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Open picks the backend by name. path is the database file for sqlite and
// the JSON document for file; memory ignores it.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
