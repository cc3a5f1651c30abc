package storage

import (
	"context"
	"errors"
)

const (
	KeyTasks        = "tasks"
	KeyLastOpenDay  = "lastOpenDay"
	KeyWrapData     = "wrapData"
	KeyLastReminder = "lastReminder"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrClosed   = errors.New("storage: store closed")
)

// Store is a string-keyed store of opaque string values. SetMany commits all
// values together or none of them.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
