package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidCategory = errors.New("model: invalid task category")

type Category string

const (
	CategoryToday    Category = "today"
	CategoryTomorrow Category = "tomorrow"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryToday, CategoryTomorrow:
		return true
	default:
		return false
	}
}

// ParseCategory accepts the category names case-insensitively.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	return nil
}

func (t Task) IsToday() bool {
	return t.Category == CategoryToday
}

// CloneTasks returns a copy of in so callers can transform it without
// touching the caller's backing array.
func CloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	copy(out, in)
	return out
}
