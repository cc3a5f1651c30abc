package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/state"
)

var (
	ErrNotFound   = errors.New("tasks: task not found")
	ErrEmptyTitle = errors.New("tasks: title is required")
)

type Store struct {
	mu    sync.Mutex
	repo  *state.Repo
	now   func() time.Time
	newID func() string
}

func NewStore(repo *state.Repo) *Store {
	return &Store{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.Tasks(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (model.Task, error) {
	list, err := s.repo.Tasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (s *Store) Add(ctx context.Context, title string, category model.Category) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if !category.IsValid() {
		return model.Task{}, model.ErrInvalidCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Tasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	task := model.Task{
		ID:        s.newID(),
		Title:     title,
		Category:  category,
		CreatedAt: s.now().UTC(),
	}
	list = append(list, task)
	if err := s.repo.SaveTasks(ctx, list); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Toggle flips the completed flag and returns the updated task.
func (s *Store) Toggle(ctx context.Context, id string) (model.Task, error) {
	return s.update(ctx, id, func(t *model.Task) { t.Completed = !t.Completed })
}

func (s *Store) Delete(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Tasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	out := make([]model.Task, 0, len(list))
	var removed *model.Task
	for i := range list {
		if list[i].ID == id && removed == nil {
			removed = &list[i]
			continue
		}
		out = append(out, list[i])
	}
	if removed == nil {
		return model.Task{}, ErrNotFound
	}
	if err := s.repo.SaveTasks(ctx, out); err != nil {
		return model.Task{}, err
	}
	return *removed, nil
}

func (s *Store) update(ctx context.Context, id string, fn func(*model.Task)) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.Tasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		fn(&list[i])
		if err := s.repo.SaveTasks(ctx, list); err != nil {
			return model.Task{}, err
		}
		return list[i], nil
	}
	return model.Task{}, ErrNotFound
}

// Filter is a list view over the task set.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterTomorrow  Filter = "tomorrow"
	FilterCompleted Filter = "completed"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterToday, FilterTomorrow, FilterCompleted:
		return true
	default:
		return false
	}
}

func (f Filter) Apply(list []model.Task) []model.Task {
	out := make([]model.Task, 0, len(list))
	for _, t := range list {
		switch f {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterToday, FilterTomorrow:
			if string(t.Category) != string(f) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (f Filter) EmptyText() string {
	if f == FilterCompleted {
		return "No completed tasks yet ✅"
	}
	return "No tasks here 🎉"
}
