// Package state reads and writes the persisted dayroll entities on top of a
// storage.Store. Absent or malformed values decode to their zero state and
// are logged, never returned as errors.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/storage"
)

type Snapshot struct {
	Tasks    []model.Task
	Rollover model.RolloverState
	Wrap     model.WrapState
	Reminder model.ReminderState
}

type Repo struct {
	store  storage.Store
	logger *log.Logger
	newID  func() string

	// repairMu serialises Tasks so two readers cannot persist different
	// replacement ids for the same stored list.
	repairMu sync.Mutex
}

func NewRepo(store storage.Store, logger *log.Logger) *Repo {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Repo{
		store:  store,
		logger: logger.WithPrefix("state"),
		newID:  func() string { return uuid.NewString() },
	}
}

func (r *Repo) Snapshot(ctx context.Context) (Snapshot, error) {
	tasks, err := r.Tasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	rollover, err := r.RolloverState(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	wrap, err := r.WrapState(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	reminder, err := r.ReminderState(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Tasks: tasks, Rollover: rollover, Wrap: wrap, Reminder: reminder}, nil
}

// Tasks loads the task list. Ids generated for tasks that were stored
// without one, or with a duplicate, are written back before returning so
// the next read sees the same ids.
func (r *Repo) Tasks(ctx context.Context) ([]model.Task, error) {
	r.repairMu.Lock()
	defer r.repairMu.Unlock()

	raw, ok, err := r.store.Get(ctx, storage.KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Task{}, nil
	}
	tasks, repaired := r.decodeTasks(raw)
	if repaired > 0 {
		r.logger.Warn("persisting repaired task ids", "count", repaired)
		if err := r.SaveTasks(ctx, tasks); err != nil {
			return nil, fmt.Errorf("repair tasks: %w", err)
		}
	}
	return tasks, nil
}

func (r *Repo) SaveTasks(ctx context.Context, tasks []model.Task) error {
	payload, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeyTasks, payload); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (r *Repo) RolloverState(ctx context.Context) (model.RolloverState, error) {
	day, err := r.loadDay(ctx, storage.KeyLastOpenDay)
	if err != nil {
		return model.RolloverState{}, err
	}
	return model.RolloverState{LastOpenDay: day}, nil
}

// CommitRollover writes the task list and the last-open day in one commit.
func (r *Repo) CommitRollover(ctx context.Context, tasks []model.Task, state model.RolloverState) error {
	payload, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.store.SetMany(ctx, map[string]string{
		storage.KeyTasks:       payload,
		storage.KeyLastOpenDay: state.LastOpenDay.String(),
	}); err != nil {
		return fmt.Errorf("commit rollover: %w", err)
	}
	return nil
}

func (r *Repo) WrapState(ctx context.Context) (model.WrapState, error) {
	raw, ok, err := r.store.Get(ctx, storage.KeyWrapData)
	if err != nil {
		return model.WrapState{}, fmt.Errorf("load wrap state: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return model.WrapState{}, nil
	}
	var ws model.WrapState
	if err := json.Unmarshal([]byte(raw), &ws); err != nil {
		r.logger.Warn("discarding malformed wrap state", "err", err)
		return model.WrapState{}, nil
	}
	if ws.Streak < 0 {
		r.logger.Warn("discarding wrap state with negative streak", "streak", ws.Streak)
		return model.WrapState{}, nil
	}
	// An unreadable day only loses the day; the streak survives.
	day, err := model.ParseDay(string(ws.LastWrapDay))
	if err != nil {
		r.logger.Warn("resetting malformed wrap day", "value", string(ws.LastWrapDay), "streak", ws.Streak)
	}
	ws.LastWrapDay = day
	return ws, nil
}

func (r *Repo) SaveWrapState(ctx context.Context, ws model.WrapState) error {
	payload, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeyWrapData, string(payload)); err != nil {
		return fmt.Errorf("save wrap state: %w", err)
	}
	return nil
}

func (r *Repo) ReminderState(ctx context.Context) (model.ReminderState, error) {
	day, err := r.loadDay(ctx, storage.KeyLastReminder)
	if err != nil {
		return model.ReminderState{}, err
	}
	return model.ReminderState{LastReminderDay: day}, nil
}

func (r *Repo) SaveReminderState(ctx context.Context, rs model.ReminderState) error {
	if err := r.store.Set(ctx, storage.KeyLastReminder, rs.LastReminderDay.String()); err != nil {
		return fmt.Errorf("save reminder state: %w", err)
	}
	return nil
}

// Reset clears every persisted entity.
func (r *Repo) Reset(ctx context.Context) error {
	for _, key := range []string{storage.KeyTasks, storage.KeyLastOpenDay, storage.KeyWrapData, storage.KeyLastReminder} {
		if err := r.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

func (r *Repo) loadDay(ctx context.Context, key string) (model.Day, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	day, err := model.ParseDay(strings.Trim(strings.TrimSpace(raw), `"`))
	if err != nil {
		r.logger.Warn("discarding malformed day", "key", key, "value", raw)
		return "", nil
	}
	return day, nil
}

type storedTask struct {
	ID        json.RawMessage `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Completed bool            `json:"completed"`
	CreatedAt json.RawMessage `json:"created_at,omitempty"`
}

// decodeTasks returns the valid tasks in raw and how many of them were
// given a fresh id.
func (r *Repo) decodeTasks(raw string) ([]model.Task, int) {
	var stored []storedTask
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("discarding malformed task list", "err", err)
		return []model.Task{}, 0
	}
	repaired := 0
	out := make([]model.Task, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for i, st := range stored {
		task := model.Task{
			ID:        decodeID(st.ID),
			Title:     strings.TrimSpace(st.Title),
			Category:  model.Category(st.Category),
			Completed: st.Completed,
		}
		if len(st.CreatedAt) > 0 {
			if err := json.Unmarshal(st.CreatedAt, &task.CreatedAt); err != nil {
				r.logger.Warn("ignoring malformed task timestamp", "index", i, "err", err)
				task.CreatedAt = time.Time{}
			}
		}
		fresh := task.ID == "" || seen[task.ID]
		if fresh {
			task.ID = r.newID()
		}
		if err := task.Validate(); err != nil {
			r.logger.Warn("dropping invalid task", "index", i, "err", err)
			continue
		}
		if fresh {
			repaired++
		}
		seen[task.ID] = true
		out = append(out, task)
	}
	return out, repaired
}

// decodeID accepts string ids and the numeric ids older lists carried.
func decodeID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return ""
}

func encodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(payload), nil
}
