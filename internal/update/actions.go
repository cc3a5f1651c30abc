package update

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

const newDayText = "🌅 A new day! Unfinished tasks moved to tomorrow."

func (m *Model) addTask(title string, category model.Category) tea.Cmd {
	if strings.TrimSpace(title) == "" {
		return m.notify("Add", "Please enter a task!", "error")
	}
	if m.store == nil {
		return nil
	}
	t, err := m.store.Add(m.ctx, title, category)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.reload()
	m.focusTask(t.ID)
	return m.notify("Add", fmt.Sprintf("Task %q added!", t.Title), "success")
}

func (m *Model) toggleTask(id string) tea.Cmd {
	if m.store == nil {
		return nil
	}
	t, err := m.store.Toggle(m.ctx, id)
	if errors.Is(err, tasks.ErrNotFound) {
		m.reload()
		return m.notify("Toggle", "That task no longer exists", "info")
	}
	if err != nil {
		m.fail(err)
		return nil
	}
	m.reload()
	state := "incomplete"
	if t.Completed {
		state = "completed"
		m.Reminder = ""
	}
	return m.notify("Toggle", fmt.Sprintf("Task %q marked as %s", t.Title, state), "info")
}

func (m *Model) askDelete(t model.Task) {
	m.PendingDelete = &t
	m.Mode = ModeConfirm
}

func (m *Model) deleteTask(id string) tea.Cmd {
	if m.store == nil {
		return nil
	}
	t, err := m.store.Delete(m.ctx, id)
	if errors.Is(err, tasks.ErrNotFound) {
		m.reload()
		return m.notify("Delete", "That task no longer exists", "info")
	}
	if err != nil {
		m.fail(err)
		return nil
	}
	m.reload()
	return m.notify("Delete", fmt.Sprintf("Task %q deleted!", t.Title), "error")
}

func (m *Model) wrapDay() {
	if m.service == nil {
		return
	}
	res, err := m.service.WrapDay(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.Wrap = &res
	m.Streak = res.Streak
	m.Mode = ModeWrap
}

func (m *Model) setFilter(f tasks.Filter) {
	if !f.IsValid() {
		return
	}
	m.Filter = f
	m.Cursor = 0
	m.clampCursor()
}

func (m *Model) cycleFilter(step int) {
	idx := 0
	for i, f := range Filters {
		if f == m.Filter {
			idx = i
			break
		}
	}
	idx = (idx + step + len(Filters)) % len(Filters)
	m.setFilter(Filters[idx])
}

// rollover reruns the day rollover, as on foreground or from the palette.
func (m *Model) rollover() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	res, err := m.loop.Foreground(m.ctx)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.Today = res.Day
	if !res.Changed {
		return nil
	}
	m.reload()
	return m.notify("Rollover", fmt.Sprintf("Rolled over to %s", res.Day), "info")
}

// applyOutcome renders what the scheduler loop did.
func (m *Model) applyOutcome(out daily.Outcome) tea.Cmd {
	var cmds []tea.Cmd
	if !out.Rollover.Day.IsZero() {
		m.Today = out.Rollover.Day
	}
	if out.Err != nil {
		m.fail(out.Err)
	}
	if out.Rollover.Changed || out.NewDay {
		m.reload()
	}
	if out.NewDay {
		m.Reminder = ""
		cmds = append(cmds, m.notifyDesktop("dayroll", newDayText, "info"))
	}
	if out.Remind {
		m.Reminder = daily.ReminderText
		cmds = append(cmds, m.notifyDesktop("dayroll", daily.ReminderText, "warning"))
	}
	return tea.Batch(cmds...)
}

func (m *Model) focusTask(id string) {
	for i, t := range m.visible() {
		if t.ID == id {
			m.Cursor = i
			return
		}
	}
}

// resolveTarget maps a palette target onto a task: "selected", a 1-based
// row in the visible list, or a unique id prefix.
func (m Model) resolveTarget(target string) (model.Task, error) {
	if target == "" || target == "selected" {
		if t, ok := m.selected(); ok {
			return t, nil
		}
		return model.Task{}, tasks.ErrNotFound
	}
	list := m.visible()
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(list) {
			return model.Task{}, fmt.Errorf("row %d: %w", n, tasks.ErrNotFound)
		}
		return list[n-1], nil
	}
	var match []model.Task
	for _, t := range m.Tasks {
		if strings.HasPrefix(strings.ToLower(t.ID), target) {
			match = append(match, t)
		}
	}
	if len(match) != 1 {
		return model.Task{}, fmt.Errorf("id %s: %w", target, tasks.ErrNotFound)
	}
	return match[0], nil
}
