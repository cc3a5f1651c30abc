package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/dayroll/internal/commands"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePalette()
		return m, nil
	case tea.KeyEnter:
		raw := m.commandInput.Value()
		m.closePalette()
		return m.executePaletteCommand(raw)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) closePalette() {
	m.Mode = ModeBrowse
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var out tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			out = m.addTask(a.Title, a.Category)
			return commands.Result{Message: fmt.Sprintf("added to %s", a.Category)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			out = m.toggleTask(t.ID)
			return commands.Result{Message: "toggled " + t.Title}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			m.askDelete(t)
			return commands.Result{Message: "confirm delete"}, nil
		},
		Wrap: func() (commands.Result, error) {
			m.wrapDay()
			return commands.Result{Message: fmt.Sprintf("streak %d", m.Streak)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.setFilter(a.Filter)
			return commands.Result{Message: "showing " + string(a.Filter)}, nil
		},
		Rollover: func() (commands.Result, error) {
			out = m.rollover()
			return commands.Result{Message: "rollover checked for " + m.Today.String()}, nil
		},
	})
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		m.Status = StatusBar{Text: err.Error()}
	case err != nil:
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	default:
		m.Status = StatusBar{Text: res.Message}
	}
	return m, out
}
