package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
	"github.com/sandeepkv93/dayroll/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.startup != nil {
		out := *m.startup
		cmds = append(cmds, func() tea.Msg { return StartupMsg{Outcome: out} })
	}
	if m.loop != nil {
		cmds = append(cmds, waitForEventCmd(m.loop.Events()))
	}
	return tea.Batch(cmds...)
}

// waitForEventCmd turns the next scheduler event into a message. Update
// re-issues it after each event so exactly one receive is outstanding.
func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DayEventMsg{Event: ev}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.FocusMsg:
		return m, m.rollover()
	case StartupMsg:
		m.startup = nil
		return m, m.applyOutcome(typed.Outcome)
	case DayEventMsg:
		var cmds []tea.Cmd
		if m.loop != nil {
			out := m.loop.Handle(m.ctx, typed.Event)
			cmds = append(cmds, m.applyOutcome(out), waitForEventCmd(m.loop.Events()))
		}
		return m, tea.Batch(cmds...)
	case ExpireNotificationMsg:
		m.expire(typed.ID)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	switch m.Mode {
	case ModeAdd:
		return m.handleAddKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeWrap:
		if key.Matches(msg, m.Keys.Confirm, m.Keys.Cancel, m.Keys.Quit) {
			m.Mode = ModeBrowse
			m.Wrap = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.visible())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.toggleTask(t.ID)
		}
	case key.Matches(msg, m.Keys.Delete):
		if t, ok := m.selected(); ok {
			m.askDelete(t)
		}
	case key.Matches(msg, m.Keys.Add):
		return m, m.startAdd(model.CategoryToday)
	case key.Matches(msg, m.Keys.AddTomorrow):
		return m, m.startAdd(model.CategoryTomorrow)
	case key.Matches(msg, m.Keys.Wrap):
		m.wrapDay()
	case key.Matches(msg, m.Keys.NextFilter):
		m.cycleFilter(1)
	case key.Matches(msg, m.Keys.PrevFilter):
		m.cycleFilter(-1)
	case key.Matches(msg, m.Keys.Palette):
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		return m, m.commandInput.Focus()
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		m.helpModel.ShowAll = m.HelpVisible
	}
	return m, nil
}

func (m *Model) startAdd(category model.Category) tea.Cmd {
	m.Mode = ModeAdd
	m.AddCategory = category
	m.addInput.SetValue("")
	return m.addInput.Focus()
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Mode = ModeBrowse
		m.addInput.Blur()
		m.addInput.SetValue("")
		return m, nil
	case tea.KeyTab:
		if m.AddCategory == model.CategoryToday {
			m.AddCategory = model.CategoryTomorrow
		} else {
			m.AddCategory = model.CategoryToday
		}
		return m, nil
	case tea.KeyEnter:
		title := m.addInput.Value()
		cmd := m.addTask(title, m.AddCategory)
		if strings.TrimSpace(title) != "" {
			m.Mode = ModeBrowse
			m.addInput.Blur()
			m.addInput.SetValue("")
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.PendingDelete
	m.Mode = ModeBrowse
	m.PendingDelete = nil
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		if pending != nil {
			return m, m.deleteTask(pending.ID)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	today := m.Today.String()
	if today == "" {
		today = "today"
	}

	filters := make([]string, 0, len(Filters))
	for _, f := range Filters {
		filters = append(filters, string(f))
	}

	data := views.AppData{
		Header: "dayroll",
		Tabs:   views.RenderTabs(views.TabsData{Filters: filters, Active: string(m.Filter)}),
		Body:   m.renderList(),
		Stats: views.RenderStats(views.StatsData{
			Today:        today,
			Total:        m.Stats.Total,
			Done:         m.Stats.Done,
			FocusPercent: m.Stats.FocusPercent,
			Streak:       m.Streak,
		}),
		Reminder:      m.Reminder,
		StatusLine:    m.Status.Text,
		StatusIsError: m.Status.IsError,
		Notifications: m.renderNotifications(),
		Footer:        m.helpModel.View(m.Keys),
		Width:         m.width,
	}
	if m.Mode == ModeWrap && m.Wrap != nil {
		data.Modal = m.renderWrapModal()
	}
	if m.Mode == ModePalette {
		data.StatusLine = views.RenderPalette(views.PaletteData{InputView: m.commandInput.View()})
		data.StatusIsError = false
	}
	if m.HelpVisible {
		data.Help = m.renderHelpView()
		data.Footer = ""
	}
	return views.RenderApp(data)
}

func (m Model) renderList() string {
	list := m.visible()
	rows := make([]views.TaskRowData, 0, len(list))
	for i, t := range list {
		rows = append(rows, views.TaskRowData{
			Title:     t.Title,
			Category:  string(t.Category),
			Completed: t.Completed,
			Selected:  i == m.Cursor && m.Mode != ModeAdd,
		})
	}
	data := views.TaskListData{
		Rows:      rows,
		EmptyText: m.Filter.EmptyText(),
	}
	if m.Mode == ModeAdd {
		data.Adding = true
		data.AddCategory = string(m.AddCategory)
		data.InputView = m.addInput.View()
	}
	if m.Mode == ModeConfirm && m.PendingDelete != nil {
		data.ConfirmText = fmt.Sprintf("Are you sure you want to delete %q?", m.PendingDelete.Title)
	}
	return views.RenderTaskList(data)
}

func (m Model) renderWrapModal() string {
	data := views.WrapModalData{
		Streak:            m.Wrap.Streak,
		EfficiencyPercent: m.Wrap.EfficiencyPercent,
		Done:              m.Wrap.Done,
		Total:             m.Wrap.Total,
		ProgressView:      m.wrapProgress.ViewAs(float64(m.Wrap.EfficiencyPercent) / 100),
	}
	data.SummaryView = views.RenderMarkdown(views.WrapSummaryMarkdown(data), 56)
	return views.RenderWrapModal(data)
}

func (m Model) renderNotifications() string {
	items := make([]views.NotificationData, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		items = append(items, views.NotificationData{Text: n.Body, Level: n.Level})
	}
	return views.RenderNotifications(items)
}
