package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	statsStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	notificationStyles = map[string]lipgloss.Style{
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

type TabsData struct {
	Filters []string
	Active  string
}

type TaskRowData struct {
	Title     string
	Category  string
	Completed bool
	Selected  bool
}

type TaskListData struct {
	Rows        []TaskRowData
	EmptyText   string
	Adding      bool
	AddCategory string
	InputView   string
	ConfirmText string
}

type StatsData struct {
	Total        int
	Done         int
	FocusPercent int
	Streak       int
	Today        string
}

type WrapModalData struct {
	Streak            int
	EfficiencyPercent int
	Done              int
	Total             int
	ProgressView      string
	SummaryView       string
}

type NotificationData struct {
	Text  string
	Level string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type PaletteData struct {
	InputView string
}

func RenderTabs(data TabsData) string {
	parts := make([]string, 0, len(data.Filters))
	for _, f := range data.Filters {
		label := strings.ToUpper(f[:1]) + f[1:]
		if f == data.Active {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	if data.Adding {
		fmt.Fprintf(&b, "new task for %s ([tab] switch bucket):\n", data.AddCategory)
		b.WriteString(data.InputView + "\n\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString(emptyStyle.Render(data.EmptyText))
	}
	for i, row := range data.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderTaskRow(row))
	}
	if data.ConfirmText != "" {
		b.WriteString("\n\n" + data.ConfirmText + " [y/n]")
	}
	return b.String()
}

func renderTaskRow(row TaskRowData) string {
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	title := row.Title
	if row.Completed {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", check, title, badgeStyle.Render("("+row.Category+")"))
	if row.Selected {
		return cursorStyle.Render(">") + " " + line
	}
	return "  " + line
}

func RenderStats(data StatsData) string {
	return statsStyle.Render(fmt.Sprintf(
		"%s  |  total %d  |  done %d  |  focus %d%%  |  streak %d",
		data.Today, data.Total, data.Done, data.FocusPercent, data.Streak,
	))
}

// WrapSummaryMarkdown is the markdown block shown inside the wrap-up modal.
func WrapSummaryMarkdown(data WrapModalData) string {
	var b strings.Builder
	b.WriteString("## Day wrapped\n\n")
	fmt.Fprintf(&b, "- **Streak:** %d days\n", data.Streak)
	fmt.Fprintf(&b, "- **Efficiency:** %d%%\n", data.EfficiencyPercent)
	fmt.Fprintf(&b, "- **Completed today:** %d of %d\n", data.Done, data.Total)
	return b.String()
}

func RenderWrapModal(data WrapModalData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Wrap up the day") + "\n\n")
	fmt.Fprintf(&b, "Streak:     %d days\n", data.Streak)
	fmt.Fprintf(&b, "Efficiency: %d%%\n", data.EfficiencyPercent)
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView + "\n")
	}
	if data.SummaryView != "" {
		b.WriteString("\n" + data.SummaryView + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("[enter/esc] close"))
	return b.String()
}

func RenderNotifications(items []NotificationData) string {
	lines := make([]string, 0, len(items))
	for _, n := range items {
		style, ok := notificationStyles[n.Level]
		if !ok {
			style = notificationStyles["info"]
		}
		lines = append(lines, style.Render("• "+n.Text))
	}
	return strings.Join(lines, "\n")
}

func RenderPalette(data PaletteData) string {
	return "command: " + data.InputView
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	b.WriteString("palette: /add [@tomorrow] <title>, /done [n], /rm [n], /wrap, /filter <name>, /rollover\n")
	if data.HelpView != "" {
		b.WriteString(data.HelpView)
	}
	return strings.TrimSpace(b.String())
}
