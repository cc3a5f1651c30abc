package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header        string
	Tabs          string
	Body          string
	Stats         string
	Reminder      string
	Modal         string
	StatusLine    string
	StatusIsError bool
	Notifications string
	Help          string
	Footer        string
	Width         int
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("13")).Padding(1, 3)
	reminderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const defaultWidth = 72

func RenderApp(data AppData) string {
	width := data.Width - 4
	if width <= 0 || width > defaultWidth {
		width = defaultWidth
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Tabs != "" {
		lines = append(lines, data.Tabs)
	}
	if data.Modal != "" {
		lines = append(lines, modalStyle.Width(width).Render(data.Modal))
	} else {
		lines = append(lines, panelStyle.Width(width).Render(data.Body))
	}
	if data.Stats != "" {
		lines = append(lines, data.Stats)
	}
	if data.Reminder != "" {
		lines = append(lines, reminderStyle.Render(data.Reminder))
	}
	if data.Notifications != "" {
		lines = append(lines, data.Notifications)
	}
	if data.StatusLine != "" {
		if data.StatusIsError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Help != "" {
		lines = append(lines, panelStyle.Width(width).Render(data.Help))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
