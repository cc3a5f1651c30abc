package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// notify queues an on-screen notification and returns the command that
// expires it after the configured TTL.
func (m *Model) notify(title, body, level string) tea.Cmd {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	m.nextNoteID++
	n := Notification{
		ID:    m.nextNoteID,
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	id := n.ID
	return tea.Tick(m.ttl, func(time.Time) tea.Msg { return ExpireNotificationMsg{ID: id} })
}

// notifyDesktop also forwards to the desktop notifier when enabled.
func (m *Model) notifyDesktop(title, body, level string) tea.Cmd {
	cmd := m.notify(title, body, level)
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(Notification{Title: title, Body: body, Level: level, At: time.Now()}); err != nil {
			m.logger.Warn("desktop notification failed", "err", err)
		}
	}
	return cmd
}

func (m *Model) expire(id int) {
	out := make([]Notification, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		if n.ID != id {
			out = append(out, n)
		}
	}
	m.Notifications = out
}
