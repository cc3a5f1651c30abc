package update

import (
	"fmt"

	"github.com/sandeepkv93/dayroll/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(m.Keys),
	})
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeAdd:
		return []KeyBinding{
			{Key: "enter", Action: "save task"},
			{Key: "tab", Action: "switch today/tomorrow"},
			{Key: "esc", Action: "cancel"},
		}
	case ModeConfirm:
		return []KeyBinding{{Key: "y/n", Action: "confirm or keep the task"}}
	case ModePalette:
		return []KeyBinding{
			{Key: "enter", Action: "run command"},
			{Key: "esc", Action: "close palette"},
		}
	default:
		return []KeyBinding{
			{Key: "tab", Action: "cycle all / today / tomorrow / completed"},
			{Key: "w", Action: "wrap up the day and bump the streak"},
		}
	}
}
