package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/dayroll/internal/config"
)

type KeyMap struct {
	Quit        key.Binding
	Add         key.Binding
	AddTomorrow key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Wrap        key.Binding
	NextFilter  key.Binding
	PrevFilter  key.Binding
	Palette     key.Binding
	Help        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

func NewKeyMap(k config.Keymap) KeyMap {
	return KeyMap{
		Quit:        binding("quit", k.Quit, "ctrl+c"),
		Add:         binding("add today", k.Add),
		AddTomorrow: binding("add tomorrow", k.AddTomorrow),
		Up:          binding("up", k.Up, "up"),
		Down:        binding("down", k.Down, "down"),
		Toggle:      binding("toggle done", k.Toggle),
		Delete:      binding("delete", k.Delete),
		Wrap:        binding("wrap day", k.Wrap),
		NextFilter:  binding("next filter", k.NextFilter, "right"),
		PrevFilter:  binding("prev filter", k.PrevFilter, "left"),
		Palette:     binding("commands", k.Palette, "/"),
		Help:        binding("help", k.Help),
		Confirm:     binding("confirm", k.Confirm),
		Cancel:      binding("cancel", k.Cancel),
	}
}

// binding registers primary plus any fixed extras; the help label shows
// only the configurable primary key.
func binding(action, primary string, extra ...string) key.Binding {
	keys := make([]string, 0, 1+len(extra))
	if primary != "" {
		keys = append(keys, primary)
	}
	keys = append(keys, extra...)
	label := primary
	switch label {
	case " ":
		label = "space"
	case "":
		if len(extra) > 0 {
			label = extra[0]
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, action))
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Wrap, k.NextFilter, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.Add, k.AddTomorrow, k.Wrap, k.Palette},
		{k.NextFilter, k.PrevFilter, k.Help, k.Quit},
	}
}
