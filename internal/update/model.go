package update

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

type Mode string

const (
	ModeBrowse  Mode = "browse"
	ModeAdd     Mode = "add"
	ModePalette Mode = "palette"
	ModeConfirm Mode = "confirm"
	ModeWrap    Mode = "wrap"
)

// Filters lists the tabs in display order.
var Filters = []tasks.Filter{tasks.FilterAll, tasks.FilterToday, tasks.FilterTomorrow, tasks.FilterCompleted}

const maxNotifications = 5

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	ID    int
	Title string
	Body  string
	Level string
	At    time.Time
}

type Deps struct {
	Tasks    *tasks.Store
	Service  *daily.Service
	Loop     *daily.Loop
	Notifier DesktopNotifier
	Logger   *log.Logger
}

type Model struct {
	Tasks          []model.Task
	Filter         tasks.Filter
	Cursor         int
	Mode           Mode
	AddCategory    model.Category
	PendingDelete  *model.Task
	Wrap           *daily.WrapResult
	Stats          daily.Stats
	Streak         int
	Today          model.Day
	Reminder       string
	HelpVisible    bool
	Notifications  []Notification
	Status         StatusBar
	Keys           KeyMap
	Quitting       bool
	LastError      error
	DesktopEnabled bool

	ctx          context.Context
	store        *tasks.Store
	service      *daily.Service
	loop         *daily.Loop
	notifier     DesktopNotifier
	logger       *log.Logger
	ttl          time.Duration
	startup      *daily.Outcome
	nextNoteID   int
	width        int
	addInput     textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	wrapProgress progress.Model
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// DayEventMsg carries a fired scheduler event into Update.
type DayEventMsg struct {
	Event scheduler.Event
}

type StartupMsg struct {
	Outcome daily.Outcome
}

type ExpireNotificationMsg struct {
	ID int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(deps Deps) Model {
	return NewModelWithConfig(deps, DefaultRuntimeConfig())
}

func NewModelWithConfig(deps Deps, cfg RuntimeConfig) Model {
	filter := cfg.DefaultFilter
	if !filter.IsValid() {
		filter = tasks.FilterAll
	}
	ttl := cfg.NotificationTTL
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		Filter:         filter,
		Mode:           ModeBrowse,
		AddCategory:    model.CategoryToday,
		Keys:           NewKeyMap(cfg.Keys),
		DesktopEnabled: cfg.DesktopNotifications,
		ctx:            context.Background(),
		store:          deps.Tasks,
		service:        deps.Service,
		loop:           deps.Loop,
		notifier:       NoopDesktopNotifier{},
		logger:         logger.WithPrefix("ui"),
		ttl:            ttl,
		startup:        cfg.Startup,
	}
	if deps.Notifier != nil {
		m.notifier = deps.Notifier
	}
	m.initBubbleComponents()
	m.reload()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Placeholder = "What needs doing?"
	m.addInput.CharLimit = 200
	m.addInput.Prompt = "+ "

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "/add @tomorrow water plants"
	m.commandInput.Prompt = ": "

	m.helpModel = help.New()
	m.wrapProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
}

// reload pulls the task list, stats and streak back from storage.
func (m *Model) reload() {
	if m.store == nil {
		return
	}
	list, err := m.store.List(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.Tasks = list
	m.Stats = daily.ComputeStats(list)
	if m.service != nil {
		if streak, err := m.service.Streak(m.ctx); err == nil {
			m.Streak = streak
		}
	}
	m.clampCursor()
}

func (m Model) visible() []model.Task {
	return m.Filter.Apply(m.Tasks)
}

func (m Model) selected() (model.Task, bool) {
	list := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(list) {
		return model.Task{}, false
	}
	return list[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error("ui action failed", "err", err)
}
