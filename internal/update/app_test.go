package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/dayroll/internal/clock"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
	"github.com/sandeepkv93/dayroll/internal/state"
	"github.com/sandeepkv93/dayroll/internal/storage"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

type harness struct {
	repo   *state.Repo
	store  *tasks.Store
	clock  *clock.Manual
	engine *scheduler.Engine
	loop   *daily.Loop
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	kv := storage.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	repo := state.NewRepo(kv, nil)
	clk := clock.NewManual(now)
	engine := scheduler.NewEngine(4)
	t.Cleanup(engine.Stop)
	svc := daily.NewService(repo, clk, daily.Options{})
	return &harness{
		repo:   repo,
		store:  tasks.NewStore(repo),
		clock:  clk,
		engine: engine,
		loop:   daily.NewLoop(svc, engine, clk, daily.LoopOptions{}),
	}
}

func (h *harness) model(cfg RuntimeConfig, notifier DesktopNotifier) Model {
	svc := daily.NewService(h.repo, h.clock, daily.Options{})
	return NewModelWithConfig(Deps{Tasks: h.store, Service: svc, Loop: h.loop, Notifier: notifier}, cfg)
}

func localTime(day string, hour int) time.Time {
	d, _ := time.ParseInLocation(model.DayLayout, day, time.Local)
	return d.Add(time.Duration(hour) * time.Hour)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func lastNotification(t *testing.T, m Model) string {
	t.Helper()
	if len(m.Notifications) == 0 {
		t.Fatal("expected a notification")
	}
	return m.Notifications[len(m.Notifications)-1].Body
}

func TestNewModelDefaults(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	if m.Filter != tasks.FilterAll || m.Mode != ModeBrowse {
		t.Fatalf("unexpected defaults: filter=%s mode=%s", m.Filter, m.Mode)
	}
	if m.AddCategory != model.CategoryToday {
		t.Fatalf("expected today as default bucket, got %s", m.AddCategory)
	}
	if !strings.Contains(m.View(), "No tasks here 🎉") {
		t.Fatalf("expected empty state text in view:\n%s", m.View())
	}
}

func TestAddTaskWithKeyboard(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, runes("a"))
	if m.Mode != ModeAdd {
		t.Fatalf("expected add mode, got %s", m.Mode)
	}
	m, cmd := press(t, m, runes("buy milk"), tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected notification expiry cmd")
	}
	if m.Mode != ModeBrowse || len(m.Tasks) != 1 {
		t.Fatalf("expected one task back in browse mode, got mode=%s tasks=%#v", m.Mode, m.Tasks)
	}
	if m.Tasks[0].Title != "buy milk" || m.Tasks[0].Category != model.CategoryToday {
		t.Fatalf("unexpected task: %+v", m.Tasks[0])
	}
	if got := lastNotification(t, m); got != `Task "buy milk" added!` {
		t.Fatalf("unexpected notification: %q", got)
	}
	if m.Stats.Total != 1 {
		t.Fatalf("stats not refreshed: %+v", m.Stats)
	}
}

func TestAddEmptyTitleWarns(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	m, _ = press(t, m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if got := lastNotification(t, m); got != "Please enter a task!" {
		t.Fatalf("unexpected notification: %q", got)
	}
	if m.Mode != ModeAdd || len(m.Tasks) != 0 {
		t.Fatalf("expected to stay in add mode with no tasks, mode=%s tasks=%d", m.Mode, len(m.Tasks))
	}
}

func TestAddForTomorrowWithTab(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	m, _ = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyTab}, runes("plan trip"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Tasks) != 1 || m.Tasks[0].Category != model.CategoryTomorrow {
		t.Fatalf("expected one tomorrow task, got %#v", m.Tasks)
	}

	m, _ = press(t, m, runes("A"), runes("later"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Tasks) != 2 || m.Tasks[1].Category != model.CategoryTomorrow {
		t.Fatalf("expected second tomorrow task, got %#v", m.Tasks)
	}
}

func TestToggleSelectedTask(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	if _, err := h.store.Add(context.Background(), "write report", model.CategoryToday); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Tasks[0].Completed {
		t.Fatal("expected task to be completed")
	}
	if got := lastNotification(t, m); got != `Task "write report" marked as completed` {
		t.Fatalf("unexpected notification: %q", got)
	}
	if m.Stats.FocusPercent != 100 {
		t.Fatalf("unexpected stats: %+v", m.Stats)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Tasks[0].Completed {
		t.Fatal("expected task to be incomplete again")
	}
	if got := lastNotification(t, m); !strings.HasSuffix(got, "marked as incomplete") {
		t.Fatalf("unexpected notification: %q", got)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	if _, err := h.store.Add(context.Background(), "old chore", model.CategoryToday); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, runes("d"))
	if m.Mode != ModeConfirm || m.PendingDelete == nil {
		t.Fatalf("expected confirmation prompt, mode=%s", m.Mode)
	}
	if !strings.Contains(m.View(), `Are you sure you want to delete "old chore"?`) {
		t.Fatalf("expected confirm text in view:\n%s", m.View())
	}
	m, _ = press(t, m, runes("n"))
	if len(m.Tasks) != 1 || m.Mode != ModeBrowse {
		t.Fatalf("declined delete must keep the task, got %d tasks", len(m.Tasks))
	}

	m, _ = press(t, m, runes("d"), runes("y"))
	if len(m.Tasks) != 0 {
		t.Fatalf("expected task deleted, got %#v", m.Tasks)
	}
	if got := lastNotification(t, m); got != `Task "old chore" deleted!` {
		t.Fatalf("unexpected notification: %q", got)
	}
}

func TestFilterTabsAndCursor(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	ctx := context.Background()
	h.store.Add(ctx, "one", model.CategoryToday)
	h.store.Add(ctx, "two", model.CategoryTomorrow)
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, runes("j"))
	if m.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Filter != tasks.FilterToday || m.Cursor != 0 {
		t.Fatalf("expected today filter with reset cursor, got %s/%d", m.Filter, m.Cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.Filter != tasks.FilterCompleted {
		t.Fatalf("expected completed filter, got %s", m.Filter)
	}
	if !strings.Contains(m.View(), "No completed tasks yet ✅") {
		t.Fatalf("expected completed empty text:\n%s", m.View())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Filter != tasks.FilterTomorrow {
		t.Fatalf("expected tomorrow filter, got %s", m.Filter)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.Filter != tasks.FilterAll {
		t.Fatalf("expected wrap-around to all, got %s", m.Filter)
	}
}

func TestWrapModalShowsStreakAndEfficiency(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 18))
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := h.store.Add(ctx, title, model.CategoryToday); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	list, _ := h.store.List(ctx)
	h.store.Toggle(ctx, list[0].ID)
	h.store.Toggle(ctx, list[1].ID)
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, runes("w"))
	if m.Mode != ModeWrap || m.Wrap == nil {
		t.Fatalf("expected wrap modal, mode=%s", m.Mode)
	}
	if m.Wrap.Streak != 1 || m.Wrap.EfficiencyPercent != 67 {
		t.Fatalf("unexpected wrap result: %+v", m.Wrap)
	}
	view := m.View()
	if !strings.Contains(view, "1 days") || !strings.Contains(view, "67%") {
		t.Fatalf("expected streak and efficiency in modal:\n%s", view)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("w"))
	if m.Wrap.Streak != 1 {
		t.Fatalf("second wrap the same day must keep streak 1, got %d", m.Wrap.Streak)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Mode != ModeBrowse || m.Wrap != nil {
		t.Fatalf("expected modal closed, mode=%s", m.Mode)
	}
}

func TestPaletteCommands(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)

	m, _ = press(t, m, runes(":"))
	if m.Mode != ModePalette {
		t.Fatalf("expected palette mode, got %s", m.Mode)
	}
	m, _ = press(t, m, runes("/add @tomorrow call mom"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Tasks) != 1 || m.Tasks[0].Category != model.CategoryTomorrow {
		t.Fatalf("expected tomorrow task from palette, got %#v", m.Tasks)
	}

	m, _ = press(t, m, runes(":"), runes("done 1"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Tasks[0].Completed {
		t.Fatal("expected /done 1 to complete the first row")
	}

	m, _ = press(t, m, runes(":"), runes("filter completed"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filter != tasks.FilterCompleted {
		t.Fatalf("expected completed filter, got %s", m.Filter)
	}

	m, _ = press(t, m, runes(":"), runes("done 9"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status.IsError || !strings.Contains(m.Status.Text, "not found") {
		t.Fatalf("unknown row must be informational, got %+v", m.Status)
	}

	m, _ = press(t, m, runes(":"), runes("bogus"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || m.Mode != ModeBrowse {
		t.Fatalf("expected parse error status, got %+v mode=%s", m.Status, m.Mode)
	}

	m, _ = press(t, m, runes(":"), runes("rm 1"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Mode != ModeConfirm {
		t.Fatalf("expected /rm to ask for confirmation, got %s", m.Mode)
	}
}

func TestMidnightEventRollsOverAndNotifies(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 18))
	ctx := context.Background()
	if err := h.repo.CommitRollover(ctx, []model.Task{
		{ID: "A", Title: "unfinished", Category: model.CategoryToday},
		{ID: "B", Title: "queued", Category: model.CategoryTomorrow},
	}, model.RolloverState{LastOpenDay: "2026-02-10"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	notifier := &recordingNotifier{}
	cfg := DefaultRuntimeConfig()
	cfg.DesktopNotifications = true
	start := h.loop.Start(ctx)
	cfg.Startup = &start
	m := h.model(cfg, notifier)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init cmds")
	}
	m, _ = press(t, m, StartupMsg{Outcome: start})
	if m.Today != "2026-02-10" {
		t.Fatalf("unexpected today: %s", m.Today)
	}

	h.clock.Set(localTime("2026-02-11", 0))
	m, cmd := press(t, m, DayEventMsg{Event: scheduler.Event{ID: daily.MidnightEventID, Kind: scheduler.KindMidnight, TriggerAt: time.Now()}})
	if cmd == nil {
		t.Fatal("expected follow-up cmds after a day event")
	}
	cats := map[string]model.Category{}
	for _, tk := range m.Tasks {
		cats[tk.ID] = tk.Category
	}
	if cats["A"] != model.CategoryTomorrow || cats["B"] != model.CategoryToday {
		t.Fatalf("expected rolled-over tasks, got %v", cats)
	}
	if m.Today != "2026-02-11" || lastNotification(t, m) != newDayText {
		t.Fatalf("expected new day notification, today=%s notes=%#v", m.Today, m.Notifications)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one desktop notification, got %d", len(notifier.sent))
	}
}

func TestFocusMsgRunsRollover(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	ctx := context.Background()
	h.repo.CommitRollover(ctx, []model.Task{{ID: "B", Title: "queued", Category: model.CategoryTomorrow}}, model.RolloverState{LastOpenDay: "2026-02-10"})
	m := h.model(DefaultRuntimeConfig(), nil)

	h.clock.Set(localTime("2026-02-12", 8))
	m, _ = press(t, m, tea.FocusMsg{})
	if m.Tasks[0].Category != model.CategoryToday {
		t.Fatalf("expected rollover on focus, got %+v", m.Tasks[0])
	}
	notes := len(m.Notifications)
	m, _ = press(t, m, tea.FocusMsg{})
	if len(m.Notifications) != notes {
		t.Fatal("second focus the same day must be quiet")
	}
}

func TestReminderBannerClearsOnCompletion(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 20))
	if _, err := h.store.Add(context.Background(), "stretch", model.CategoryToday); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := h.model(DefaultRuntimeConfig(), nil)
	m, _ = press(t, m, StartupMsg{Outcome: daily.Outcome{Remind: true}})
	if m.Reminder != daily.ReminderText || !strings.Contains(m.View(), "Stay on track") {
		t.Fatalf("expected reminder banner, got %q", m.Reminder)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Reminder != "" {
		t.Fatal("completing a task must clear the reminder banner")
	}
}

func TestNotificationsExpire(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	m, _ = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(m.Notifications))
	}
	m, _ = press(t, m, ExpireNotificationMsg{ID: m.Notifications[0].ID})
	if len(m.Notifications) != 0 {
		t.Fatalf("expected notification expired, got %#v", m.Notifications)
	}
}

func TestQuitKey(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	m, cmd := press(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t, localTime("2026-02-10", 9))
	m := h.model(DefaultRuntimeConfig(), nil)
	m, _ = press(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help:") {
		t.Fatalf("expected help panel:\n%s", m.View())
	}
	m, _ = press(t, m, runes("?"))
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}
