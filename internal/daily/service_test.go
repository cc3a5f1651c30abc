package daily

import (
	"context"
	"testing"
	"time"

	"github.com/sandeepkv93/dayroll/internal/clock"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/state"
	"github.com/sandeepkv93/dayroll/internal/storage"
)

func at(day string, hour int) time.Time {
	d, err := time.ParseInLocation(model.DayLayout, day, time.Local)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func newService(t *testing.T, now time.Time) (*Service, *state.Repo, *clock.Manual) {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	repo := state.NewRepo(store, nil)
	clk := clock.NewManual(now)
	return NewService(repo, clk, Options{}), repo, clk
}

func seed(t *testing.T, repo *state.Repo, tasks []model.Task, lastOpen model.Day) {
	t.Helper()
	if err := repo.CommitRollover(context.Background(), tasks, model.RolloverState{LastOpenDay: lastOpen}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func categories(t *testing.T, repo *state.Repo) map[string]model.Category {
	t.Helper()
	list, err := repo.Tasks(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	out := make(map[string]model.Category, len(list))
	for _, tk := range list {
		out[tk.ID] = tk.Category
	}
	return out
}

func TestServiceRolloverEndToEnd(t *testing.T) {
	ctx := t.Context()
	svc, repo, _ := newService(t, at("2026-02-10", 8))
	seed(t, repo, []model.Task{
		task("A", model.CategoryToday, false),
		task("B", model.CategoryToday, true),
		task("C", model.CategoryTomorrow, false),
	}, "2026-02-09")

	res, err := svc.RunRollover(ctx)
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if !res.Changed || res.Day != "2026-02-10" || res.Moved != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	got := categories(t, repo)
	if got["A"] != model.CategoryTomorrow || got["B"] != model.CategoryToday || got["C"] != model.CategoryToday {
		t.Fatalf("unexpected categories: %v", got)
	}
	rs, err := repo.RolloverState(ctx)
	if err != nil {
		t.Fatalf("rollover state: %v", err)
	}
	if rs.LastOpenDay != "2026-02-10" {
		t.Fatalf("unexpected last open day: %s", rs.LastOpenDay)
	}

	again, err := svc.RunRollover(ctx)
	if err != nil {
		t.Fatalf("second rollover: %v", err)
	}
	if again.Changed {
		t.Fatalf("second rollover the same day must be a no-op: %+v", again)
	}
	if got2 := categories(t, repo); got2["A"] != model.CategoryTomorrow || got2["C"] != model.CategoryToday {
		t.Fatalf("second rollover changed categories: %v", got2)
	}
}

func TestServiceFirstLaunchRollsOver(t *testing.T) {
	svc, repo, _ := newService(t, at("2026-02-10", 8))
	res, err := svc.RunRollover(t.Context())
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if !res.Changed {
		t.Fatal("unset last open day must count as a new day")
	}
	rs, _ := repo.RolloverState(t.Context())
	if rs.LastOpenDay != "2026-02-10" {
		t.Fatalf("unexpected last open day: %s", rs.LastOpenDay)
	}
}

func TestServiceWrapDayPersistsStreak(t *testing.T) {
	ctx := t.Context()
	svc, repo, clk := newService(t, at("2026-02-10", 18))
	seed(t, repo, []model.Task{
		task("1", model.CategoryToday, true),
		task("2", model.CategoryToday, true),
		task("3", model.CategoryToday, false),
	}, "2026-02-10")

	first, err := svc.WrapDay(ctx)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if first.Streak != 1 || first.EfficiencyPercent != 67 {
		t.Fatalf("unexpected first wrap: %+v", first)
	}
	second, err := svc.WrapDay(ctx)
	if err != nil {
		t.Fatalf("wrap again: %v", err)
	}
	if second.Streak != 1 {
		t.Fatalf("repeat wrap must keep streak 1, got %d", second.Streak)
	}

	clk.Advance(24 * time.Hour)
	third, err := svc.WrapDay(ctx)
	if err != nil {
		t.Fatalf("wrap next day: %v", err)
	}
	if third.Streak != 2 {
		t.Fatalf("expected streak 2 next day, got %d", third.Streak)
	}
	streak, err := svc.Streak(ctx)
	if err != nil || streak != 2 {
		t.Fatalf("unexpected persisted streak %d err=%v", streak, err)
	}
}

func TestServiceReminderFiresOncePerDay(t *testing.T) {
	ctx := t.Context()
	svc, repo, clk := newService(t, at("2026-02-10", 20))
	seed(t, repo, []model.Task{task("1", model.CategoryToday, false)}, "2026-02-10")

	fired, err := svc.EvaluateReminder(ctx)
	if err != nil || !fired {
		t.Fatalf("expected reminder at 20:00, fired=%v err=%v", fired, err)
	}
	fired, err = svc.EvaluateReminder(ctx)
	if err != nil || fired {
		t.Fatalf("second evaluation must be silent, fired=%v err=%v", fired, err)
	}
	rs, _ := repo.ReminderState(ctx)
	if rs.LastReminderDay != "2026-02-10" {
		t.Fatalf("unexpected last reminder day: %s", rs.LastReminderDay)
	}

	clk.Set(at("2026-02-11", 10))
	if fired, _ := svc.EvaluateReminder(ctx); fired {
		t.Fatal("no reminder in the morning")
	}
	clk.Set(at("2026-02-11", 19))
	if fired, _ := svc.EvaluateReminder(ctx); !fired {
		t.Fatal("expected the next evening's reminder")
	}
}

func TestServiceReminderSilencedByCompletion(t *testing.T) {
	svc, repo, _ := newService(t, at("2026-02-10", 21))
	seed(t, repo, []model.Task{task("1", model.CategoryToday, true)}, "2026-02-10")
	fired, err := svc.EvaluateReminder(t.Context())
	if err != nil || fired {
		t.Fatalf("expected silence, fired=%v err=%v", fired, err)
	}
	rs, _ := repo.ReminderState(t.Context())
	if !rs.LastReminderDay.IsZero() {
		t.Fatalf("silent evaluation must not record a day: %s", rs.LastReminderDay)
	}
}

func TestServiceCustomReminderHour(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()
	clk := clock.NewManual(at("2026-02-10", 19))
	svc := NewService(state.NewRepo(store, nil), clk, Options{ReminderHour: 21})
	if fired, _ := svc.EvaluateReminder(context.Background()); fired {
		t.Fatal("expected no reminder before 21:00")
	}
	clk.Set(at("2026-02-10", 21))
	if fired, _ := svc.EvaluateReminder(context.Background()); !fired {
		t.Fatal("expected reminder at 21:00")
	}
}

func TestServiceSurfacesStoreErrors(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(state.NewRepo(store, nil), clock.NewManual(at("2026-02-10", 20)), Options{})
	_ = store.Close()
	if _, err := svc.RunRollover(t.Context()); err == nil {
		t.Fatal("expected rollover error on closed store")
	}
	if _, err := svc.WrapDay(t.Context()); err == nil {
		t.Fatal("expected wrap error on closed store")
	}
	if _, err := svc.EvaluateReminder(t.Context()); err == nil {
		t.Fatal("expected reminder error on closed store")
	}
}
