package daily

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/dayroll/internal/clock"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/state"
)

type Options struct {
	ReminderHour int
	Logger       *log.Logger
}

// Service applies the day functions to persisted state. Each method is one
// read-modify-write under a mutex.
type Service struct {
	mu           sync.Mutex
	repo         *state.Repo
	clock        clock.Clock
	logger       *log.Logger
	reminderHour int
}

type RolloverResult struct {
	Day     model.Day
	Changed bool
	Moved   int
}

func NewService(repo *state.Repo, clk clock.Clock, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hour := opts.ReminderHour
	if hour < 0 || hour > 23 {
		hour = DefaultReminderHour
	}
	return &Service{
		repo:         repo,
		clock:        clk,
		logger:       logger.WithPrefix("daily"),
		reminderHour: hour,
	}
}

// RunRollover is safe to call any number of times a day; only the first
// call on a new calendar day changes anything.
func (s *Service) RunRollover(ctx context.Context) (RolloverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.clock.Today()
	tasks, err := s.repo.Tasks(ctx)
	if err != nil {
		return RolloverResult{Day: today}, err
	}
	rs, err := s.repo.RolloverState(ctx)
	if err != nil {
		return RolloverResult{Day: today}, err
	}

	next, day, changed := Rollover(tasks, rs.LastOpenDay, today)
	if !changed {
		return RolloverResult{Day: today}, nil
	}
	if err := s.repo.CommitRollover(ctx, next, model.RolloverState{LastOpenDay: day}); err != nil {
		return RolloverResult{Day: today}, err
	}
	moved := 0
	for i := range next {
		if next[i].Category != tasks[i].Category {
			moved++
		}
	}
	s.logger.Info("rolled over", "from", rs.LastOpenDay, "to", day, "moved", moved)
	return RolloverResult{Day: day, Changed: true, Moved: moved}, nil
}

func (s *Service) WrapDay(ctx context.Context) (WrapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.clock.Today()
	tasks, err := s.repo.Tasks(ctx)
	if err != nil {
		return WrapResult{}, err
	}
	ws, err := s.repo.WrapState(ctx)
	if err != nil {
		return WrapResult{}, err
	}
	result, next := WrapDay(tasks, ws, today)
	if next != ws {
		if err := s.repo.SaveWrapState(ctx, next); err != nil {
			return WrapResult{}, err
		}
		s.logger.Info("wrapped day", "day", today, "streak", next.Streak, "efficiency", result.EfficiencyPercent)
	}
	return result, nil
}

// EvaluateReminder reports whether the soft reminder should show now and,
// when it does, records today so later evaluations stay silent.
func (s *Service) EvaluateReminder(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.clock.Today()
	rs, err := s.repo.ReminderState(ctx)
	if err != nil {
		return false, err
	}
	if rs.LastReminderDay == today || s.clock.HourOfDay() < s.reminderHour {
		return false, nil
	}
	tasks, err := s.repo.Tasks(ctx)
	if err != nil {
		return false, err
	}
	if !ShouldRemindAt(s.reminderHour, s.clock.HourOfDay(), rs.LastReminderDay, today, AnyCompletedToday(tasks)) {
		return false, nil
	}
	if err := s.repo.SaveReminderState(ctx, model.ReminderState{LastReminderDay: today}); err != nil {
		return false, err
	}
	s.logger.Info("soft reminder fired", "day", today)
	return true, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	tasks, err := s.repo.Tasks(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(tasks), nil
}

func (s *Service) Streak(ctx context.Context) (int, error) {
	ws, err := s.repo.WrapState(ctx)
	if err != nil {
		return 0, err
	}
	return ws.Streak, nil
}
