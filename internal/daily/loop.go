package daily

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/dayroll/internal/clock"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
)

const (
	MidnightEventID     = "daily:midnight"
	ReminderPollEventID = "daily:reminder-poll"

	DefaultReminderPoll = time.Hour
)

type LoopOptions struct {
	ReminderPoll time.Duration
	Logger       *log.Logger
}

// Outcome is what one scheduler turn produced, for the caller to render.
type Outcome struct {
	Kind     scheduler.Kind
	Rollover RolloverResult
	NewDay   bool
	Remind   bool
	Err      error
}

// Loop keeps exactly one midnight event and one reminder poll armed on the
// engine and re-arms each after it fires, whether or not the work it
// triggered succeeded.
type Loop struct {
	service *Service
	engine  *scheduler.Engine
	clock   clock.Clock
	poll    time.Duration
	logger  *log.Logger
	wall    func() time.Time

	mu        sync.Mutex
	announced model.Day
}

func NewLoop(service *Service, engine *scheduler.Engine, clk clock.Clock, opts LoopOptions) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	poll := opts.ReminderPoll
	if poll <= 0 {
		poll = DefaultReminderPoll
	}
	return &Loop{
		service: service,
		engine:  engine,
		clock:   clk,
		poll:    poll,
		logger:  logger.WithPrefix("loop"),
		wall:    time.Now,
	}
}

// Start runs the load-time rollover and reminder check synchronously, then
// starts the engine with both events armed.
func (l *Loop) Start(ctx context.Context) Outcome {
	out := Outcome{}
	res, err := l.service.RunRollover(ctx)
	out.Rollover = res
	if err != nil {
		l.logger.Error("startup rollover failed", "err", err)
		out.Err = err
	} else {
		l.setAnnounced(res.Day)
	}

	remind, err := l.service.EvaluateReminder(ctx)
	if err != nil {
		l.logger.Error("startup reminder check failed", "err", err)
		if out.Err == nil {
			out.Err = err
		}
	}
	out.Remind = remind

	l.engine.Start()
	l.armMidnight()
	l.armReminderPoll()
	return out
}

// Foreground reruns rollover when the user comes back to the app.
func (l *Loop) Foreground(ctx context.Context) (RolloverResult, error) {
	res, err := l.service.RunRollover(ctx)
	if err != nil {
		l.logger.Error("foreground rollover failed", "err", err)
		return res, err
	}
	return res, nil
}

func (l *Loop) Handle(ctx context.Context, ev scheduler.Event) Outcome {
	out := Outcome{Kind: ev.Kind}
	switch ev.Kind {
	case scheduler.KindMidnight:
		defer l.armMidnight()
		res, err := l.service.RunRollover(ctx)
		out.Rollover = res
		// A failed rollover still reports the turned calendar so the caller
		// reloads; the next foreground or midnight retries the shift.
		out.NewDay = l.markAnnounced(res.Day)
		if err != nil {
			l.logger.Error("midnight rollover failed", "err", err)
			out.Err = err
		}
	case scheduler.KindReminderPoll:
		defer l.armReminderPoll()
		remind, err := l.service.EvaluateReminder(ctx)
		if err != nil {
			l.logger.Error("reminder poll failed", "err", err)
			out.Err = err
			return out
		}
		out.Remind = remind
	default:
		l.logger.Warn("ignoring unknown event", "id", ev.ID, "kind", ev.Kind)
	}
	return out
}

// Run consumes engine events until ctx is done or the engine stops, handing
// each outcome to fn. It is the headless alternative to wiring C into a UI
// event loop.
func (l *Loop) Run(ctx context.Context, fn func(Outcome)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.engine.C():
			if !ok {
				return nil
			}
			out := l.Handle(ctx, ev)
			if fn != nil {
				fn(out)
			}
		}
	}
}

func (l *Loop) Events() <-chan scheduler.Event {
	return l.engine.C()
}

func (l *Loop) Stop() {
	l.engine.Stop()
}

func (l *Loop) armMidnight() {
	wait := l.clock.UntilNextMidnight()
	l.arm(scheduler.Event{ID: MidnightEventID, Kind: scheduler.KindMidnight, TriggerAt: l.wall().Add(wait)})
}

func (l *Loop) armReminderPoll() {
	l.arm(scheduler.Event{ID: ReminderPollEventID, Kind: scheduler.KindReminderPoll, TriggerAt: l.wall().Add(l.poll)})
}

func (l *Loop) arm(ev scheduler.Event) {
	if err := l.engine.Schedule(ev); err != nil {
		l.logger.Warn("could not arm event", "id", ev.ID, "err", err)
		return
	}
	l.logger.Debug("armed", "id", ev.ID, "at", ev.TriggerAt.Format(time.RFC3339))
}

func (l *Loop) setAnnounced(day model.Day) {
	l.mu.Lock()
	l.announced = day
	l.mu.Unlock()
}

// markAnnounced reports whether day has not been announced yet and records
// it. A midnight event that fires before the calendar has turned over finds
// the same day and stays quiet.
func (l *Loop) markAnnounced(day model.Day) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if day == l.announced {
		return false
	}
	l.announced = day
	return true
}
