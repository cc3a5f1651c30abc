package daily

import (
	"math"

	"github.com/sandeepkv93/dayroll/internal/model"
)

type WrapResult struct {
	EfficiencyPercent int
	Streak            int
	Done              int
	Total             int
	FirstWrapToday    bool
}

// WrapDay scores today's bucket and bumps the streak on the first wrap of a
// calendar day. tasks are only read.
func WrapDay(tasks []model.Task, ws model.WrapState, today model.Day) (WrapResult, model.WrapState) {
	done, total := 0, 0
	for _, t := range tasks {
		if !t.IsToday() {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}

	next := ws
	first := ws.LastWrapDay != today
	if first {
		next.Streak++
		next.LastWrapDay = today
	}
	return WrapResult{
		EfficiencyPercent: Percent(done, total),
		Streak:            next.Streak,
		Done:              done,
		Total:             total,
		FirstWrapToday:    first,
	}, next
}

// Percent rounds 100*part/whole half away from zero; an empty whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// Stats summarises the whole list, both buckets included.
type Stats struct {
	Total        int
	Done         int
	FocusPercent int
}

func ComputeStats(tasks []model.Task) Stats {
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return Stats{Total: len(tasks), Done: done, FocusPercent: Percent(done, len(tasks))}
}
