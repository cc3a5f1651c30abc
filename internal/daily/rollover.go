package daily

import "github.com/sandeepkv93/dayroll/internal/model"

// Rollover moves tasks between buckets for a new calendar day. Unfinished
// today tasks slide to tomorrow, tomorrow tasks become today's, and
// completed today tasks stay where they are. When lastOpenDay already equals
// today the input is returned untouched and changed is false.
func Rollover(tasks []model.Task, lastOpenDay, today model.Day) (next []model.Task, newLastOpenDay model.Day, changed bool) {
	if lastOpenDay == today {
		return tasks, lastOpenDay, false
	}
	next = model.CloneTasks(tasks)
	for i := range next {
		switch next[i].Category {
		case model.CategoryToday:
			if !next[i].Completed {
				next[i].Category = model.CategoryTomorrow
			}
		case model.CategoryTomorrow:
			next[i].Category = model.CategoryToday
		}
	}
	return next, today, true
}
