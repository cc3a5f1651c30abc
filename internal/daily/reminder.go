package daily

import "github.com/sandeepkv93/dayroll/internal/model"

const (
	DefaultReminderHour = 19
	ReminderText        = "Hey! You haven't completed any tasks today. Stay on track! 💪"
)

// ShouldRemind uses the default evening hour.
func ShouldRemind(hour int, lastReminderDay, today model.Day, anyCompletedToday bool) bool {
	return ShouldRemindAt(DefaultReminderHour, hour, lastReminderDay, today, anyCompletedToday)
}

func ShouldRemindAt(threshold, hour int, lastReminderDay, today model.Day, anyCompletedToday bool) bool {
	if hour < threshold {
		return false
	}
	if lastReminderDay == today {
		return false
	}
	return !anyCompletedToday
}

func AnyCompletedToday(tasks []model.Task) bool {
	for _, t := range tasks {
		if t.IsToday() && t.Completed {
			return true
		}
	}
	return false
}
