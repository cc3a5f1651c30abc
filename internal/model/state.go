package model

import "errors"

type RolloverState struct {
	LastOpenDay Day
}

type WrapState struct {
	Streak      int `json:"streak"`
	LastWrapDay Day `json:"lastDate"`
}

func (w WrapState) Validate() error {
	if w.Streak < 0 {
		return errors.New("model: wrap streak must be non-negative")
	}
	if _, err := ParseDay(string(w.LastWrapDay)); err != nil {
		return err
	}
	return nil
}

type ReminderState struct {
	LastReminderDay Day
}
