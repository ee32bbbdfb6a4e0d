package models

import (
	"errors"
	"time"
)

// ErrInvertedWindow is returned when a window ends before it starts.
var ErrInvertedWindow = errors.New("time window start is after end")

// TimeWindow bounds a record query. Both ends are inclusive.
type TimeWindow struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// TrailingWindow returns [now-d, now].
func TrailingWindow(now time.Time, d time.Duration) TimeWindow {
	return TimeWindow{Start: now.Add(-d), End: now}
}

func (w TimeWindow) Validate() error {
	if w.Start.After(w.End) {
		return ErrInvertedWindow
	}
	return nil
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
