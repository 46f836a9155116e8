package services

import (
	"time"

	"grocery-engine/models"
)

const (
	BoundaryEntering = "entering"
	BoundaryLeaving  = "leaving"
)

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InWindow reports whether now falls inside the daily window. A window whose
// start is after its end wraps past midnight (10:00–01:00 covers 23:50 and
// 00:30 but not 05:00).
func InWindow(now time.Time, w models.TimeWindow) bool {
	t := minuteOfDay(now)
	start, end := w.StartMinuteOfDay(), w.EndMinuteOfDay()
	if start <= end {
		return t >= start && t < end
	}
	return t >= start || t < end
}

// NextBoundary returns the next instant the window verdict flips and whether
// crossing it enters or leaves the window. The result is strictly in the
// future, rolling to the next calendar day when today's boundary has passed.
func NextBoundary(now time.Time, w models.TimeWindow) (time.Time, string) {
	direction := BoundaryEntering
	target := w.StartMinuteOfDay()
	if InWindow(now, w) {
		direction = BoundaryLeaving
		target = w.EndMinuteOfDay()
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), target/60, target%60, 0, 0, now.Location())
	if !at.After(now) {
		at = at.Add(24 * time.Hour)
	}
	return at, direction
}
