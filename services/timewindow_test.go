package services

import (
	"testing"
	"time"

	"grocery-engine/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestInWindow(t *testing.T) {
	day := models.TimeWindow{StartHour: 9, StartMinute: 0, EndHour: 18, EndMinute: 30}
	wrap := models.TimeWindow{StartHour: 10, StartMinute: 0, EndHour: 1, EndMinute: 0}

	tests := []struct {
		name string
		w    models.TimeWindow
		now  time.Time
		want bool
	}{
		{"before open", day, at(8, 59), false},
		{"at open", day, at(9, 0), true},
		{"midday", day, at(13, 0), true},
		{"just before close", day, at(18, 29), true},
		{"at close", day, at(18, 30), false},
		{"after close", day, at(23, 0), false},
		{"wrap late evening", wrap, at(23, 50), true},
		{"wrap after midnight", wrap, at(0, 30), true},
		{"wrap at end", wrap, at(1, 0), false},
		{"wrap early morning", wrap, at(5, 0), false},
		{"wrap at start", wrap, at(10, 0), true},
		{"wrap just before start", wrap, at(9, 59), false},
	}
	for _, tt := range tests {
		if got := InWindow(tt.now, tt.w); got != tt.want {
			t.Errorf("%s: InWindow(%s) = %v, want %v", tt.name, tt.now.Format("15:04"), got, tt.want)
		}
	}
}

func TestNextBoundary(t *testing.T) {
	wrap := models.TimeWindow{StartHour: 10, StartMinute: 0, EndHour: 1, EndMinute: 0}

	// Outside at 05:00: the next boundary is today 10:00, entering.
	next, dir := NextBoundary(at(5, 0), wrap)
	if dir != BoundaryEntering {
		t.Errorf("direction = %s, want %s", dir, BoundaryEntering)
	}
	if want := at(10, 0); !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}

	// Inside at 23:50: the next boundary is tomorrow 01:00, leaving.
	next, dir = NextBoundary(at(23, 50), wrap)
	if dir != BoundaryLeaving {
		t.Errorf("direction = %s, want %s", dir, BoundaryLeaving)
	}
	if want := at(1, 0).Add(24 * time.Hour); !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}
}

func TestNextBoundaryFlipsVerdict(t *testing.T) {
	windows := []models.TimeWindow{
		{StartHour: 9, StartMinute: 0, EndHour: 18, EndMinute: 30},
		{StartHour: 10, StartMinute: 0, EndHour: 1, EndMinute: 0},
		{StartHour: 22, StartMinute: 45, EndHour: 6, EndMinute: 15},
	}
	instants := []time.Time{at(0, 0), at(5, 0), at(9, 0), at(12, 30), at(18, 30), at(23, 59)}

	for _, w := range windows {
		for _, now := range instants {
			next, _ := NextBoundary(now, w)
			if !next.After(now) {
				t.Errorf("NextBoundary(%s) = %s, not strictly future", now.Format("15:04"), next)
			}
			if InWindow(next, w) == InWindow(now, w) {
				t.Errorf("window %+v: verdict did not flip between %s and %s",
					w, now.Format("15:04"), next.Format("15:04"))
			}
		}
	}
}
