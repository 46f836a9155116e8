package models

// TimeWindow is a daily time-of-day range. If start > end the window wraps
// past midnight (10:00–01:00 spans two calendar days).
type TimeWindow struct {
	StartHour   int
	StartMinute int // quarter-hour steps: 0, 15, 30, 45
	EndHour     int
	EndMinute   int
}

// StartMinuteOfDay returns the start boundary as minutes since midnight.
func (w TimeWindow) StartMinuteOfDay() int {
	return w.StartHour*60 + w.StartMinute
}

// EndMinuteOfDay returns the end boundary as minutes since midnight.
func (w TimeWindow) EndMinuteOfDay() int {
	return w.EndHour*60 + w.EndMinute
}

// Wraps reports whether the window crosses midnight.
func (w TimeWindow) Wraps() bool {
	return w.StartMinuteOfDay() > w.EndMinuteOfDay()
}

// DeliveryPoint is a named drop-off location. Window is an optional override
// evaluated on top of the global order window, never instead of it.
type DeliveryPoint struct {
	ID      int64
	Name    string
	Enabled bool
	Window  *TimeWindow
}

// Settings is the staff-editable configuration every admission and price
// check evaluates against.
type Settings struct {
	OrderWindow        TimeWindow
	MinimumOrderAmount int64
	DeliveryPoints     map[int64]DeliveryPoint
	AppVersion         string
}
