package services

import (
	"testing"

	"grocery-engine/models"
)

func testSettings() *models.Settings {
	pointWindow := models.TimeWindow{StartHour: 12, StartMinute: 0, EndHour: 20, EndMinute: 0}
	wideWindow := models.TimeWindow{StartHour: 0, StartMinute: 0, EndHour: 23, EndMinute: 45}
	return &models.Settings{
		OrderWindow:        models.TimeWindow{StartHour: 10, StartMinute: 0, EndHour: 1, EndMinute: 0},
		MinimumOrderAmount: 50,
		DeliveryPoints: map[int64]models.DeliveryPoint{
			1: {ID: 1, Name: "Kampüs", Enabled: true},
			2: {ID: 2, Name: "Yurt", Enabled: true, Window: &pointWindow},
			3: {ID: 3, Name: "Çarşı", Enabled: false},
			4: {ID: 4, Name: "Sanayi", Enabled: true, Window: &wideWindow},
		},
	}
}

func ptr(id int64) *int64 { return &id }

func TestAdmit(t *testing.T) {
	s := testSettings()

	tests := []struct {
		name       string
		hour, min  int
		point      *int64
		allowed    bool
		reason     string
		hasReopens bool
	}{
		{"open, no point", 12, 0, nil, true, "", false},
		{"outside global hours", 5, 0, nil, false, AdmissionReasonOrderHours, true},
		{"wrap window late night", 23, 50, nil, true, "", false},
		{"open point", 12, 30, ptr(1), true, "", false},
		{"disabled point", 12, 30, ptr(3), false, AdmissionReasonPointDisabled, false},
		{"unknown point", 12, 30, ptr(99), false, AdmissionReasonPointDisabled, false},
		{"point window closed, global open", 11, 0, ptr(2), false, AdmissionReasonPointHours, true},
		{"point window open", 13, 0, ptr(2), true, "", false},
		// Global window closed wins even when the point's window is open.
		{"global closed beats point open", 5, 0, ptr(4), false, AdmissionReasonOrderHours, true},
		{"disabled beats point hours", 11, 0, ptr(3), false, AdmissionReasonPointDisabled, false},
	}
	for _, tt := range tests {
		v := Admit(at(tt.hour, tt.min), s, tt.point)
		if v.Allowed != tt.allowed {
			t.Errorf("%s: allowed = %v, want %v", tt.name, v.Allowed, tt.allowed)
			continue
		}
		if v.Reason != tt.reason {
			t.Errorf("%s: reason = %q, want %q", tt.name, v.Reason, tt.reason)
		}
		if (v.ReopensAt != nil) != tt.hasReopens {
			t.Errorf("%s: reopensAt set = %v, want %v", tt.name, v.ReopensAt != nil, tt.hasReopens)
		}
		if !v.Allowed && v.Message == "" {
			t.Errorf("%s: refusal should carry a message", tt.name)
		}
	}
}

func TestAdmitCountdownMatchesNextBoundary(t *testing.T) {
	s := testSettings()
	now := at(5, 0)
	v := Admit(now, s, nil)
	if v.Allowed || v.ReopensAt == nil {
		t.Fatalf("expected time-based refusal, got %+v", v)
	}
	want, _ := NextBoundary(now, s.OrderWindow)
	if !v.ReopensAt.Equal(want) {
		t.Errorf("reopensAt = %s, want %s", v.ReopensAt, want)
	}
}
