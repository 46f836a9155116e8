package services

import (
	"testing"
	"time"

	"grocery-engine/models"
)

func TestFlashSaleStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sale := models.FlashSale{StartDate: now.Add(1 * time.Hour), EndDate: now.Add(3 * time.Hour)}

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"before start", now, models.FlashSaleUpcoming},
		{"just before start", sale.StartDate.Add(-time.Second), models.FlashSaleUpcoming},
		{"at start", sale.StartDate, models.FlashSaleActive},
		{"mid window", now.Add(2 * time.Hour), models.FlashSaleActive},
		{"at end", sale.EndDate, models.FlashSaleActive},
		{"after end", now.Add(4 * time.Hour), models.FlashSaleExpired},
	}
	for _, tt := range tests {
		if got := FlashSaleStatus(sale, tt.at); got != tt.want {
			t.Errorf("%s: status = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// The three regions must partition time: every instant maps to exactly one
// status and the sequence is upcoming, active, expired.
func TestFlashSaleStatusPartition(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	sale := models.FlashSale{StartDate: start, EndDate: start.Add(2 * time.Hour)}

	prev := models.FlashSaleUpcoming
	for offset := -3 * time.Hour; offset <= 5*time.Hour; offset += time.Minute {
		got := FlashSaleStatus(sale, start.Add(offset))
		switch {
		case prev == models.FlashSaleUpcoming && got == models.FlashSaleActive:
		case prev == models.FlashSaleActive && got == models.FlashSaleExpired:
		case prev == got:
		default:
			t.Fatalf("status went %q -> %q at offset %s", prev, got, offset)
		}
		prev = got
	}
	if prev != models.FlashSaleExpired {
		t.Fatalf("final status = %q, want expired", prev)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2*24*time.Hour + 5*time.Hour, "2g 5s"},
		{2 * 24 * time.Hour, "2g"},
		{time.Hour + 30*time.Minute, "1s 30d"},
		{time.Hour, "1s"},
		{45 * time.Minute, "45d"},
		{30 * time.Second, "1d"},
		{0, "1d"},
		{-time.Minute, "1d"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.want {
			t.Errorf("formatCountdown(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFlashSaleRemaining(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sale := models.FlashSale{StartDate: now.Add(1 * time.Hour), EndDate: now.Add(3 * time.Hour)}

	if got := FlashSaleRemaining(sale, now); got != "1s sonra başlar" {
		t.Errorf("upcoming remaining = %q", got)
	}
	if got := FlashSaleRemaining(sale, now.Add(2*time.Hour)); got != "1s kaldı" {
		t.Errorf("active remaining = %q", got)
	}
	if got := FlashSaleRemaining(sale, now.Add(4*time.Hour)); got != "sona erdi" {
		t.Errorf("expired remaining = %q", got)
	}
}
