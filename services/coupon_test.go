package services

import (
	"testing"
	"time"

	"grocery-engine/models"
)

func TestCouponRejection(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	valid := models.Coupon{
		Code:               "HOSGELDIN",
		DiscountType:       models.DiscountTypePercentage,
		DiscountPercentage: 10,
		Scope:              models.CouponScopeGlobal,
		ExpiresAt:          now.Add(24 * time.Hour),
		IsActive:           true,
	}

	expired := valid
	expired.ExpiresAt = now.Add(-time.Minute)

	inactive := valid
	inactive.IsActive = false

	personal := valid
	personal.Scope = models.CouponScopeSingleUser
	personal.CustomerID = "alice"

	tests := []struct {
		name       string
		coupon     *models.Coupon
		customerID string
		want       string
	}{
		{"nil coupon", nil, "alice", models.CouponRejectNotFound},
		{"valid global", &valid, "alice", ""},
		{"expired", &expired, "alice", models.CouponRejectExpired},
		{"inactive", &inactive, "alice", models.CouponRejectInactive},
		{"personal, right user", &personal, "alice", ""},
		{"personal, wrong user", &personal, "bob", models.CouponRejectNotForUser},
	}
	for _, tt := range tests {
		if got := couponRejection(tt.coupon, tt.customerID, now); got != tt.want {
			t.Errorf("%s: rejection = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// Inactive is reported before expiry when both apply.
func TestCouponRejectionInactiveBeforeExpired(t *testing.T) {
	now := time.Now()
	c := models.Coupon{IsActive: false, ExpiresAt: now.Add(-time.Hour), Scope: models.CouponScopeGlobal}
	if got := couponRejection(&c, "x", now); got != models.CouponRejectInactive {
		t.Errorf("rejection = %q, want inactive", got)
	}
}
