package models

import "time"

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	CouponScopeGlobal     = "global"
	CouponScopeSingleUser = "single_user"
)

// Coupon is immutable once issued except for IsActive.
type Coupon struct {
	ID                 int64
	Code               string
	DiscountType       string // percentage | fixed
	DiscountPercentage int64  // 0..100, percentage coupons only
	DiscountAmount     int64  // fixed coupons only
	MaximumDiscount    *int64 // cap for percentage coupons, nil = uncapped
	Scope              string // global | single_user
	CustomerID         string // set when scope is single_user
	ExpiresAt          time.Time
	IsActive           bool
	CreatedAt          time.Time
}

// Coupon rejection reasons returned by the validation boundary.
const (
	CouponRejectNotFound   = "not_found"
	CouponRejectExpired    = "expired"
	CouponRejectInactive   = "inactive"
	CouponRejectNotForUser = "not_for_this_user"
)
