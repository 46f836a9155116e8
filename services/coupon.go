package services

import (
	"context"
	"errors"
	"time"

	"grocery-engine/db"
	"grocery-engine/models"

	"github.com/jackc/pgx/v5"
)

// GetCouponByCode loads a coupon, nil if no such code.
func GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := db.Pool.QueryRow(ctx, `
		SELECT id, code, discount_type, discount_percentage, discount_amount,
		       maximum_discount, scope, customer_id, expires_at, is_active, created_at
		FROM coupons WHERE code = $1`,
		code,
	).Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountPercentage, &c.DiscountAmount,
		&c.MaximumDiscount, &c.Scope, &c.CustomerID, &c.ExpiresAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// couponRejection is the pure validation rule: empty string means the coupon
// may be applied. This is the only place expiry, active flag and scope are
// checked; the price calculator trusts its input.
func couponRejection(c *models.Coupon, customerID string, now time.Time) string {
	if c == nil {
		return models.CouponRejectNotFound
	}
	if !c.IsActive {
		return models.CouponRejectInactive
	}
	if now.After(c.ExpiresAt) {
		return models.CouponRejectExpired
	}
	if c.Scope == models.CouponScopeSingleUser && c.CustomerID != customerID {
		return models.CouponRejectNotForUser
	}
	return ""
}

// ValidateCoupon checks a coupon code for a customer. On rejection the
// coupon is nil and the reason is one of the CouponReject constants.
func ValidateCoupon(ctx context.Context, code, customerID string) (*models.Coupon, string, error) {
	c, err := GetCouponByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if reason := couponRejection(c, customerID, time.Now()); reason != "" {
		return nil, reason, nil
	}
	return c, "", nil
}

// CreateCoupon inserts a staff-issued coupon and returns its id.
func CreateCoupon(ctx context.Context, c models.Coupon) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO coupons (code, discount_type, discount_percentage, discount_amount,
		                     maximum_discount, scope, customer_id, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		c.Code, c.DiscountType, c.DiscountPercentage, c.DiscountAmount,
		c.MaximumDiscount, c.Scope, c.CustomerID, c.ExpiresAt, c.IsActive,
	).Scan(&id)
	return id, err
}

// SetCouponActive toggles the only mutable coupon field.
func SetCouponActive(ctx context.Context, code string, active bool) error {
	_, err := db.Pool.Exec(ctx, `UPDATE coupons SET is_active = $2 WHERE code = $1`, code, active)
	return err
}
