package services

import (
	"math"

	"grocery-engine/models"
)

// Quote is the priced cart: subtotal, applied discount and final total.
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Price computes the discount for an already-validated coupon. Percentage
// discounts are clamped to MaximumDiscount when set; fixed discounts are
// capped at the subtotal. The total is never negative. Expiry and active
// checks belong to ValidateCoupon, not here.
func Price(subtotal int64, c *models.Coupon) Quote {
	if subtotal < 0 {
		subtotal = 0
	}
	if c == nil {
		return Quote{Subtotal: subtotal, Total: subtotal}
	}

	var discount int64
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		discount = int64(math.Round(float64(subtotal) * float64(c.DiscountPercentage) / 100))
		if c.MaximumDiscount != nil && discount > *c.MaximumDiscount {
			discount = *c.MaximumDiscount
		}
	case models.DiscountTypeFixed:
		discount = c.DiscountAmount
		if discount > subtotal {
			discount = subtotal
		}
	}
	if discount < 0 {
		discount = 0
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return Quote{Subtotal: subtotal, Discount: discount, Total: total}
}
