package server

import "time"

type admissionResponse struct {
	Allowed          bool   `json:"allowed"`
	ReasonCode       string `json:"reason_code,omitempty"`
	Message          string `json:"message,omitempty"`
	CountdownSeconds *int64 `json:"countdown_seconds,omitempty"`
}

type priceRequest struct {
	Subtotal   int64  `json:"subtotal"`
	CouponCode string `json:"coupon_code,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

type priceResponse struct {
	Subtotal        int64  `json:"subtotal"`
	Discount        int64  `json:"discount"`
	Total           int64  `json:"total"`
	CouponRejection string `json:"coupon_rejection,omitempty"`
}

type orderItemDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Qty       int    `json:"qty"`
}

type createOrderRequest struct {
	CustomerID      string         `json:"customer_id"`
	Items           []orderItemDTO `json:"items"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	DeliveryPointID int64          `json:"delivery_point_id"`
	Phone           string         `json:"phone"`
	Note            string         `json:"note,omitempty"`
}

type orderResponse struct {
	ID              int64          `json:"id"`
	CustomerID      string         `json:"customer_id"`
	Items           []orderItemDTO `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	Discount        int64          `json:"discount"`
	Total           int64          `json:"total"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	DeliveryPointID int64          `json:"delivery_point_id"`
	Phone           string         `json:"phone"`
	Note            string         `json:"note,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	CouponRejection string         `json:"coupon_rejection,omitempty"`
}

type cancelOrderRequest struct {
	CustomerID string `json:"customer_id"`
}

type advanceOrderRequest struct {
	Event string `json:"event"`
}

type flashSaleResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	Remaining string    `json:"remaining"`
}

type createFlashSaleRequest struct {
	ProductID int64     `json:"product_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type createCouponRequest struct {
	Code               string    `json:"code"`
	DiscountType       string    `json:"discount_type"`
	DiscountPercentage int64     `json:"discount_percentage,omitempty"`
	DiscountAmount     int64     `json:"discount_amount,omitempty"`
	MaximumDiscount    *int64    `json:"maximum_discount,omitempty"`
	Scope              string    `json:"scope,omitempty"`
	CustomerID         string    `json:"customer_id,omitempty"`
	ExpiresAt          time.Time `json:"expires_at"`
}

type windowDTO struct {
	StartHour   int `json:"start_hour"`
	StartMinute int `json:"start_minute"`
	EndHour     int `json:"end_hour"`
	EndMinute   int `json:"end_minute"`
}

type deliveryPointDTO struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Enabled bool       `json:"enabled"`
	Window  *windowDTO `json:"window,omitempty"`
}

type settingsResponse struct {
	OrderWindow        windowDTO          `json:"order_window"`
	MinimumOrderAmount int64              `json:"minimum_order_amount"`
	DeliveryPoints     []deliveryPointDTO `json:"delivery_points"`
	AppVersion         string             `json:"app_version"`
}

type updateSettingsRequest struct {
	OrderWindow        windowDTO `json:"order_window"`
	MinimumOrderAmount int64     `json:"minimum_order_amount"`
}

type updateDeliveryPointRequest struct {
	Enabled     *bool      `json:"enabled,omitempty"`
	Window      *windowDTO `json:"window,omitempty"`
	ClearWindow bool       `json:"clear_window,omitempty"`
}

type ackResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
