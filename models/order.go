package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusEnRoute   = "en_route"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Lifecycle events. Staff drives the happy path; cancel is the only
// customer-initiated transition.
const (
	EventStartPreparing = "start_preparing"
	EventDispatch       = "dispatch"
	EventMarkDelivered  = "mark_delivered"
	EventCancel         = "cancel"
)

const (
	ActorCustomer = "customer"
	ActorStaff    = "staff"
)

type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Qty       int    `json:"qty"`
}

// Order is a row from the orders table. Status is the only field mutated
// after creation.
type Order struct {
	ID              int64
	CustomerID      string
	Items           []OrderItem
	Subtotal        int64
	Discount        int64
	Total           int64
	CouponCode      string
	DeliveryPointID int64
	Phone           string
	Note            string
	Status          string
	CreatedAt       time.Time
}

type CreateOrderInput struct {
	CustomerID      string
	Items           []OrderItem
	CouponCode      string
	DeliveryPointID int64
	Phone           string
	Note            string
}
