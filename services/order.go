package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grocery-engine/db"
	"grocery-engine/models"

	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

// AdmissionRefusedError carries the gate verdict when order creation is
// refused at the creation instant.
type AdmissionRefusedError struct {
	Verdict Verdict
}

func (e *AdmissionRefusedError) Error() string {
	return "order refused: " + e.Verdict.Reason
}

// BelowMinimumError is returned when the post-discount total is under the
// configured minimum order amount.
type BelowMinimumError struct {
	Total   int64
	Minimum int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("order total %d below minimum %d", e.Total, e.Minimum)
}

// IllegalTransitionError rejects a lifecycle transition that is not legal
// from the order's current status, for this actor. A lost concurrent race
// produces the same error: the loser's expected status was stale.
type IllegalTransitionError struct {
	OrderID int64
	Current string
	Event   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("order %d: event %s not allowed from status %q", e.OrderID, e.Event, e.Current)
}

// targetStatus returns the status the event moves the order to, or false
// when the event is not legal from this status for this actor.
func targetStatus(from, event, actor string) (string, bool) {
	switch event {
	case models.EventCancel:
		// Customers may cancel until the order leaves the kitchen; staff
		// cancel follows the same cutoff.
		if from == models.OrderStatusPending || from == models.OrderStatusPreparing {
			return models.OrderStatusCancelled, true
		}
	case models.EventStartPreparing:
		if actor == models.ActorStaff && from == models.OrderStatusPending {
			return models.OrderStatusPreparing, true
		}
	case models.EventDispatch:
		if actor == models.ActorStaff && from == models.OrderStatusPreparing {
			return models.OrderStatusEnRoute, true
		}
	case models.EventMarkDelivered:
		if actor == models.ActorStaff && from == models.OrderStatusEnRoute {
			return models.OrderStatusDelivered, true
		}
	}
	return "", false
}

// sourceStatuses lists the statuses an event may legally start from.
func sourceStatuses(event, actor string) []string {
	var from []string
	for _, s := range []string{
		models.OrderStatusPending, models.OrderStatusPreparing,
		models.OrderStatusEnRoute, models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		if _, ok := targetStatus(s, event, actor); ok {
			from = append(from, s)
		}
	}
	return from
}

// CreateOrder re-validates admission and the minimum order amount at the
// creation instant, even though the client already checked them: time may
// have advanced between the client's check and the submit. An invalid coupon
// does not block the order; it is dropped and the rejection reason returned.
func CreateOrder(ctx context.Context, input models.CreateOrderInput) (*models.Order, string, error) {
	now := time.Now()
	settings, err := CurrentSettings(ctx)
	if err != nil {
		return nil, "", err
	}

	verdict := Admit(now, settings, &input.DeliveryPointID)
	if !verdict.Allowed {
		return nil, "", &AdmissionRefusedError{Verdict: verdict}
	}

	var subtotal int64
	for _, it := range input.Items {
		subtotal += it.Price * int64(it.Qty)
	}

	var coupon *models.Coupon
	var couponRejection string
	if input.CouponCode != "" {
		coupon, couponRejection, err = ValidateCoupon(ctx, input.CouponCode, input.CustomerID)
		if err != nil {
			return nil, "", err
		}
	}
	quote := Price(subtotal, coupon)

	if quote.Total < settings.MinimumOrderAmount {
		return nil, couponRejection, &BelowMinimumError{Total: quote.Total, Minimum: settings.MinimumOrderAmount}
	}

	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return nil, couponRejection, fmt.Errorf("marshal order items: %w", err)
	}
	couponCode := ""
	if coupon != nil {
		couponCode = coupon.Code
	}

	o := &models.Order{
		CustomerID:      input.CustomerID,
		Items:           input.Items,
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Total:           quote.Total,
		CouponCode:      couponCode,
		DeliveryPointID: input.DeliveryPointID,
		Phone:           input.Phone,
		Note:            input.Note,
		Status:          models.OrderStatusPending,
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, items, subtotal, discount, total, coupon_code,
		                    delivery_point_id, phone, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
		RETURNING id, created_at`,
		o.CustomerID, itemsJSON, o.Subtotal, o.Discount, o.Total, o.CouponCode,
		o.DeliveryPointID, o.Phone, o.Note,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, couponRejection, err
	}
	return o, couponRejection, nil
}

// TransitionOrder applies a lifecycle event with a compare-and-set on the
// expected source status, so two concurrent requests for the same order
// serialize and the loser gets IllegalTransitionError. Exactly one
// lifecycle event is owed per returned order; the caller publishes it.
func TransitionOrder(ctx context.Context, orderID int64, event, actor string) (*models.Order, error) {
	from := sourceStatuses(event, actor)
	if len(from) == 0 {
		current, err := orderStatus(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &IllegalTransitionError{OrderID: orderID, Current: current, Event: event}
	}
	to, _ := targetStatus(from[0], event, actor)

	row := db.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING id, customer_id, items, subtotal, discount, total, coupon_code,
		          delivery_point_id, phone, note, status, created_at`,
		orderID, to, from,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, serr := orderStatus(ctx, orderID)
			if serr != nil {
				return nil, serr
			}
			return nil, &IllegalTransitionError{OrderID: orderID, Current: current, Event: event}
		}
		return nil, err
	}
	return o, nil
}

func orderStatus(ctx context.Context, orderID int64) (string, error) {
	var status string
	err := db.Pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	return status, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var itemsJSON []byte
	err := row.Scan(&o.ID, &o.CustomerID, &itemsJSON, &o.Subtotal, &o.Discount, &o.Total,
		&o.CouponCode, &o.DeliveryPointID, &o.Phone, &o.Note, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}

// GetOrder loads one order, ErrOrderNotFound if missing.
func GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, customer_id, items, subtotal, discount, total, coupon_code,
		       delivery_point_id, phone, note, status, created_at
		FROM orders WHERE id = $1`,
		orderID,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListCustomerOrders returns the customer's orders, newest first. Cancelled
// orders are kept in storage but hidden from this default listing.
func ListCustomerOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	return listOrders(ctx, `
		SELECT id, customer_id, items, subtotal, discount, total, coupon_code,
		       delivery_point_id, phone, note, status, created_at
		FROM orders
		WHERE customer_id = $1 AND status <> 'cancelled'
		ORDER BY id DESC`,
		customerID,
	)
}

// ListActiveOrders returns every order still moving through the kitchen,
// oldest first, for the staff dashboard.
func ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	return listOrders(ctx, `
		SELECT id, customer_id, items, subtotal, discount, total, coupon_code,
		       delivery_point_id, phone, note, status, created_at
		FROM orders
		WHERE status NOT IN ('delivered', 'cancelled')
		ORDER BY id`,
	)
}

func listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}
