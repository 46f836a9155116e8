package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"grocery-engine/db"
	"grocery-engine/models"
)

func TestTargetStatus(t *testing.T) {
	tests := []struct {
		from, event, actor string
		wantTo             string
		wantOK             bool
	}{
		{models.OrderStatusPending, models.EventStartPreparing, models.ActorStaff, models.OrderStatusPreparing, true},
		{models.OrderStatusPreparing, models.EventDispatch, models.ActorStaff, models.OrderStatusEnRoute, true},
		{models.OrderStatusEnRoute, models.EventMarkDelivered, models.ActorStaff, models.OrderStatusDelivered, true},

		// Each staff event is legal only from its immediate predecessor.
		{models.OrderStatusPending, models.EventDispatch, models.ActorStaff, "", false},
		{models.OrderStatusPending, models.EventMarkDelivered, models.ActorStaff, "", false},
		{models.OrderStatusPreparing, models.EventStartPreparing, models.ActorStaff, "", false},
		{models.OrderStatusEnRoute, models.EventDispatch, models.ActorStaff, "", false},

		// Customers cannot advance the happy path.
		{models.OrderStatusPending, models.EventStartPreparing, models.ActorCustomer, "", false},
		{models.OrderStatusPreparing, models.EventDispatch, models.ActorCustomer, "", false},

		// Cancellation succeeds iff pending or preparing.
		{models.OrderStatusPending, models.EventCancel, models.ActorCustomer, models.OrderStatusCancelled, true},
		{models.OrderStatusPreparing, models.EventCancel, models.ActorCustomer, models.OrderStatusCancelled, true},
		{models.OrderStatusPreparing, models.EventCancel, models.ActorStaff, models.OrderStatusCancelled, true},
		{models.OrderStatusEnRoute, models.EventCancel, models.ActorCustomer, "", false},
		{models.OrderStatusDelivered, models.EventCancel, models.ActorCustomer, "", false},

		// Terminal states accept nothing.
		{models.OrderStatusDelivered, models.EventStartPreparing, models.ActorStaff, "", false},
		{models.OrderStatusDelivered, models.EventDispatch, models.ActorStaff, "", false},
		{models.OrderStatusCancelled, models.EventStartPreparing, models.ActorStaff, "", false},
		{models.OrderStatusCancelled, models.EventCancel, models.ActorCustomer, "", false},

		{"", models.EventStartPreparing, models.ActorStaff, "", false},
		{models.OrderStatusPending, "", models.ActorStaff, "", false},
	}
	for _, tt := range tests {
		to, ok := targetStatus(tt.from, tt.event, tt.actor)
		if ok != tt.wantOK || to != tt.wantTo {
			t.Errorf("targetStatus(%q, %q, %q) = (%q, %v), want (%q, %v)",
				tt.from, tt.event, tt.actor, to, ok, tt.wantTo, tt.wantOK)
		}
	}
}

func TestSourceStatuses(t *testing.T) {
	from := sourceStatuses(models.EventCancel, models.ActorCustomer)
	if len(from) != 2 {
		t.Fatalf("cancel sources = %v, want pending and preparing", from)
	}
	from = sourceStatuses(models.EventDispatch, models.ActorStaff)
	if len(from) != 1 || from[0] != models.OrderStatusPreparing {
		t.Fatalf("dispatch sources = %v, want [preparing]", from)
	}
	if from := sourceStatuses(models.EventDispatch, models.ActorCustomer); len(from) != 0 {
		t.Fatalf("customer dispatch sources = %v, want none", from)
	}
}

// Integration: two concurrent dispatches must resolve to exactly one winner.
// Requires a DB; skipped in short mode or when no pool is configured.
func TestTransitionOrder_ConcurrentDispatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping transition integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping transition integration test: no DB pool")
	}
	ctx := context.Background()

	var pointID int64
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO delivery_points (name) VALUES ('test-point') RETURNING id`,
	).Scan(&pointID); err != nil {
		t.Fatalf("create delivery point: %v", err)
	}
	defer db.Pool.Exec(ctx, `DELETE FROM delivery_points WHERE id = $1`, pointID)

	items, _ := json.Marshal([]models.OrderItem{{ProductID: 1, Name: "Süt", Price: 30, Qty: 2}})
	var orderID int64
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, items, subtotal, discount, total, delivery_point_id, status)
		VALUES ('test-customer', $1, 60, 0, 60, $2, 'preparing')
		RETURNING id`,
		items, pointID,
	).Scan(&orderID); err != nil {
		t.Fatalf("create order: %v", err)
	}
	defer db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := TransitionOrder(ctx, orderID, models.EventDispatch, models.ActorStaff)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var illegal *IllegalTransitionError
		if errors.As(err, &illegal) {
			losses++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Errorf("concurrent dispatch: %d wins, %d losses, want 1/1", wins, losses)
	}

	status, err := orderStatus(ctx, orderID)
	if err != nil {
		t.Fatalf("order status: %v", err)
	}
	if status != models.OrderStatusEnRoute {
		t.Errorf("final status = %q, want %q", status, models.OrderStatusEnRoute)
	}
}

// Integration: cancelling an en-route order is refused and the status is kept.
func TestTransitionOrder_CancelEnRoute(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping transition integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping transition integration test: no DB pool")
	}
	ctx := context.Background()

	var pointID int64
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO delivery_points (name) VALUES ('test-point-2') RETURNING id`,
	).Scan(&pointID); err != nil {
		t.Fatalf("create delivery point: %v", err)
	}
	defer db.Pool.Exec(ctx, `DELETE FROM delivery_points WHERE id = $1`, pointID)

	var orderID int64
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, items, subtotal, discount, total, delivery_point_id, status)
		VALUES ('test-customer', '[]', 100, 0, 100, $1, 'en_route')
		RETURNING id`,
		pointID,
	).Scan(&orderID); err != nil {
		t.Fatalf("create order: %v", err)
	}
	defer db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)

	_, err := TransitionOrder(ctx, orderID, models.EventCancel, models.ActorCustomer)
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("cancel en_route: err = %v, want IllegalTransitionError", err)
	}
	if illegal.Current != models.OrderStatusEnRoute {
		t.Errorf("error current = %q, want en_route", illegal.Current)
	}

	status, _ := orderStatus(ctx, orderID)
	if status != models.OrderStatusEnRoute {
		t.Errorf("status after refused cancel = %q, want en_route", status)
	}
}
