package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grocery-engine/db"
	"grocery-engine/models"

	"github.com/jackc/pgx/v5"
)

// ErrOverlappingSale is returned when a new flash sale window overlaps an
// existing one for the same product. Overlaps are rejected at creation so
// reads never have to pick between two live windows.
var ErrOverlappingSale = errors.New("flash sale window overlaps an existing sale for this product")

// FlashSaleStatus classifies the sale relative to now. The three regions are
// contiguous and cover all of time: before start, between the boundaries
// (inclusive), after end.
func FlashSaleStatus(s models.FlashSale, now time.Time) string {
	if now.Before(s.StartDate) {
		return models.FlashSaleUpcoming
	}
	if now.After(s.EndDate) {
		return models.FlashSaleExpired
	}
	return models.FlashSaleActive
}

// formatCountdown renders a duration as its coarsest two non-zero units:
// "2g 5s", "5s 30d" or "45d" (gün/saat/dakika).
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	mins := int(d/time.Minute) % 60
	switch {
	case days > 0:
		if hours > 0 {
			return fmt.Sprintf("%dg %ds", days, hours)
		}
		return fmt.Sprintf("%dg", days)
	case hours > 0:
		if mins > 0 {
			return fmt.Sprintf("%ds %dd", hours, mins)
		}
		return fmt.Sprintf("%ds", hours)
	default:
		if mins < 1 {
			mins = 1
		}
		return fmt.Sprintf("%dd", mins)
	}
}

// FlashSaleRemaining is the customer-facing countdown line for the sale.
func FlashSaleRemaining(s models.FlashSale, now time.Time) string {
	switch FlashSaleStatus(s, now) {
	case models.FlashSaleUpcoming:
		return formatCountdown(s.StartDate.Sub(now)) + " sonra başlar"
	case models.FlashSaleActive:
		return formatCountdown(s.EndDate.Sub(now)) + " kaldı"
	default:
		return "sona erdi"
	}
}

// FlashSaleView is a sale with its derived status and countdown.
type FlashSaleView struct {
	models.FlashSale
	Status    string
	Remaining string
}

// ObserveFlashSales lists all sales with derived status. Sales observed as
// expired are deleted asynchronously; the delete is idempotent so two
// concurrent observers racing on the same row are harmless.
func ObserveFlashSales(ctx context.Context, now time.Time) ([]FlashSaleView, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, product_id, start_date, end_date FROM flash_sales ORDER BY start_date, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []FlashSaleView
	var expired []int64
	for rows.Next() {
		var s models.FlashSale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StartDate, &s.EndDate); err != nil {
			return nil, err
		}
		status := FlashSaleStatus(s, now)
		if status == models.FlashSaleExpired {
			expired = append(expired, s.ID)
			continue
		}
		views = append(views, FlashSaleView{FlashSale: s, Status: status, Remaining: FlashSaleRemaining(s, now)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(expired) > 0 {
		go func(ids []int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for _, id := range ids {
				if _, err := DeleteFlashSale(ctx, id); err != nil {
					slog.Error("delete expired flash sale", "sale_id", id, "error", err)
				}
			}
		}(expired)
	}
	return views, nil
}

// DeleteFlashSale removes a sale and reports whether a row was deleted.
// Not-found is success: expiry cleanup may be triggered by concurrent
// readers and by the sweep at the same time.
func DeleteFlashSale(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM flash_sales WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SweepExpiredFlashSales deletes every sale whose window has closed and
// returns how many were removed. Runs on a timer so cleanup does not depend
// on read traffic.
func SweepExpiredFlashSales(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM flash_sales WHERE end_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CreateFlashSale inserts a sale after rejecting overlapping windows for the
// same product.
func CreateFlashSale(ctx context.Context, productID int64, start, end time.Time) (int64, error) {
	if !start.Before(end) {
		return 0, fmt.Errorf("flash sale start %s must be before end %s", start, end)
	}
	var clash int
	err := db.Pool.QueryRow(ctx, `
		SELECT 1 FROM flash_sales
		WHERE product_id = $1 AND start_date < $3 AND end_date > $2
		LIMIT 1`,
		productID, start, end,
	).Scan(&clash)
	if err == nil {
		return 0, ErrOverlappingSale
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO flash_sales (product_id, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id`,
		productID, start, end,
	).Scan(&id)
	return id, err
}

// ActiveFlashSaleForProduct returns the product's currently active sale, or
// nil. First match wins when legacy data still contains overlaps.
func ActiveFlashSaleForProduct(ctx context.Context, productID int64, now time.Time) (*models.FlashSale, error) {
	var s models.FlashSale
	err := db.Pool.QueryRow(ctx, `
		SELECT id, product_id, start_date, end_date FROM flash_sales
		WHERE product_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY id
		LIMIT 1`,
		productID, now,
	).Scan(&s.ID, &s.ProductID, &s.StartDate, &s.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
