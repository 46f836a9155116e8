package services

import (
	"context"
	"sync"
	"time"

	"grocery-engine/db"
	"grocery-engine/models"
)

// Admission and price checks must never run against a snapshot older than
// this; staff edits invalidate the cache immediately.
const settingsRefreshInterval = 5 * time.Second

var settingsCache struct {
	mu       sync.Mutex
	snap     *models.Settings
	loadedAt time.Time
}

// CurrentSettings returns a recent settings snapshot, re-reading the store
// when the cached one is older than the refresh interval.
func CurrentSettings(ctx context.Context) (*models.Settings, error) {
	settingsCache.mu.Lock()
	defer settingsCache.mu.Unlock()
	if settingsCache.snap != nil && time.Since(settingsCache.loadedAt) < settingsRefreshInterval {
		return settingsCache.snap, nil
	}
	s, err := LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	settingsCache.snap = s
	settingsCache.loadedAt = time.Now()
	return s, nil
}

// InvalidateSettingsCache forces the next CurrentSettings call to hit the store.
func InvalidateSettingsCache() {
	settingsCache.mu.Lock()
	settingsCache.snap = nil
	settingsCache.mu.Unlock()
}

// LoadSettings reads the settings row and all delivery points.
func LoadSettings(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := db.Pool.QueryRow(ctx, `
		SELECT order_start_hour, order_start_minute, order_end_hour, order_end_minute,
		       minimum_order_amount, app_version
		FROM settings WHERE id = 1`,
	).Scan(&s.OrderWindow.StartHour, &s.OrderWindow.StartMinute,
		&s.OrderWindow.EndHour, &s.OrderWindow.EndMinute,
		&s.MinimumOrderAmount, &s.AppVersion)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, enabled, start_hour, start_minute, end_hour, end_minute
		FROM delivery_points ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.DeliveryPoints = make(map[int64]models.DeliveryPoint)
	for rows.Next() {
		var dp models.DeliveryPoint
		var sh, sm, eh, em *int
		if err := rows.Scan(&dp.ID, &dp.Name, &dp.Enabled, &sh, &sm, &eh, &em); err != nil {
			return nil, err
		}
		if sh != nil && sm != nil && eh != nil && em != nil {
			dp.Window = &models.TimeWindow{StartHour: *sh, StartMinute: *sm, EndHour: *eh, EndMinute: *em}
		}
		s.DeliveryPoints[dp.ID] = dp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings replaces the global order window and minimum order amount.
func UpdateSettings(ctx context.Context, w models.TimeWindow, minimumOrderAmount int64) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE settings SET
			order_start_hour = $1, order_start_minute = $2,
			order_end_hour = $3, order_end_minute = $4,
			minimum_order_amount = $5,
			updated_at = now()
		WHERE id = 1`,
		w.StartHour, w.StartMinute, w.EndHour, w.EndMinute, minimumOrderAmount,
	)
	if err == nil {
		InvalidateSettingsCache()
	}
	return err
}

// AddDeliveryPoint inserts a new drop-off location, enabled by default.
func AddDeliveryPoint(ctx context.Context, name string) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO delivery_points (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	if err == nil {
		InvalidateSettingsCache()
	}
	return id, err
}

// SetDeliveryPointEnabled toggles a point without touching its window.
func SetDeliveryPointEnabled(ctx context.Context, id int64, enabled bool) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE delivery_points SET enabled = $2, updated_at = now() WHERE id = $1`,
		id, enabled,
	)
	if err == nil {
		InvalidateSettingsCache()
	}
	return err
}

// SetDeliveryPointWindow sets or clears (nil) the point's own window.
func SetDeliveryPointWindow(ctx context.Context, id int64, w *models.TimeWindow) error {
	var sh, sm, eh, em *int
	if w != nil {
		sh, sm, eh, em = &w.StartHour, &w.StartMinute, &w.EndHour, &w.EndMinute
	}
	_, err := db.Pool.Exec(ctx, `
		UPDATE delivery_points SET
			start_hour = $2, start_minute = $3, end_hour = $4, end_minute = $5,
			updated_at = now()
		WHERE id = $1`,
		id, sh, sm, eh, em,
	)
	if err == nil {
		InvalidateSettingsCache()
	}
	return err
}
