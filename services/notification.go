package services

import (
	"context"

	"grocery-engine/db"
	"grocery-engine/models"

	"github.com/google/uuid"
)

// CreateStaffNotification records a "new order" alert for staff. The
// reminder loop keeps re-signalling it until it is acknowledged.
func CreateStaffNotification(ctx context.Context, orderID int64) (*models.StaffNotification, error) {
	n := &models.StaffNotification{ID: uuid.NewString(), OrderID: orderID}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO staff_notifications (id, order_id)
		VALUES ($1, $2)
		RETURNING created_at`,
		n.ID, n.OrderID,
	).Scan(&n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// AcknowledgeNotification marks the notification acknowledged. Returns
// false when it was already acknowledged or does not exist, so a double
// tap is a no-op.
func AcknowledgeNotification(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE staff_notifications SET acknowledged_at = now()
		WHERE id = $1 AND acknowledged_at IS NULL`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListUnacknowledgedNotifications returns pending alerts, oldest first.
// Used at boot to re-arm reminder timers after a restart.
func ListUnacknowledgedNotifications(ctx context.Context) ([]models.StaffNotification, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_id, created_at FROM staff_notifications
		WHERE acknowledged_at IS NULL
		ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.StaffNotification
	for rows.Next() {
		var n models.StaffNotification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}
