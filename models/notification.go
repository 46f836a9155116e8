package models

import "time"

// StaffNotification is one "new order" alert that keeps re-signalling until
// a staff member acknowledges it.
type StaffNotification struct {
	ID             string // uuid
	OrderID        int64
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
}
