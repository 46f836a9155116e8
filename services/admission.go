package services

import (
	"time"

	"grocery-engine/models"
)

const (
	AdmissionReasonOrderHours    = "order_hours"
	AdmissionReasonPointDisabled = "delivery_point_disabled"
	AdmissionReasonPointHours    = "delivery_point_hours"
)

// Verdict is the admission answer. A refusal is a valid verdict, not an
// error; time-based refusals carry the instant ordering reopens so the
// caller can render a countdown (recomputed per request, never cached).
type Verdict struct {
	Allowed   bool
	Reason    string
	Message   string
	ReopensAt *time.Time
}

// Admit decides whether an order may be placed right now. Checks run in
// order and the first failure wins: global order hours, then the delivery
// point's enabled flag, then the point's own window. The global window is
// authoritative; a point window only restricts further.
func Admit(now time.Time, s *models.Settings, deliveryPointID *int64) Verdict {
	if !InWindow(now, s.OrderWindow) {
		at, _ := NextBoundary(now, s.OrderWindow)
		return Verdict{
			Reason:    AdmissionReasonOrderHours,
			Message:   "Sipariş saatleri dışındayız. Lütfen daha sonra tekrar deneyin.",
			ReopensAt: &at,
		}
	}
	if deliveryPointID != nil {
		dp, ok := s.DeliveryPoints[*deliveryPointID]
		if !ok || !dp.Enabled {
			return Verdict{
				Reason:  AdmissionReasonPointDisabled,
				Message: "Bu teslimat noktası şu anda kapalı.",
			}
		}
		if dp.Window != nil && !InWindow(now, *dp.Window) {
			at, _ := NextBoundary(now, *dp.Window)
			return Verdict{
				Reason:    AdmissionReasonPointHours,
				Message:   "Bu teslimat noktasının çalışma saatleri dışındayız.",
				ReopensAt: &at,
			}
		}
	}
	return Verdict{Allowed: true}
}
