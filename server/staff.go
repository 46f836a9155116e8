package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"grocery-engine/models"
	"grocery-engine/services"

	"github.com/go-chi/chi/v5"
)

// StaffAuth guards staff routes with HTTP Basic auth against the bcrypt
// hashes in staff_credentials.
func (h *Handler) StaffAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="staff"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		valid, err := services.VerifyStaffPassword(r.Context(), user, pass)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "auth_failed", err.Error())
			return
		}
		if !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="staff"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListActiveOrders is the staff dashboard view: everything not yet
// delivered or cancelled.
func (h *Handler) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := services.ListActiveOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_orders_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// AdvanceOrder applies a staff lifecycle event. An out-of-order or repeated
// event (a double click, a lost race) gets a 409, never a silent coerce.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_order_id", "")
		return
	}
	var req advanceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	switch req.Event {
	case models.EventStartPreparing, models.EventDispatch, models.EventMarkDelivered, models.EventCancel:
	default:
		writeError(w, http.StatusBadRequest, "unknown_event", req.Event)
		return
	}

	o, err := services.TransitionOrder(r.Context(), orderID, req.Event, models.ActorStaff)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	h.publishLifecycle(r, o)
	writeJSON(w, http.StatusOK, mapOrder(o))
}

// AckNotification stops the reminder for one notification. The timer is
// cancelled synchronously with the acknowledgment; other pending
// notifications keep ringing.
func (h *Handler) AckNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	acked, err := services.AcknowledgeNotification(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ack_failed", err.Error())
		return
	}
	h.reminders.Ack(id)
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: acked})
}

// CreateFlashSale rejects windows overlapping an existing sale for the
// same product.
func (h *Handler) CreateFlashSale(w http.ResponseWriter, r *http.Request) {
	var req createFlashSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	id, err := services.CreateFlashSale(r.Context(), req.ProductID, req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, services.ErrOverlappingSale) {
			writeError(w, http.StatusConflict, "overlapping_sale", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_flash_sale", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, flashSaleResponse{
		ID:        id,
		ProductID: req.ProductID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    services.FlashSaleStatus(models.FlashSale{StartDate: req.StartDate, EndDate: req.EndDate}, time.Now()),
	})
}

// DeleteFlashSale removes a sale by hand. A sale already cleaned up by the
// sweep or by a concurrent observer answers 410: the row being gone is the
// outcome the caller wanted.
func (h *Handler) DeleteFlashSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_flash_sale_id", "")
		return
	}
	deleted, err := services.DeleteFlashSale(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete_flash_sale_failed", err.Error())
		return
	}
	if !deleted {
		w.WriteHeader(http.StatusGone)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCoupon issues a new coupon.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code_required", "")
		return
	}
	if req.DiscountType != models.DiscountTypePercentage && req.DiscountType != models.DiscountTypeFixed {
		writeError(w, http.StatusBadRequest, "invalid_discount_type", req.DiscountType)
		return
	}
	if req.DiscountType == models.DiscountTypePercentage && (req.DiscountPercentage < 0 || req.DiscountPercentage > 100) {
		writeError(w, http.StatusBadRequest, "invalid_percentage", "discount_percentage must be in 0..100")
		return
	}
	scope := req.Scope
	if scope == "" {
		scope = models.CouponScopeGlobal
	}
	id, err := services.CreateCoupon(r.Context(), models.Coupon{
		Code:               req.Code,
		DiscountType:       req.DiscountType,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MaximumDiscount:    req.MaximumDiscount,
		Scope:              scope,
		CustomerID:         req.CustomerID,
		ExpiresAt:          req.ExpiresAt,
		IsActive:           true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create_coupon_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateSettings replaces the global order window and minimum amount. The
// settings snapshot is invalidated so the next admission check sees it.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	w2 := models.TimeWindow{
		StartHour:   req.OrderWindow.StartHour,
		StartMinute: req.OrderWindow.StartMinute,
		EndHour:     req.OrderWindow.EndHour,
		EndMinute:   req.OrderWindow.EndMinute,
	}
	if err := validateWindow(w2); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_window", err.Error())
		return
	}
	if err := services.UpdateSettings(r.Context(), w2, req.MinimumOrderAmount); err != nil {
		writeError(w, http.StatusInternalServerError, "update_settings_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDeliveryPoint toggles a point and/or replaces its window.
func (h *Handler) UpdateDeliveryPoint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_delivery_point", "")
		return
	}
	var req updateDeliveryPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Enabled != nil {
		if err := services.SetDeliveryPointEnabled(r.Context(), id, *req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "update_point_failed", err.Error())
			return
		}
	}
	if req.ClearWindow {
		if err := services.SetDeliveryPointWindow(r.Context(), id, nil); err != nil {
			writeError(w, http.StatusInternalServerError, "update_point_failed", err.Error())
			return
		}
	} else if req.Window != nil {
		w2 := models.TimeWindow{
			StartHour:   req.Window.StartHour,
			StartMinute: req.Window.StartMinute,
			EndHour:     req.Window.EndHour,
			EndMinute:   req.Window.EndMinute,
		}
		if err := validateWindow(w2); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window", err.Error())
			return
		}
		if err := services.SetDeliveryPointWindow(r.Context(), id, &w2); err != nil {
			writeError(w, http.StatusInternalServerError, "update_point_failed", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateWindow(w models.TimeWindow) error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return errors.New("hours must be in 0..23")
	}
	for _, m := range []int{w.StartMinute, w.EndMinute} {
		switch m {
		case 0, 15, 30, 45:
		default:
			return errors.New("minutes must be one of 0, 15, 30, 45")
		}
	}
	return nil
}
