package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"grocery-engine/models"
	"grocery-engine/realtime"
	"grocery-engine/services"

	"github.com/go-chi/chi/v5"
)

// StaffNotifier pushes a new-order card to staff out of band (Telegram).
// May be nil when no notifier is configured.
type StaffNotifier interface {
	NotifyNewOrder(n models.StaffNotification, o *models.Order)
}

type Handler struct {
	hub       *realtime.Hub
	reminders *realtime.ReminderLoop
	notifier  StaffNotifier
}

func NewHandler(hub *realtime.Hub, reminders *realtime.ReminderLoop, notifier StaffNotifier) *Handler {
	return &Handler{hub: hub, reminders: reminders, notifier: notifier}
}

// OrderAdmission answers the polled checkout question "can I order right
// now". A refusal is a 200 verdict, never a 4xx; the countdown is derived
// from the wall clock on every call.
func (h *Handler) OrderAdmission(w http.ResponseWriter, r *http.Request) {
	settings, err := services.CurrentSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings_unavailable", err.Error())
		return
	}

	var pointID *int64
	if v := r.URL.Query().Get("deliveryPoint"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_delivery_point", v)
			return
		}
		pointID = &id
	}

	now := time.Now()
	verdict := services.Admit(now, settings, pointID)
	resp := admissionResponse{
		Allowed:    verdict.Allowed,
		ReasonCode: verdict.Reason,
		Message:    verdict.Message,
	}
	if verdict.ReopensAt != nil {
		secs := int64(verdict.ReopensAt.Sub(now).Seconds())
		if secs < 0 {
			secs = 0
		}
		resp.CountdownSeconds = &secs
	}
	writeJSON(w, http.StatusOK, resp)
}

// PriceCart quotes a cart. An invalid coupon is a recoverable rejection:
// the quote proceeds without it and carries the reason.
func (h *Handler) PriceCart(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Subtotal < 0 {
		writeError(w, http.StatusBadRequest, "invalid_subtotal", "subtotal must be >= 0")
		return
	}

	var coupon *models.Coupon
	var rejection string
	if req.CouponCode != "" {
		var err error
		coupon, rejection, err = services.ValidateCoupon(r.Context(), req.CouponCode, req.CustomerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "coupon_lookup_failed", err.Error())
			return
		}
	}

	quote := services.Price(req.Subtotal, coupon)
	writeJSON(w, http.StatusOK, priceResponse{
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Total:           quote.Total,
		CouponRejection: rejection,
	})
}

// GetSettings is the client bootstrap snapshot, polled on a short interval.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := services.CurrentSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "settings_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapSettings(settings))
}

// ListFlashSales returns live and upcoming sales with countdowns. Observing
// an expired sale triggers its (idempotent) cleanup.
func (h *Handler) ListFlashSales(w http.ResponseWriter, r *http.Request) {
	views, err := services.ObserveFlashSales(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "flash_sales_unavailable", err.Error())
		return
	}
	resp := make([]flashSaleResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, flashSaleResponse{
			ID:        v.ID,
			ProductID: v.ProductID,
			StartDate: v.StartDate,
			EndDate:   v.EndDate,
			Status:    v.Status,
			Remaining: v.Remaining,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateOrder places an order. Admission and the minimum amount are
// re-checked here at the creation instant regardless of what the client
// saw; a refusal is a 409 with the gate's reason code.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerID == "" || len(req.Items) == 0 || req.DeliveryPointID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id, items and delivery_point_id are required")
		return
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Price < 0 || it.Qty <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "price must be >= 0 and qty > 0")
			return
		}
		items = append(items, models.OrderItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Qty: it.Qty})
	}

	o, couponRejection, err := services.CreateOrder(r.Context(), models.CreateOrderInput{
		CustomerID:      req.CustomerID,
		Items:           items,
		CouponCode:      req.CouponCode,
		DeliveryPointID: req.DeliveryPointID,
		Phone:           req.Phone,
		Note:            req.Note,
	})
	if err != nil {
		var refused *services.AdmissionRefusedError
		var belowMin *services.BelowMinimumError
		switch {
		case errors.As(err, &refused):
			writeError(w, http.StatusConflict, refused.Verdict.Reason, refused.Verdict.Message)
		case errors.As(err, &belowMin):
			writeError(w, http.StatusConflict, "below_minimum", belowMin.Error())
		default:
			writeError(w, http.StatusInternalServerError, "create_order_failed", err.Error())
		}
		return
	}

	h.announceNewOrder(r, o)

	resp := mapOrder(o)
	resp.CouponRejection = couponRejection
	writeJSON(w, http.StatusCreated, resp)
}

// announceNewOrder notifies staff about a fresh order and arms its reminder.
func (h *Handler) announceNewOrder(r *http.Request, o *models.Order) {
	ctx := r.Context()
	n, err := services.CreateStaffNotification(ctx, o.ID)
	if err != nil {
		slog.Error("create staff notification", "order_id", o.ID, "error", err)
	} else {
		h.reminders.Add(*n)
		if h.notifier != nil {
			h.notifier.NotifyNewOrder(*n, o)
		}
	}
	ev := realtime.Event{Type: realtime.EventNewOrder, OrderID: o.ID, Status: o.Status, At: time.Now()}
	if n != nil {
		ev.NotificationID = n.ID
	}
	if err := h.hub.Publish(ctx, realtime.StaffChannel, ev); err != nil {
		slog.Error("publish new order", "order_id", o.ID, "error", err)
	}
}

// ListCustomerOrders returns the customer's non-cancelled orders.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id_required", "")
		return
	}
	orders, err := services.ListCustomerOrders(r.Context(), customerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_orders_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// CancelOrder is the customer-initiated transition. Past the preparing
// cutoff it is refused with the same illegal-transition error staff get.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_order_id", "")
		return
	}
	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	existing, err := services.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order_not_found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "cancel_failed", err.Error())
		return
	}
	if existing.CustomerID != req.CustomerID {
		writeError(w, http.StatusForbidden, "not_your_order", "")
		return
	}

	o, err := services.TransitionOrder(r.Context(), orderID, models.EventCancel, models.ActorCustomer)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}
	h.publishLifecycle(r, o)
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error) {
	var illegal *services.IllegalTransitionError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "")
	case errors.As(err, &illegal):
		writeError(w, http.StatusConflict, "illegal_transition", illegal.Error())
	default:
		writeError(w, http.StatusInternalServerError, "transition_failed", err.Error())
	}
}

// publishLifecycle emits the one lifecycle event a successful transition
// owes, to the order's owner and to the staff broadcast group.
func (h *Handler) publishLifecycle(r *http.Request, o *models.Order) {
	ev := realtime.Event{Type: realtime.EventOrderStatus, OrderID: o.ID, Status: o.Status, At: time.Now()}
	ctx := r.Context()
	if err := h.hub.Publish(ctx, realtime.CustomerChannel(o.CustomerID), ev); err != nil {
		slog.Error("publish lifecycle event", "order_id", o.ID, "channel", "customer", "error", err)
	}
	if err := h.hub.Publish(ctx, realtime.StaffChannel, ev); err != nil {
		slog.Error("publish lifecycle event", "order_id", o.ID, "channel", "staff", "error", err)
	}
}

func mapSettings(s *models.Settings) settingsResponse {
	resp := settingsResponse{
		OrderWindow:        mapWindow(s.OrderWindow),
		MinimumOrderAmount: s.MinimumOrderAmount,
		DeliveryPoints:     make([]deliveryPointDTO, 0, len(s.DeliveryPoints)),
		AppVersion:         s.AppVersion,
	}
	for _, dp := range s.DeliveryPoints {
		d := deliveryPointDTO{ID: dp.ID, Name: dp.Name, Enabled: dp.Enabled}
		if dp.Window != nil {
			w := mapWindow(*dp.Window)
			d.Window = &w
		}
		resp.DeliveryPoints = append(resp.DeliveryPoints, d)
	}
	return resp
}

func mapWindow(w models.TimeWindow) windowDTO {
	return windowDTO{StartHour: w.StartHour, StartMinute: w.StartMinute, EndHour: w.EndHour, EndMinute: w.EndMinute}
}

func mapOrder(o *models.Order) orderResponse {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDTO{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Qty: it.Qty})
	}
	return orderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
		CouponCode:      o.CouponCode,
		DeliveryPointID: o.DeliveryPointID,
		Phone:           o.Phone,
		Note:            o.Note,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}

func mapOrders(orders []models.Order) []orderResponse {
	res := make([]orderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, mapOrder(&orders[i]))
	}
	return res
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
