package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP router for the engine.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Customer-facing
	r.Get("/settings", h.GetSettings)
	r.Get("/order-admission", h.OrderAdmission)
	r.Post("/price", h.PriceCart)
	r.Get("/flash-sales", h.ListFlashSales)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders", h.ListCustomerOrders)
	r.Post("/orders/{id}/cancel", h.CancelOrder)
	r.Get("/events", h.CustomerEvents)

	// Staff
	r.Route("/staff", func(r chi.Router) {
		r.Use(h.StaffAuth)
		r.Get("/orders", h.ListActiveOrders)
		r.Post("/orders/{id}/advance", h.AdvanceOrder)
		r.Post("/notifications/{id}/ack", h.AckNotification)
		r.Post("/flash-sales", h.CreateFlashSale)
		r.Delete("/flash-sales/{id}", h.DeleteFlashSale)
		r.Post("/coupons", h.CreateCoupon)
		r.Put("/settings", h.UpdateSettings)
		r.Put("/delivery-points/{id}", h.UpdateDeliveryPoint)
		r.Get("/events", h.StaffEvents)
	})

	return r
}
