package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grocery-engine/realtime"
)

// CustomerEvents streams the customer's lifecycle events over SSE. A client
// that reconnects after a gap must reconcile with GET /orders; there is no
// replay.
func (h *Handler) CustomerEvents(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id_required", "")
		return
	}
	h.streamEvents(w, r, realtime.CustomerChannel(customerID))
}

// StaffEvents streams the staff broadcast group.
func (h *Handler) StaffEvents(w http.ResponseWriter, r *http.Request) {
	h.streamEvents(w, r, realtime.StaffChannel)
}

func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request, channel string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe(r.Context(), channel)
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
