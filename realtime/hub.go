package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types carried on the realtime channels.
const (
	EventOrderStatus = "order_status"
	EventNewOrder    = "new_order"
	EventReminder    = "reminder"
)

// Event is one realtime message. Delivery is best-effort: a disconnected
// subscriber misses events and must reconcile with a full re-fetch, never
// a replay.
type Event struct {
	Type           string    `json:"type"`
	OrderID        int64     `json:"order_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	NotificationID string    `json:"notification_id,omitempty"`
	At             time.Time `json:"at"`
}

// StaffChannel is the broadcast group every staff subscriber listens on.
const StaffChannel = "orders:staff"

// CustomerChannel is the per-customer channel name.
func CustomerChannel(customerID string) string {
	return "orders:customer:" + customerID
}

// Hub fans events out over Redis pub/sub. Each SSE connection holds one
// subscription; publishing never blocks on slow subscribers.
type Hub struct {
	rdb *redis.Client
}

func NewHub(addr string) *Hub {
	return &Hub{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (h *Hub) Close() error {
	return h.rdb.Close()
}

// Publish sends the event to everyone currently subscribed to the channel.
func (h *Hub) Publish(ctx context.Context, channel string, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, channel, b).Err()
}

// Subscribe returns a stream of events for the channel and a cancel func
// that must be called when the subscriber goes away. Events for a slow
// subscriber are dropped rather than queued without bound.
func (h *Hub) Subscribe(ctx context.Context, channel string) (<-chan Event, func()) {
	sub := h.rdb.Subscribe(ctx, channel)
	out := make(chan Event, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Warn("drop malformed realtime event", "channel", channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel
}
