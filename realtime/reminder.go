package realtime

import (
	"sync"
	"time"

	"grocery-engine/models"
)

// Notifier re-signals one still-pending staff notification. It runs with
// the loop's lock held, so it must not call back into the loop.
type Notifier func(n models.StaffNotification)

type reminder struct {
	n      models.StaffNotification
	ticker *time.Ticker
	stop   chan struct{}
}

// ReminderLoop keeps one repeating timer per unacknowledged staff
// notification. Ack stops and removes the timer under the same lock the
// timers fire under, so a reminder can never land after its acknowledgment.
type ReminderLoop struct {
	interval time.Duration
	notify   Notifier

	mu      sync.Mutex
	pending map[string]*reminder
}

func NewReminderLoop(interval time.Duration, notify Notifier) *ReminderLoop {
	return &ReminderLoop{
		interval: interval,
		notify:   notify,
		pending:  make(map[string]*reminder),
	}
}

// Add arms a reminder for the notification. Adding an id twice is a no-op.
func (l *ReminderLoop) Add(n models.StaffNotification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[n.ID]; ok {
		return
	}
	r := &reminder{n: n, ticker: time.NewTicker(l.interval), stop: make(chan struct{})}
	l.pending[n.ID] = r
	go l.run(r)
}

func (l *ReminderLoop) run(r *reminder) {
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C:
			l.fire(r)
		}
	}
}

func (l *ReminderLoop) fire(r *reminder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// A tick already in flight when Ack ran must not re-signal.
	if _, ok := l.pending[r.n.ID]; !ok {
		return
	}
	l.notify(r.n)
}

// Ack cancels the reminder for one notification id, leaving the others
// running. Returns false when no reminder was pending for the id.
func (l *ReminderLoop) Ack(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.pending[id]
	if !ok {
		return false
	}
	r.ticker.Stop()
	close(r.stop)
	delete(l.pending, id)
	return true
}

// PendingCount reports how many notifications still have a live reminder.
func (l *ReminderLoop) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Shutdown cancels every reminder.
func (l *ReminderLoop) Shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, r := range l.pending {
		r.ticker.Stop()
		close(r.stop)
		delete(l.pending, id)
	}
}
