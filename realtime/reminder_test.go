package realtime

import (
	"sync"
	"testing"
	"time"

	"grocery-engine/models"
)

type countingNotifier struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{counts: make(map[string]int)}
}

func (c *countingNotifier) notify(n models.StaffNotification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[n.ID]++
}

func (c *countingNotifier) count(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id]
}

func TestReminderLoopFiresUntilAck(t *testing.T) {
	c := newCountingNotifier()
	loop := NewReminderLoop(10*time.Millisecond, c.notify)
	defer loop.Shutdown()

	loop.Add(models.StaffNotification{ID: "n1", OrderID: 1})

	deadline := time.Now().Add(time.Second)
	for c.count("n1") < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.count("n1") < 2 {
		t.Fatal("reminder never re-fired")
	}

	if !loop.Ack("n1") {
		t.Fatal("Ack returned false for pending reminder")
	}
	after := c.count("n1")
	time.Sleep(50 * time.Millisecond)
	if got := c.count("n1"); got != after {
		t.Errorf("reminder fired after ack: %d -> %d", after, got)
	}
	if loop.PendingCount() != 0 {
		t.Errorf("pending = %d, want 0", loop.PendingCount())
	}
}

func TestReminderLoopAckIsPerNotification(t *testing.T) {
	c := newCountingNotifier()
	loop := NewReminderLoop(10*time.Millisecond, c.notify)
	defer loop.Shutdown()

	loop.Add(models.StaffNotification{ID: "a", OrderID: 1})
	loop.Add(models.StaffNotification{ID: "b", OrderID: 2})

	loop.Ack("a")

	deadline := time.Now().Add(time.Second)
	for c.count("b") < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.count("b") < 1 {
		t.Fatal("acking one notification silenced another")
	}
	if loop.PendingCount() != 1 {
		t.Errorf("pending = %d, want 1", loop.PendingCount())
	}
}

func TestReminderLoopAckUnknown(t *testing.T) {
	loop := NewReminderLoop(time.Minute, func(models.StaffNotification) {})
	defer loop.Shutdown()
	if loop.Ack("missing") {
		t.Error("Ack of unknown id returned true")
	}
}

func TestReminderLoopDuplicateAdd(t *testing.T) {
	c := newCountingNotifier()
	loop := NewReminderLoop(10*time.Millisecond, c.notify)
	defer loop.Shutdown()

	n := models.StaffNotification{ID: "dup", OrderID: 7}
	loop.Add(n)
	loop.Add(n)
	if loop.PendingCount() != 1 {
		t.Errorf("pending = %d, want 1 after duplicate add", loop.PendingCount())
	}
}
