package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Counter tracks the number of in-flight background jobs per user and
// broadcasts every change as a processing_count_update event. It lives only
// in process memory: it drives a UI indicator, not a correctness-critical
// ledger, so it does not survive restarts.
type Counter struct {
	mu       sync.Mutex
	counts   map[uuid.UUID]int
	notifier *Notifier
}

// NewCounter creates a counter that publishes changes through the notifier.
func NewCounter(notifier *Notifier) *Counter {
	return &Counter{
		counts:   make(map[uuid.UUID]int),
		notifier: notifier,
	}
}

// Increment adds one in-flight job for the user and publishes the new count.
// The mutation and the read-for-publish are a single atomic unit so that
// concurrent pipelines cannot interleave stale counts.
func (c *Counter) Increment(userID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[userID]++
	count := c.counts[userID]
	c.publishLocked(userID, count)
	return count
}

// Decrement removes one in-flight job for the user and publishes the new
// count. The count is clamped at zero: a defensive double-decrement must
// never leave the UI showing a negative number.
func (c *Counter) Decrement(userID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := c.counts[userID] - 1
	if count <= 0 {
		count = 0
		delete(c.counts, userID)
	} else {
		c.counts[userID] = count
	}
	c.publishLocked(userID, count)
	return count
}

// Count returns the current in-flight count for the user.
func (c *Counter) Count(userID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[userID]
}

// publishLocked publishes under c.mu so count events are emitted in the same
// order the mutations happened. Publish itself never blocks, so holding the
// mutex across it is safe.
func (c *Counter) publishLocked(userID uuid.UUID, count int) {
	c.notifier.Publish(userID, Event{
		Kind:    EventProcessingCount,
		Payload: ProcessingCountPayload{Count: count},
	})
}
