package testutil

import "sync"

// NotifyCounter counts store change notifications.
//
// It can be reset for test reuse, so the same scenario can run multiple
// times with identical counts.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type NotifyCounter struct {
	mu sync.Mutex
	n  int
}

// NewNotifyCounter creates a counter starting at 0.
func NewNotifyCounter() *NotifyCounter {
	return &NotifyCounter{}
}

// Func returns a callback suitable for Store.Subscribe.
func (c *NotifyCounter) Func() func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.n++
	}
}

// Count returns the number of notifications observed so far.
func (c *NotifyCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset returns the counter to 0.
func (c *NotifyCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
