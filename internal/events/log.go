// Package events implements the bounded lifecycle event log.
package events

import (
	"sync"
	"time"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// DefaultCapacity is the number of events retained before the oldest are
// evicted.
const DefaultCapacity = 1000

// Log is an append-only, bounded history of lifecycle actions. Appending
// and trimming happen under one lock so the log never observably exceeds
// its capacity.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []v1.Event
}

// NewLog creates an event log holding at most capacity entries. A capacity
// of zero or less falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Record appends an event for the given action, stamping it with the
// current time. The oldest entries are dropped once capacity is exceeded.
func (l *Log) Record(namespace, kind, name string, action v1.EventAction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, v1.Event{
		Timestamp: time.Now().UTC(),
		Namespace: namespace,
		Kind:      kind,
		Name:      name,
		Action:    action,
	})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// List returns a copy of the retained events in insertion order.
func (l *Log) List() []v1.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]v1.Event, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset discards all retained events.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
