// File: reactor/event.go

package reactor

import "sync/atomic"

// EventSlot is a stable identity token for one readiness source. An owner
// (typically a pipe) creates one slot per direction and keeps it for its
// whole lifetime; posted events carry the slot, and the payload carries an
// explicit back-reference to the owner.
//
// Disarming a slot makes it invisible: events already queued for it are
// dropped at dispatch, and later posts are ignored. This is how a socket
// guarantees that a removed pipe is never heard from again.
type EventSlot struct {
	data  any
	armed atomic.Bool
}

// NewEventSlot returns an armed slot carrying data as its back-reference.
func NewEventSlot(data any) *EventSlot {
	s := &EventSlot{data: data}
	s.armed.Store(true)
	return s
}

// Data returns the owner back-reference supplied at construction.
func (s *EventSlot) Data() any { return s.data }

// Armed reports whether events for this slot are deliverable.
func (s *EventSlot) Armed() bool { return s.armed.Load() }

// Arm re-enables delivery for this slot.
func (s *EventSlot) Arm() { s.armed.Store(true) }

// Disarm suppresses all current and future events for this slot.
func (s *EventSlot) Disarm() { s.armed.Store(false) }
