// File: control/stats.go
//
// Lock-free runtime counters for one socket. Updated on the blocking
// send/recv path and in the event adapter, read by tests and debug probes.

package control

import "sync/atomic"

// SocketStats counts what a socket is doing right now and what it has done.
// The blocked gauges go up when a caller parks on the condition variable and
// down when it wakes; everything else is a monotonic counter.
type SocketStats struct {
	SendersBlocked   atomic.Int64
	ReceiversBlocked atomic.Int64
	EventsIn         atomic.Int64
	EventsOut        atomic.Int64
	Broadcasts       atomic.Int64
	TimeoutsFired    atomic.Int64
}

// Snapshot returns the current values keyed for debug output.
func (s *SocketStats) Snapshot() map[string]int64 {
	return map[string]int64{
		"senders_blocked":   s.SendersBlocked.Load(),
		"receivers_blocked": s.ReceiversBlocked.Load(),
		"events_in":         s.EventsIn.Load(),
		"events_out":        s.EventsOut.Load(),
		"broadcasts":        s.Broadcasts.Load(),
		"timeouts_fired":    s.TimeoutsFired.Load(),
	}
}
