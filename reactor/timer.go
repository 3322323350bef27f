// File: reactor/timer.go

package reactor

import (
	"sync/atomic"
	"time"
)

// Timer is a caller-owned token for one scheduled timeout. It fires at most
// once per AddTimer registration, through the reactor dispatcher, unless
// removed first. The zero value is ready to use and a fired or removed timer
// may be registered again.
type Timer struct {
	armed atomic.Bool
	fire  *time.Timer
}

// AddTimer schedules t to fire after d. Registering an already armed timer
// is a programming error.
func (r *Reactor) AddTimer(d time.Duration, t *Timer) {
	if !t.armed.CompareAndSwap(false, true) {
		panic("reactor: timer registered twice")
	}
	t.fire = time.AfterFunc(d, func() {
		// The CAS loses against a concurrent RmTimer, never double-fires.
		if t.armed.CompareAndSwap(true, false) {
			r.push(pending{timer: t})
		}
	})
}

// RmTimer cancels t. A timer that already fired stays fired; the call is
// then a no-op.
func (r *Reactor) RmTimer(t *Timer) {
	if t.armed.CompareAndSwap(true, false) {
		t.fire.Stop()
	}
}
