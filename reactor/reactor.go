// File: reactor/reactor.go
//
// Reactor delivers posted events and timer expirations to a single Handler,
// always under the reactor's own lock. Posting is safe from any context,
// including from inside a handler hook.

package reactor

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/chayleaf/nanomsg/internal/efd"
)

// IOEvent describes a raw readiness notification on an OS handle. Raw I/O is
// handled below the socket layer; the type exists so the Handler vtable is
// complete for layers that do consume it.
type IOEvent struct {
	Fd       uintptr
	UserData uintptr
}

// Handler receives everything the dispatcher delivers. All three methods are
// invoked with the reactor lock held.
type Handler interface {
	// HandleEvent delivers a posted event for an armed slot.
	HandleEvent(kind int, slot *EventSlot)

	// HandleTimeout delivers an expired timer.
	HandleTimeout(t *Timer)

	// HandleIO delivers a raw I/O notification. This reactor never
	// generates these.
	HandleIO(ev IOEvent)
}

// pending is one queued delivery: either a slot event or a timer expiration.
type pending struct {
	kind  int
	slot  *EventSlot
	timer *Timer
}

// Reactor is the per-socket event facility. Its Lock/Unlock methods expose
// the monitor lock (it is a sync.Locker, so a sync.Cond can bind to it);
// the dispatcher goroutine takes the same lock around every delivery, which
// makes {application call, event dispatch} mutually exclusive.
type Reactor struct {
	mu      sync.Mutex
	handler Handler

	qmu  sync.Mutex
	pend *queue.Queue

	sig     *efd.Signaler
	stopped atomic.Bool
	closing atomic.Bool
	done    chan struct{}
}

// New creates a reactor bound to h and starts its dispatcher.
func New(h Handler) (*Reactor, error) {
	sig, err := efd.New()
	if err != nil {
		return nil, err
	}
	r := &Reactor{
		handler: h,
		pend:    queue.New(),
		sig:     sig,
		done:    make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Lock acquires the monitor lock. Not reentrant.
func (r *Reactor) Lock() { r.mu.Lock() }

// Unlock releases the monitor lock.
func (r *Reactor) Unlock() { r.mu.Unlock() }

// Post queues an event tagged kind for slot. Events for disarmed slots are
// dropped silently. Post never blocks and never takes the monitor lock, so
// it is safe to call while holding it.
func (r *Reactor) Post(kind int, slot *EventSlot) {
	if !slot.Armed() {
		return
	}
	r.push(pending{kind: kind, slot: slot})
}

func (r *Reactor) push(p pending) {
	if r.stopped.Load() {
		return
	}
	r.qmu.Lock()
	r.pend.Add(p)
	r.qmu.Unlock()
	r.sig.Signal()
}

func (r *Reactor) pop() (pending, bool) {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	if r.pend.Length() == 0 {
		return pending{}, false
	}
	return r.pend.Remove().(pending), true
}

func (r *Reactor) run() {
	defer close(r.done)
	for {
		if r.sig.Wait() != nil {
			return
		}
		if r.closing.Load() {
			return
		}
		for {
			p, ok := r.pop()
			if !ok {
				break
			}
			if r.stopped.Load() {
				continue
			}
			r.deliver(p)
		}
	}
}

func (r *Reactor) deliver(p pending) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-checked under the lock: Stop may have won the lock while this
	// delivery was parked on it, and nothing may dispatch after that.
	if r.stopped.Load() {
		return
	}
	switch {
	case p.timer != nil:
		r.handler.HandleTimeout(p.timer)
	case p.slot.Armed():
		// Re-checked under the lock: the slot may have been disarmed
		// after the event was queued.
		r.handler.HandleEvent(p.kind, p.slot)
	}
}

// Stop halts delivery of everything still queued or posted later. A delivery
// already in flight finishes; acquiring the monitor lock after Stop therefore
// serializes the caller against the last one.
func (r *Reactor) Stop() {
	r.stopped.Store(true)
}

// Close stops the dispatcher goroutine and releases the wakeup primitive.
// Delivery must already be stopped or quiescent.
func (r *Reactor) Close() error {
	r.stopped.Store(true)
	r.closing.Store(true)
	r.sig.Signal()
	<-r.done
	return r.sig.Close()
}
