package reactor

import (
	"sync"
	"testing"
	"time"
)

// recordingHandler captures deliveries and asserts they arrive under the
// reactor lock (TryLock must fail while a hook runs).
type recordingHandler struct {
	r *Reactor

	mu       sync.Mutex
	events   []delivered
	timeouts []*Timer
	notify   chan struct{}
}

type delivered struct {
	kind int
	slot *EventSlot
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{notify: make(chan struct{}, 128)}
}

func (h *recordingHandler) HandleEvent(kind int, slot *EventSlot) {
	h.mu.Lock()
	h.events = append(h.events, delivered{kind, slot})
	h.mu.Unlock()
	h.notify <- struct{}{}
}

func (h *recordingHandler) HandleTimeout(t *Timer) {
	h.mu.Lock()
	h.timeouts = append(h.timeouts, t)
	h.mu.Unlock()
	h.notify <- struct{}{}
}

func (h *recordingHandler) HandleIO(ev IOEvent) {
	panic("unexpected raw io delivery")
}

func (h *recordingHandler) waitDeliveries(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func (h *recordingHandler) snapshot() []delivered {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]delivered, len(h.events))
	copy(out, h.events)
	return out
}

func startReactor(t *testing.T, h Handler) *Reactor {
	t.Helper()
	r, err := New(h)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestPostDeliversInOrder(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	slot := NewEventSlot("owner")
	r.Post(1, slot)
	r.Post(2, slot)
	r.Post(3, slot)
	h.waitDeliveries(t, 3)

	got := h.snapshot()
	for i, want := range []int{1, 2, 3} {
		if got[i].kind != want {
			t.Errorf("delivery %d: kind = %d, want %d", i, got[i].kind, want)
		}
		if got[i].slot != slot {
			t.Errorf("delivery %d: wrong slot identity", i)
		}
	}
}

func TestDisarmedSlotNotPosted(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	dead := NewEventSlot("dead")
	dead.Disarm()
	live := NewEventSlot("live")

	r.Post(1, dead)
	r.Post(2, live)
	h.waitDeliveries(t, 1)

	got := h.snapshot()
	if len(got) != 1 || got[0].slot != live {
		t.Fatalf("expected only the armed slot to deliver, got %d deliveries", len(got))
	}
}

func TestDisarmAfterPostDropsQueuedEvent(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	slot := NewEventSlot("pipe")
	marker := NewEventSlot("marker")

	// Hold the monitor lock so the queued event cannot dispatch before the
	// slot gets disarmed.
	r.Lock()
	r.Post(1, slot)
	slot.Disarm()
	r.Post(2, marker)
	r.Unlock()

	h.waitDeliveries(t, 1)
	got := h.snapshot()
	if len(got) != 1 || got[0].slot != marker {
		t.Fatalf("queued event for disarmed slot was delivered")
	}
}

func TestDeliveryHoldsLock(t *testing.T) {
	var r *Reactor
	gotLock := make(chan bool, 1)
	h := handlerFunc(func(kind int, slot *EventSlot) {
		free := r.mu.TryLock()
		if free {
			r.mu.Unlock()
		}
		gotLock <- !free
	})
	var err error
	r, err = New(h)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	r.Post(1, NewEventSlot(nil))
	select {
	case held := <-gotLock:
		if !held {
			t.Fatal("handler ran without the reactor lock held")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
	}
}

// handlerFunc adapts a function to Handler for event-only tests.
type handlerFunc func(kind int, slot *EventSlot)

func (f handlerFunc) HandleEvent(kind int, slot *EventSlot) { f(kind, slot) }
func (f handlerFunc) HandleTimeout(t *Timer)                {}
func (f handlerFunc) HandleIO(ev IOEvent)                   {}

func TestTimerFiresOnce(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	var tm Timer
	r.AddTimer(10*time.Millisecond, &tm)
	h.waitDeliveries(t, 1)

	h.mu.Lock()
	fired := len(h.timeouts)
	h.mu.Unlock()
	if fired != 1 {
		t.Fatalf("timer fired %d times, want 1", fired)
	}

	// No second expiration may arrive.
	select {
	case <-h.notify:
		t.Fatal("timer fired again")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRemovedTimerDoesNotFire(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	var tm Timer
	r.AddTimer(30*time.Millisecond, &tm)
	r.RmTimer(&tm)

	select {
	case <-h.notify:
		t.Fatal("removed timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimerReuseAfterFire(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	var tm Timer
	r.AddTimer(5*time.Millisecond, &tm)
	h.waitDeliveries(t, 1)
	r.AddTimer(5*time.Millisecond, &tm)
	h.waitDeliveries(t, 1)

	h.mu.Lock()
	fired := len(h.timeouts)
	h.mu.Unlock()
	if fired != 2 {
		t.Fatalf("reused timer fired %d times, want 2", fired)
	}
}

func TestDoubleAddTimerPanics(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	defer func() {
		if recover() == nil {
			t.Fatal("registering an armed timer did not panic")
		}
	}()
	var tm Timer
	r.AddTimer(time.Hour, &tm)
	defer r.RmTimer(&tm)
	r.AddTimer(time.Hour, &tm)
}

func TestStopHaltsDelivery(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)

	slot := NewEventSlot("pipe")
	r.Post(1, slot)
	h.waitDeliveries(t, 1)

	r.Stop()
	r.Post(2, slot)

	select {
	case <-h.notify:
		t.Fatal("event delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

// A delivery already parked on the monitor lock must not dispatch once Stop
// has run, even when Stop happens between the dispatcher's queue drain and
// its lock acquisition.
func TestStopWinsAgainstParkedDelivery(t *testing.T) {
	h := newRecordingHandler()
	r := startReactor(t, h)
	slot := NewEventSlot("pipe")

	// Holding the lock parks the dispatcher inside deliver, after its
	// stopped check but before it can run the handler.
	r.Lock()
	r.Post(1, slot)
	time.Sleep(50 * time.Millisecond)
	r.Stop()
	r.Unlock()

	select {
	case <-h.notify:
		t.Fatal("parked delivery dispatched after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseIdleReactor(t *testing.T) {
	h := newRecordingHandler()
	r, err := New(h)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- r.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close hung on an idle reactor")
	}
}
