// File: core/sock/sock.go

package sock

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chayleaf/nanomsg/api"
	"github.com/chayleaf/nanomsg/control"
	"github.com/chayleaf/nanomsg/reactor"
)

// Event kinds the socket posts into its reactor.
const (
	eventIn = iota + 1
	eventOut
)

// Flags modify a single Send or Recv call.
type Flags int

const (
	// DontWait makes the call return ErrWouldBlock instead of suspending
	// the caller.
	DontWait Flags = 1 << iota
)

// Socket is a messaging endpoint. It owns exactly one reactor and one
// condition variable, created together at construction and destroyed
// together at termination, and holds an immutable reference to the pattern
// strategy bound at construction.
//
// Send, Recv, SetOption and GetOption may be called concurrently from any
// number of goroutines. Add, Rm, NotifyIn and NotifyOut belong to the
// connection layer. No operation is valid once Term has been called.
type Socket struct {
	fd     int
	ptn    api.Pattern
	r      *reactor.Reactor
	cond   *sync.Cond
	stats  control.SocketStats
	termed atomic.Bool
}

// New creates a socket bound to ptn, identified by fd. The pattern's own
// initialization, if any, runs after New returns.
func New(ptn api.Pattern, fd int) (*Socket, error) {
	s := &Socket{fd: fd, ptn: ptn}
	r, err := reactor.New(s)
	if err != nil {
		return nil, err
	}
	s.r = r
	// The reactor is a sync.Locker over its monitor lock; binding the
	// condition variable to it gives waiters atomic unlock-wait-relock
	// against event dispatch.
	s.cond = sync.NewCond(r)
	control.DefaultProbes().RegisterProbe(s.probeName(), func() any {
		return s.stats.Snapshot()
	})
	return s, nil
}

func (s *Socket) probeName() string {
	return fmt.Sprintf("sock-%d", s.fd)
}

// Term shuts the socket down: event delivery stops, the pattern's terminate
// hook runs under the lock, then the reactor is destroyed. Callable exactly
// once; no operation on the socket is valid once it begins. The caller must
// ensure no Send or Recv is blocked on the socket at this point.
func (s *Socket) Term() {
	if !s.termed.CompareAndSwap(false, true) {
		panic("sock: socket terminated twice")
	}
	control.DefaultProbes().UnregisterProbe(s.probeName())
	s.r.Stop()
	s.r.Lock()
	s.ptn.Term()
	s.r.Unlock()
	if err := s.r.Close(); err != nil {
		panic(fmt.Sprintf("sock: reactor close failed: %v", err))
	}
}

// FD returns the socket's immutable endpoint identifier.
func (s *Socket) FD() int {
	return s.fd
}

// SetOption routes an option write. The socket scope delegates to the
// pattern; any other scope, or a pattern that does not recognize the option,
// yields ErrNotSupported.
func (s *Socket) SetOption(level api.OptionLevel, opt int, val []byte) error {
	s.r.Lock()
	if level == api.LevelSocket {
		err := s.ptn.SetOption(opt, val)
		if !errors.Is(err, api.ErrNotSupported) {
			s.r.Unlock()
			return err
		}
	}
	// TODO: route transport-scope options once transports expose any.
	s.r.Unlock()
	return api.ErrNotSupported
}

// GetOption routes an option read, with the same scope rules as SetOption.
func (s *Socket) GetOption(level api.OptionLevel, opt int) ([]byte, error) {
	s.r.Lock()
	if level == api.LevelSocket {
		val, err := s.ptn.GetOption(opt)
		if !errors.Is(err, api.ErrNotSupported) {
			s.r.Unlock()
			return val, err
		}
	}
	s.r.Unlock()
	return nil, api.ErrNotSupported
}

// Send hands msg to the pattern. With DontWait it returns ErrWouldBlock when
// no pipe can take the message; otherwise the caller is suspended until a
// progress signal lets the retry succeed or the pattern reports a hard
// error. Hard errors are returned unchanged, exactly once, with no retry.
func (s *Socket) Send(msg []byte, flags Flags) error {
	s.r.Lock()
	for {
		err := s.ptn.Send(msg)
		if err == nil {
			s.r.Unlock()
			return nil
		}
		if !errors.Is(err, api.ErrWouldBlock) {
			s.r.Unlock()
			return err
		}
		if flags&DontWait != 0 {
			s.r.Unlock()
			return api.ErrWouldBlock
		}
		s.stats.SendersBlocked.Add(1)
		s.cond.Wait()
		s.stats.SendersBlocked.Add(-1)
	}
}

// Recv asks the pattern for a complete message, blocking under the same
// rules as Send.
func (s *Socket) Recv(flags Flags) ([]byte, error) {
	s.r.Lock()
	for {
		msg, err := s.ptn.Recv()
		if err == nil {
			s.r.Unlock()
			return msg, nil
		}
		if !errors.Is(err, api.ErrWouldBlock) {
			s.r.Unlock()
			return nil, err
		}
		if flags&DontWait != 0 {
			s.r.Unlock()
			return nil, api.ErrWouldBlock
		}
		s.stats.ReceiversBlocked.Add(1)
		s.cond.Wait()
		s.stats.ReceiversBlocked.Add(-1)
	}
}

// Add attaches a pipe to the socket's pattern. The pattern may reject an
// incompatible pipe. On success the pipe's slots are armed, so a pipe
// detached earlier may be attached again. No other socket-level bookkeeping
// happens here; the connection layer must not race Add against event
// dispatch for the same pipe.
func (s *Socket) Add(p api.Pipe) error {
	if err := s.ptn.Add(p); err != nil {
		return err
	}
	p.InSlot().Arm()
	p.OutSlot().Arm()
	return nil
}

// Rm detaches a pipe. After Rm returns, no event tagged with the pipe's
// slots will reach the pattern again.
func (s *Socket) Rm(p api.Pipe) {
	s.ptn.Rm(p)
	p.InSlot().Disarm()
	p.OutSlot().Disarm()
}

// NotifyIn is called by the connection layer when p became readable. It only
// posts an event; the pattern hook runs later, in the socket's own
// processing context.
func (s *Socket) NotifyIn(p api.Pipe) {
	s.r.Post(eventIn, p.InSlot())
}

// NotifyOut is called by the connection layer when p became writable.
func (s *Socket) NotifyOut(p api.Pipe) {
	s.r.Post(eventOut, p.OutSlot())
}

// AddTimer schedules t through the socket's reactor on behalf of the
// pattern. Pass-through only.
func (s *Socket) AddTimer(d time.Duration, t *reactor.Timer) {
	s.r.AddTimer(d, t)
}

// RmTimer cancels a pattern timer.
func (s *Socket) RmTimer(t *reactor.Timer) {
	s.r.RmTimer(t)
}

// Stats exposes the socket's runtime counters.
func (s *Socket) Stats() *control.SocketStats {
	return &s.stats
}

// HandleEvent adapts reactor events into pattern hook calls. It runs under
// the socket lock. A hook returning api.Progress wakes every blocked caller
// for a retry; api.NoProgress wakes nobody. A negative return is a defect in
// the pattern and halts the process.
func (s *Socket) HandleEvent(kind int, slot *reactor.EventSlot) {
	p, ok := slot.Data().(api.Pipe)
	if !ok {
		panic(fmt.Sprintf("sock: event slot carries %T, not a pipe", slot.Data()))
	}
	var rc int
	switch kind {
	case eventIn:
		rc = s.ptn.In(p)
		s.stats.EventsIn.Add(1)
	case eventOut:
		rc = s.ptn.Out(p)
		s.stats.EventsOut.Add(1)
	default:
		panic(fmt.Sprintf("sock: unknown event kind %d", kind))
	}
	if rc < 0 {
		panic(fmt.Sprintf("sock: pattern readiness hook failed: %d", rc))
	}
	if rc == api.Progress {
		s.stats.Broadcasts.Add(1)
		s.cond.Broadcast()
	}
}

// HandleTimeout forwards an expired pattern timer. Timers never touch the
// condition variable; they are pattern-internal machinery.
func (s *Socket) HandleTimeout(t *reactor.Timer) {
	s.stats.TimeoutsFired.Add(1)
	s.ptn.Timeout(t)
}

// HandleIO would deliver raw I/O readiness. Sockets talk to pipes, never to
// byte streams, so reaching this is a defect in the layer below.
func (s *Socket) HandleIO(ev reactor.IOEvent) {
	panic(fmt.Sprintf("sock: unexpected raw io event for fd %d", ev.Fd))
}
