// File: fake/pattern.go
//
// Scriptable pattern strategy for socket-core tests. Behaves like a minimal
// pair pattern: one readable/writable state, an inbox, an outbox. Knobs
// override hook results where a test needs a specific status, and an entry
// gauge checks that hooks are never run concurrently.

package fake

import (
	"sync"
	"sync/atomic"

	"github.com/chayleaf/nanomsg/api"
	"github.com/chayleaf/nanomsg/reactor"
)

// Pattern implements api.Pattern for tests.
type Pattern struct {
	mu sync.Mutex

	writable bool
	inbox    [][]byte
	sent     [][]byte

	opts      map[int][]byte
	supported map[int]bool

	// Forced hook results, all guarded by mu. sendErr/recvErr/addErr, when
	// set, win over state; inRet/outRet default to api.Progress.
	sendErr error
	recvErr error
	addErr  error
	inRet   int
	outRet  int

	// Call accounting.
	SendCalls   atomic.Int64
	RecvCalls   atomic.Int64
	SetOptCalls atomic.Int64
	GetOptCalls atomic.Int64
	InCalls     atomic.Int64
	OutCalls    atomic.Int64
	TermCalls   atomic.Int64

	added    []api.Pipe
	removed  []api.Pipe
	timeouts []*reactor.Timer

	// Hook entry gauge: depth must never exceed 1, because every hook runs
	// inside the socket's critical section.
	depth    atomic.Int32
	MaxDepth atomic.Int32
}

// NewPattern returns a pattern that is initially neither readable nor
// writable and supports no options.
func NewPattern() *Pattern {
	return &Pattern{
		opts:      make(map[int][]byte),
		supported: make(map[int]bool),
		inRet:     api.Progress,
		outRet:    api.Progress,
	}
}

// FailSends forces every Send attempt to return err (nil restores normal
// behavior).
func (p *Pattern) FailSends(err error) {
	p.mu.Lock()
	p.sendErr = err
	p.mu.Unlock()
}

// FailRecvs forces every Recv attempt to return err.
func (p *Pattern) FailRecvs(err error) {
	p.mu.Lock()
	p.recvErr = err
	p.mu.Unlock()
}

// RejectAdds makes Add reject every pipe with err.
func (p *Pattern) RejectAdds(err error) {
	p.mu.Lock()
	p.addErr = err
	p.mu.Unlock()
}

// SetInRet overrides the In hook's progress signal.
func (p *Pattern) SetInRet(rc int) {
	p.mu.Lock()
	p.inRet = rc
	p.mu.Unlock()
}

// SetOutRet overrides the Out hook's progress signal.
func (p *Pattern) SetOutRet(rc int) {
	p.mu.Lock()
	p.outRet = rc
	p.mu.Unlock()
}

func (p *Pattern) enter() {
	d := p.depth.Add(1)
	for {
		max := p.MaxDepth.Load()
		if d <= max || p.MaxDepth.CompareAndSwap(max, d) {
			break
		}
	}
}

func (p *Pattern) exit() { p.depth.Add(-1) }

// SupportOption registers opt as recognized by SetOption/GetOption.
func (p *Pattern) SupportOption(opt int) {
	p.mu.Lock()
	p.supported[opt] = true
	p.mu.Unlock()
}

// QueueInbound makes msg available for a later Recv attempt. It does not
// notify anything; tests drive NotifyIn themselves.
func (p *Pattern) QueueInbound(msg []byte) {
	p.mu.Lock()
	p.inbox = append(p.inbox, msg)
	p.mu.Unlock()
}

// SetWritable flips the send-side state directly, bypassing Out.
func (p *Pattern) SetWritable(w bool) {
	p.mu.Lock()
	p.writable = w
	p.mu.Unlock()
}

// Sent returns a copy of every message accepted by Send.
func (p *Pattern) Sent() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.sent))
	copy(out, p.sent)
	return out
}

// Added and Removed expose pipe bookkeeping for assertions.
func (p *Pattern) Added() []api.Pipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.Pipe(nil), p.added...)
}

func (p *Pattern) Removed() []api.Pipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.Pipe(nil), p.removed...)
}

// Timeouts returns every timer handle delivered to the Timeout hook.
func (p *Pattern) Timeouts() []*reactor.Timer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*reactor.Timer(nil), p.timeouts...)
}

func (p *Pattern) Term() {
	p.enter()
	defer p.exit()
	p.TermCalls.Add(1)
}

func (p *Pattern) SetOption(opt int, val []byte) error {
	p.enter()
	defer p.exit()
	p.SetOptCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supported[opt] {
		return api.ErrNotSupported
	}
	p.opts[opt] = append([]byte(nil), val...)
	return nil
}

func (p *Pattern) GetOption(opt int) ([]byte, error) {
	p.enter()
	defer p.exit()
	p.GetOptCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supported[opt] {
		return nil, api.ErrNotSupported
	}
	return p.opts[opt], nil
}

func (p *Pattern) Send(msg []byte) error {
	p.enter()
	defer p.exit()
	p.SendCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	if !p.writable {
		return api.ErrWouldBlock
	}
	p.sent = append(p.sent, append([]byte(nil), msg...))
	return nil
}

func (p *Pattern) Recv() ([]byte, error) {
	p.enter()
	defer p.exit()
	p.RecvCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recvErr != nil {
		return nil, p.recvErr
	}
	if len(p.inbox) == 0 {
		return nil, api.ErrWouldBlock
	}
	msg := p.inbox[0]
	p.inbox = p.inbox[1:]
	return msg, nil
}

func (p *Pattern) Add(pipe api.Pipe) error {
	p.enter()
	defer p.exit()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.addErr != nil {
		return p.addErr
	}
	p.added = append(p.added, pipe)
	return nil
}

func (p *Pattern) Rm(pipe api.Pipe) {
	p.enter()
	defer p.exit()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, pipe)
}

func (p *Pattern) In(pipe api.Pipe) int {
	p.enter()
	defer p.exit()
	p.InCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inRet
}

func (p *Pattern) Out(pipe api.Pipe) int {
	p.enter()
	defer p.exit()
	p.OutCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outRet == api.Progress {
		p.writable = true
	}
	return p.outRet
}

func (p *Pattern) Timeout(t *reactor.Timer) {
	p.enter()
	defer p.exit()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeouts = append(p.timeouts, t)
}
