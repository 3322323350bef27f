// File: api/pattern.go
//
// Pattern is the strategy vtable behind every socket. A concrete pattern
// (pair, pub/sub, req/rep, ...) implements message-exchange semantics; the
// socket core supplies locking, blocking calls and event plumbing.

package api

import "github.com/chayleaf/nanomsg/reactor"

// Progress-signal values returned by the In and Out hooks.
const (
	// NoProgress means the readiness transition changed nothing a blocked
	// caller could observe. No wakeup is issued.
	NoProgress = 0

	// Progress means a blocked receiver (In) or sender (Out) may now make
	// progress; the socket core broadcasts to its waiters.
	Progress = 1
)

// Pattern implements the per-socket-type operations. It is bound to a socket
// once at construction and never swapped afterwards.
//
// Every hook is invoked with the socket lock held, so implementations need no
// locking of their own against other hooks. Hooks must not call back into the
// owning socket's blocking operations.
type Pattern interface {
	// Term releases every pipe and timer handle the pattern still holds.
	// It runs exactly once, before the socket's reactor is torn down.
	Term()

	// SetOption and GetOption handle pattern-scope options. An unrecognized
	// option yields ErrNotSupported so the caller can probe further scopes.
	SetOption(opt int, val []byte) error
	GetOption(opt int) ([]byte, error)

	// Send makes a single non-blocking attempt to accept msg for delivery.
	// ErrWouldBlock means no pipe can take the message right now; any other
	// error is surfaced to the application unchanged.
	Send(msg []byte) error

	// Recv makes a single non-blocking attempt to produce a complete message.
	// ErrWouldBlock means nothing is available right now.
	Recv() ([]byte, error)

	// Add attaches a newly established pipe. The pattern may reject an
	// incompatible pipe with an error.
	Add(p Pipe) error

	// Rm detaches a pipe about to be destroyed by the connection layer.
	Rm(p Pipe)

	// In is called when p became readable. It returns NoProgress or
	// Progress; a negative value signals a defect in the pattern and halts
	// the process. Recoverable remote failures must be translated before
	// this boundary.
	In(p Pipe) int

	// Out is symmetric to In, for writability.
	Out(p Pipe) int

	// Timeout fires for a timer the pattern registered via the socket's
	// timer pass-through. Timers are pattern-internal machinery; the hook
	// never interacts with blocked callers.
	Timeout(t *reactor.Timer)
}
