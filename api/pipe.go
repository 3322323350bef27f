// File: api/pipe.go
//
// Pipe is one peer connection, owned by the connection/transport layer and
// only referenced by sockets.

package api

import "github.com/chayleaf/nanomsg/reactor"

// Pipe exposes the two stable event slots the socket core uses to correlate
// posted readiness events back to their origin. Both slots carry the pipe
// itself as their payload, so the event adapter recovers the pipe without any
// enclosing-struct arithmetic.
//
// The connection layer must detach a pipe from its socket (Rm) before
// destroying it; the core does not detect violations of that ordering.
type Pipe interface {
	// InSlot identifies "pipe became readable" events.
	InSlot() *reactor.EventSlot

	// OutSlot identifies "pipe became writable" events.
	OutSlot() *reactor.EventSlot
}
