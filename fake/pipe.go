// File: fake/pipe.go

package fake

import "github.com/chayleaf/nanomsg/reactor"

// Pipe is a test double for one connection endpoint: two armed event slots
// whose payload is the pipe itself.
type Pipe struct {
	Name string

	in  *reactor.EventSlot
	out *reactor.EventSlot
}

// NewPipe creates a pipe with freshly armed slots.
func NewPipe(name string) *Pipe {
	p := &Pipe{Name: name}
	p.in = reactor.NewEventSlot(p)
	p.out = reactor.NewEventSlot(p)
	return p
}

func (p *Pipe) InSlot() *reactor.EventSlot  { return p.in }
func (p *Pipe) OutSlot() *reactor.EventSlot { return p.out }
