//go:build !linux
// +build !linux

// File: internal/efd/efd_other.go
//
// Portable self-pipe signaler. A pending flag keeps at most one byte in
// flight so Signal never blocks on a full pipe buffer.

package efd

import (
	"os"
	"sync/atomic"
)

// Signaler wakes a single waiter from any number of signaling contexts.
type Signaler struct {
	r, w    *os.File
	pending atomic.Bool
}

// New creates a ready-to-use signaler.
func New() (*Signaler, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Signaler{r: r, w: w}, nil
}

// Signal wakes the waiter. Coalesces with signals not yet consumed.
func (s *Signaler) Signal() {
	if s.pending.CompareAndSwap(false, true) {
		s.w.Write([]byte{1})
	}
}

// Wait blocks until at least one Signal happened since the last Wait. The
// pending flag is cleared before Wait returns, so anything posted afterwards
// produces a fresh wakeup. Returns an error once the signaler is closed.
func (s *Signaler) Wait() error {
	var buf [1]byte
	_, err := s.r.Read(buf[:])
	s.pending.Store(false)
	return err
}

// Close releases both pipe ends. Must not race a Wait in progress.
func (s *Signaler) Close() error {
	err := s.w.Close()
	if e := s.r.Close(); err == nil {
		err = e
	}
	return err
}
