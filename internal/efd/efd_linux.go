//go:build linux
// +build linux

// File: internal/efd/efd_linux.go
//
// eventfd(2)-backed signaler. The kernel counter coalesces any number of
// Signal calls into a single wakeup, which is exactly the semantics the
// dispatcher wants: one wakeup, then drain everything pending.

package efd

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// Signaler wakes a single waiter from any number of signaling contexts.
type Signaler struct {
	fd int
}

// New creates a ready-to-use signaler.
func New() (*Signaler, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Signaler{fd: fd}, nil
}

// Signal wakes the waiter. Never blocks in practice: the counter would have
// to reach 2^64-1 first.
func (s *Signaler) Signal() {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(s.fd, buf[:])
		if err != unix.EINTR {
			return
		}
	}
}

// Wait blocks until at least one Signal happened since the last Wait, then
// consumes all of them. Returns an error once the signaler is closed.
func (s *Signaler) Wait() error {
	var buf [8]byte
	for {
		_, err := unix.Read(s.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

// Close releases the eventfd. Must not race a Wait in progress.
func (s *Signaler) Close() error {
	return unix.Close(s.fd)
}
