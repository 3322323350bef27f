// File: api/errors.go
//
// Common error values shared between the socket core and pattern
// implementations.

package api

import "errors"

// Errors used across the library.
var (
	// ErrWouldBlock reports that an operation cannot complete right now and
	// should be retried once the peer state changes. It is the only status
	// the socket core ever retries; everything else is returned verbatim to
	// the caller.
	ErrWouldBlock = errors.New("operation would block")

	// ErrNotSupported reports that an option is not recognized at the probed
	// scope. Callers use it to probe multiple option scopes in turn.
	ErrNotSupported = errors.New("option not supported")
)
