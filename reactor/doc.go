// File: reactor/doc.go
//
// Package reactor implements the per-socket event facility: a non-reentrant
// monitor lock, an unbounded queue of posted readiness events, single-shot
// timers, and one dispatcher goroutine that delivers everything to the
// owning handler under the lock.
package reactor
