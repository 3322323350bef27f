// File: internal/efd/doc.go
//
// Package efd implements the blocking wakeup primitive the reactor dispatcher
// sleeps on between bursts of posted events. On Linux it is an eventfd(2)
// counter; elsewhere a self-pipe carries the signal.
package efd
