// File: control/doc.go
//
// Package control carries the in-process observability surface of the
// library: per-socket runtime counters and a named debug-probe registry an
// embedding layer can dump for inspection.
package control
