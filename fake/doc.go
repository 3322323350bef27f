// File: fake/doc.go
//
// Package fake provides test doubles for the socket core: a scriptable
// pattern strategy and a pipe with armed event slots.
package fake
