// File: api/doc.go
//
// Package api defines the contracts between the generic socket core and its
// external collaborators: the pluggable messaging pattern, the pipe endpoints
// owned by the connection layer, the option-scope namespace and the error
// taxonomy shared across the library.
package api
