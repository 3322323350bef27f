// File: api/option.go
//
// Option-scope namespace shared by the socket core and outer API layers.

package api

// OptionLevel selects the scope an option belongs to.
type OptionLevel int

const (
	// LevelSocket routes the option to the socket's pattern strategy.
	LevelSocket OptionLevel = iota

	// LevelTransport is reserved for transport-specific options. Routing for
	// this scope is not implemented yet; the core answers ErrNotSupported.
	LevelTransport
)

func (l OptionLevel) String() string {
	switch l {
	case LevelSocket:
		return "socket"
	case LevelTransport:
		return "transport"
	default:
		return "unknown"
	}
}
