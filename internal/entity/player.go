package entity

// MaxUsernameLen caps the announced username length, counted in runes.
const MaxUsernameLen = 24

// Player is one participant in the matchmaking queue or a room. Its ID is
// the opaque identifier of the connection it arrived on.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol Symbol `json:"symbol,omitempty"`
	Ready  bool   `json:"ready,omitempty"`
}
