package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

var roomIDSpace = big.NewInt(100_000_000)

// GenerateRoomID - returns an 8-digit room code, short enough to share as a
// join code. Uniqueness is enforced by the room registry, not here.
func GenerateRoomID() string {
	n, err := rand.Int(rand.Reader, roomIDSpace)
	if err != nil {
		panic(fmt.Sprintf("failed to read random source: %v", err))
	}

	return fmt.Sprintf("%08d", n)
}

// NewConnectionID - returns the opaque identifier assigned to a websocket
// connection. Player IDs are derived from it.
func NewConnectionID() string {
	return uuid.NewString()
}
