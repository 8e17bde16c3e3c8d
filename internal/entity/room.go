package entity

import "time"

const (
	// PhaseForming - one player is in the room, waiting for a second.
	PhaseForming Phase = "forming"
	// PhaseReady - two players are present but the game has not started.
	PhaseReady Phase = "ready"
	// PhaseInProgress - moves are being accepted.
	PhaseInProgress Phase = "in_progress"
	// PhaseFinished - the game ended; the room lingers until it is closed.
	PhaseFinished Phase = "finished"
	// PhaseClosed - terminal, the room is gone from the registry.
	PhaseClosed Phase = "closed"
)

// Phase is a room's position in its lifecycle.
type Phase string

// RoomSnapshot is a read-only view of a room, safe to serialize after the
// room's lock has been released.
type RoomSnapshot struct {
	ID          string    `json:"id"`
	Phase       Phase     `json:"phase"`
	Players     []Player  `json:"players"`
	CurrentTurn Symbol    `json:"current_turn,omitempty"`
	MoveCount   int       `json:"move_count"`
	CreatedAt   time.Time `json:"created_at"`
}
