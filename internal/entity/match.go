package entity

import "time"

const (
	// ReasonWin - a move completed a run of five or more.
	ReasonWin = "win"
	// ReasonDraw - the 225th move filled the board with no winner.
	ReasonDraw = "draw"
	// ReasonForfeit - an opponent left or disconnected mid-game.
	ReasonForfeit = "forfeit"
)

// MatchRecord is the archived summary of a finished game.
type MatchRecord struct {
	RoomID     string    `json:"room_id"`
	Players    []Player  `json:"players"`
	Winner     Symbol    `json:"winner,omitempty"`
	Reason     string    `json:"reason"`
	MoveCount  int       `json:"move_count"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
