package apperror

import "errors"

// Validation errors: the request itself is malformed and no state was
// consulted to reject it.
var (
	ErrEmptyUsername   = errors.New("username is empty")
	ErrUsernameTooLong = errors.New("username is too long")
	ErrOutOfBounds     = errors.New("move is out of bounds")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownAction   = errors.New("unknown action")
)

// State errors: the request was well-formed but arrived in the wrong
// lifecycle state.
var (
	ErrNoSession      = errors.New("no active player session")
	ErrNoActiveRoom   = errors.New("no active room")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted = errors.New("game is not started")
	ErrGameFinished   = errors.New("game is already finished")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrAlreadyQueued  = errors.New("player is already waiting for a match")
	ErrAlreadyInRoom  = errors.New("player is already in a room")
	ErrNoOpponent     = errors.New("no opponent in the room")
)

const (
	KindValidation = "validation"
	KindState      = "state"
)

var validationErrors = []error{
	ErrEmptyUsername,
	ErrUsernameTooLong,
	ErrOutOfBounds,
	ErrCellOccupied,
	ErrEmptyMessage,
	ErrInvalidPayload,
	ErrUnknownAction,
}

// KindOf classifies a sentinel so transports can tag error responses.
// Unknown errors are reported as state errors.
func KindOf(err error) string {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return KindValidation
		}
	}
	return KindState
}
