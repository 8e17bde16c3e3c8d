package websocket

import (
	"encoding/json"
	"time"
)

// Message represents a WebSocket message with an action type and a payload.
// The same envelope is used in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound actions owned by the transport; game events come from the
// usecase package.
const (
	actionError = "error"
	actionPong  = "pong"
)

type JoinGamePayload struct {
	Username string `json:"username"`
}

type CreateRoomPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
}

// MakeMovePayload carries pointers so a missing coordinate is told apart
// from an explicit zero.
type MakeMovePayload struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

type PongPayload struct {
	ServerTime time.Time `json:"server_time"`
}

// ErrorPayload is sent to the originating connection only, never broadcast.
type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}
