package usecase

import (
	"time"

	"github.com/stonegrid/gomoku-backend/internal/entity"
)

// Outbound event names. The websocket transport wraps each payload into a
// message carrying one of these actions.
const (
	EventWaiting            = "waiting"
	EventQueueUpdate        = "queue_update"
	EventOnlineCount        = "online_count"
	EventRoomCreated        = "room_created"
	EventRoomJoined         = "room_joined"
	EventMatchFound         = "match_found"
	EventGameStarted        = "game_started"
	EventMoveMade           = "move_made"
	EventGameOver           = "game_over"
	EventPlayerReady        = "player_ready"
	EventGameRestarted      = "game_restarted"
	EventPlayerLeft         = "player_left"
	EventPlayerDisconnected = "player_disconnected"
	EventChatMessage        = "chat_message"
	EventRoomClosed         = "room_closed"
)

// Notifier delivers events to live connections. Implementations must not
// block: the game manager calls these while holding a room lock.
type Notifier interface {
	ToConn(connID string, event string, payload any)
	ToConns(connIDs []string, event string, payload any)
	Broadcast(event string, payload any)
}

type WaitingPayload struct {
	Queued int `json:"queued"`
}

type QueueUpdatePayload struct {
	Waiting int `json:"waiting"`
}

type OnlineCountPayload struct {
	Online int `json:"online"`
}

type RoomPayload struct {
	Room entity.RoomSnapshot `json:"room"`
	You  entity.Player       `json:"you"`
}

type GameStartedPayload struct {
	Room entity.RoomSnapshot `json:"room"`
}

type MoveMadePayload struct {
	Move     entity.Move   `json:"move"`
	Board    entity.Board  `json:"board"`
	NextTurn entity.Symbol `json:"next_turn"`
}

type GameOverPayload struct {
	Winner entity.Symbol `json:"winner,omitempty"`
	Line   entity.Line   `json:"line,omitempty"`
	Board  entity.Board  `json:"board"`
	Reason string        `json:"reason"`
}

type PlayerEventPayload struct {
	Player entity.Player `json:"player"`
}

type ChatMessagePayload struct {
	From    entity.Player `json:"from"`
	Message string        `json:"message"`
	SentAt  time.Time     `json:"sent_at"`
}

type RoomClosedPayload struct {
	RoomID string `json:"room_id"`
	Reason string `json:"reason"`
}
