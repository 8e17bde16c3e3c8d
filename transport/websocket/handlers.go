package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/apperror"
)

func (that *Server) handleJoinGame(connID string, msg *Message) error {
	var payload JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidPayload, err)
	}

	return that.game.JoinQueue(connID, payload.Username)
}

func (that *Server) handleCreateRoom(connID string, msg *Message) error {
	var payload CreateRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidPayload, err)
	}

	return that.game.CreateRoom(connID, payload.Username)
}

func (that *Server) handleJoinRoom(connID string, msg *Message) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidPayload, err)
	}

	return that.game.JoinRoom(connID, payload.Username, payload.RoomID)
}

func (that *Server) handleMakeMove(connID string, msg *Message) error {
	var payload MakeMovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidPayload, err)
	}

	if payload.X == nil || payload.Y == nil {
		return fmt.Errorf("%w: move coordinates are required", apperror.ErrInvalidPayload)
	}

	return that.game.MakeMove(connID, *payload.X, *payload.Y)
}

func (that *Server) handleReady(connID string, _ *Message) error {
	return that.game.MarkReady(connID)
}

func (that *Server) handleChatMessage(connID string, msg *Message) error {
	var payload ChatPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidPayload, err)
	}

	return that.game.SendChat(connID, payload.Message)
}

func (that *Server) handleRestartGame(connID string, _ *Message) error {
	return that.game.RestartGame(connID)
}

func (that *Server) handleLeaveRoom(connID string, _ *Message) error {
	return that.game.LeaveRoom(connID)
}

func (that *Server) handlePing(connID string, _ *Message) error {
	that.sendMessage(connID, actionPong, PongPayload{ServerTime: time.Now()})

	return nil
}
