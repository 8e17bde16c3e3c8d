package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stonegrid/gomoku-backend/internal/apperror"
	"github.com/stonegrid/gomoku-backend/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

// gameManager is everything the transport needs from the core: session
// lifecycle plus one method per inbound action.
type gameManager interface {
	Register(connID string)
	Disconnect(connID string)

	JoinQueue(connID, username string) error
	CreateRoom(connID, username string) error
	JoinRoom(connID, username, roomID string) error
	MakeMove(connID string, x, y int) error
	MarkReady(connID string) error
	SendChat(connID, message string) error
	RestartGame(connID string) error
	LeaveRoom(connID string) error
}

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	game     gameManager
	upgrader websocket.Upgrader

	handlers map[string]func(connID string, message *Message) error
}

func New(logger *slog.Logger, hub *Hub, game gameManager) *Server {
	server := &Server{
		logger: logger,
		hub:    hub,
		game:   game,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(string, *Message) error),
	}

	server.handlers["join_game"] = server.handleJoinGame
	server.handlers["create_room"] = server.handleCreateRoom
	server.handlers["join_room"] = server.handleJoinRoom
	server.handlers["make_move"] = server.handleMakeMove
	server.handlers["ready"] = server.handleReady
	server.handlers["chat_message"] = server.handleChatMessage
	server.handlers["restart_game"] = server.handleRestartGame
	server.handlers["leave_room"] = server.handleLeaveRoom
	server.handlers["ping"] = server.handlePing

	return server
}

// Handler exposes the routing so tests can mount the server on a test
// listener.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts the WebSocket server and shuts it down when the context is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}

// upgradeToWebSocket - upgrades the connection and runs its read loop until
// the client goes away.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)

		return
	}

	connID := pkg.NewConnectionID()
	that.hub.add(connID, ws)
	that.game.Register(connID)

	log.Info("connection established", "connection_id", connID)

	defer func() {
		that.game.Disconnect(connID)
		that.hub.remove(connID)
		log.Info("connection closed", "connection_id", connID)
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("connection read failed", "connection_id", connID, "error", err)
			}

			return
		}

		that.dispatch(connID, raw)
	}
}

// dispatch routes one inbound frame to its handler. A fault in one message
// is reported to its sender and never takes down the connection, let alone
// the process.
func (that *Server) dispatch(connID string, raw []byte) {
	log := that.logger.With("method", "dispatch")

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", "connection_id", connID, "panic", r)
		}
	}()

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		that.sendErrorResponse(connID, "", apperror.ErrInvalidPayload)

		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action", "connection_id", connID, "action", message.Action)
		that.sendErrorResponse(connID, message.Action, apperror.ErrUnknownAction)

		return
	}

	if err := handler(connID, &message); err != nil {
		that.sendErrorResponse(connID, message.Action, err)
	}
}

// sendMessage wraps a payload into the envelope and queues it for one
// connection.
func (that *Server) sendMessage(connID, action string, payload any) {
	that.hub.ToConn(connID, action, payload)
}

// sendErrorResponse reports a failure to the originating connection only.
func (that *Server) sendErrorResponse(connID, action string, err error) {
	that.sendMessage(connID, actionError, ErrorPayload{
		Action: action,
		Kind:   apperror.KindOf(err),
		Error:  err.Error(),
	})
}
