package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before its reads fail.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait so the peer always has a ping
	// to answer.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize caps inbound frames; every game action fits well under it.
	maxMessageSize = 4096
	// sendBuffer is the per-connection outbound queue. A connection that
	// cannot drain it loses events rather than stalling the sender.
	sendBuffer = 32
)

// connection is one upgraded client with its outbound queue. All writes to
// the socket happen on the writePump goroutine.
type connection struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func newConnection(id string, ws *websocket.Conn) *connection {
	return &connection{
		id:   id,
		ws:   ws,
		send: make(chan []byte, sendBuffer),
	}
}

// enqueue hands a frame to the write pump without ever blocking the caller.
func (that *connection) enqueue(data []byte) bool {
	select {
	case that.send <- data:
		return true
	default:
		return false
	}
}

// shutdown stops the write pump. Safe to call more than once.
func (that *connection) shutdown() {
	that.once.Do(func() {
		close(that.send)
	})
}

// writePump drains the outbound queue onto the socket and keeps the
// connection alive with periodic pings. It owns the socket's write side.
func (that *connection) writePump(logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.ws.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := that.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("write failed", "connection_id", that.id, "error", err)

				return
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks every live connection and fans events out to them. It is the
// game manager's Notifier: deliveries are best-effort and never block, so
// callers may hold room locks while notifying.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*connection
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),
		conns:  make(map[string]*connection),
	}
}

// add registers an upgraded socket and starts its write pump.
func (that *Hub) add(connID string, ws *websocket.Conn) *connection {
	conn := newConnection(connID, ws)

	that.mu.Lock()
	that.conns[connID] = conn
	that.mu.Unlock()

	go conn.writePump(that.logger)

	return conn
}

// remove forgets a connection and stops its pump. Removing an unknown ID is
// a no-op.
func (that *Hub) remove(connID string) {
	that.mu.Lock()
	conn, ok := that.conns[connID]
	delete(that.conns, connID)
	that.mu.Unlock()

	if ok {
		conn.shutdown()
	}
}

// ToConn delivers one event to one connection.
func (that *Hub) ToConn(connID string, event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)

		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	that.deliver(that.conns[connID], event, data)
}

// ToConns delivers one event to each listed connection. A full queue on one
// connection never affects the others.
func (that *Hub) ToConns(connIDs []string, event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)

		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, connID := range connIDs {
		that.deliver(that.conns[connID], event, data)
	}
}

// Broadcast delivers one event to every live connection.
func (that *Hub) Broadcast(event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)

		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, conn := range that.conns {
		that.deliver(conn, event, data)
	}
}

// deliver enqueues an encoded frame. Caller holds the hub lock, which keeps
// the connection's queue open for the duration.
func (that *Hub) deliver(conn *connection, event string, data []byte) {
	if conn == nil {
		return
	}

	if !conn.enqueue(data) {
		that.logger.Warn("dropping event for slow connection", "connection_id", conn.id, "event", event)
	}
}

// encodeEvent wraps a payload into the wire envelope.
func encodeEvent(event string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: event, Payload: payloadJSON})
}
