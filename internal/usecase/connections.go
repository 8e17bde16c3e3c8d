package usecase

import "sync"

// Session is what the server remembers about one live connection: the
// announced username and the room it currently occupies, if any.
type Session struct {
	Name   string
	RoomID string
}

// ConnectionRegistry tracks every live connection's session. Entries appear
// on upgrade and vanish on disconnect; everything else mutates in place.
type ConnectionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{sessions: make(map[string]*Session)}
}

// Add registers a fresh connection with an empty session.
func (that *ConnectionRegistry) Add(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[connID] = &Session{}
}

// Remove deletes a session and returns its final state.
func (that *ConnectionRegistry) Remove(connID string) (Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[connID]
	if !ok {
		return Session{}, false
	}

	delete(that.sessions, connID)

	return *session, true
}

// Get returns a copy of a connection's session.
func (that *ConnectionRegistry) Get(connID string) (Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[connID]
	if !ok {
		return Session{}, false
	}

	return *session, true
}

// SetName stores the announced username. It reports false when the
// connection is already gone.
func (that *ConnectionRegistry) SetName(connID, name string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[connID]
	if !ok {
		return false
	}

	session.Name = name

	return true
}

// SetRoom points a session at a room. It reports false when the connection
// disconnected in the meantime, so callers can undo the seating.
func (that *ConnectionRegistry) SetRoom(connID, roomID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[connID]
	if !ok {
		return false
	}

	session.RoomID = roomID

	return true
}

// ClearRoom detaches a session from a room, but only if it still points at
// that room. A player who already moved on keeps their new room.
func (that *ConnectionRegistry) ClearRoom(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[connID]
	if ok && session.RoomID == roomID {
		session.RoomID = ""
	}
}

// ClearRoomAll detaches every given session from a closed room.
func (that *ConnectionRegistry) ClearRoomAll(connIDs []string, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, connID := range connIDs {
		session, ok := that.sessions[connID]
		if ok && session.RoomID == roomID {
			session.RoomID = ""
		}
	}
}

// Count returns the number of live connections.
func (that *ConnectionRegistry) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// LobbyIDs lists connections that are not in any room. Lobby chat goes to
// exactly this set.
func (that *ConnectionRegistry) LobbyIDs() []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := make([]string, 0, len(that.sessions))
	for connID, session := range that.sessions {
		if session.RoomID == "" {
			ids = append(ids, connID)
		}
	}

	return ids
}
