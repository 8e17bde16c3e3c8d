package usecase

import "sync"

// RoomRegistry is the process-wide index of live rooms by ID. It only
// guards the map itself; room state is protected by each room's own lock,
// which is never taken while the registry lock is held.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]*Room)}
}

// Insert claims an ID for a room. It returns false on collision so the
// caller can retry with a fresh ID.
func (that *RoomRegistry) Insert(room *Room) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.rooms[room.id]; exists {
		return false
	}

	that.rooms[room.id] = room

	return true
}

// Get looks a room up by ID.
func (that *RoomRegistry) Get(roomID string) (*Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[roomID]

	return room, ok
}

// Remove unindexes a room.
func (that *RoomRegistry) Remove(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, roomID)
}

// List snapshots the current rooms for sweeps and status reporting.
func (that *RoomRegistry) List() []*Room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	rooms := make([]*Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

// Len returns the number of live rooms.
func (that *RoomRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
