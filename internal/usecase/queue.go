package usecase

import (
	"sync"

	"github.com/stonegrid/gomoku-backend/internal/entity"
)

// MatchmakingQueue holds players waiting for an opponent, oldest first.
// A player appears at most once.
type MatchmakingQueue struct {
	mu      sync.Mutex
	waiting []*entity.Player
}

func NewMatchmakingQueue() *MatchmakingQueue {
	return &MatchmakingQueue{}
}

// Enqueue appends a player and returns the new queue length. It refuses
// players that are already waiting.
func (that *MatchmakingQueue) Enqueue(player *entity.Player) (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, waiting := range that.waiting {
		if waiting.ID == player.ID {
			return len(that.waiting), false
		}
	}

	that.waiting = append(that.waiting, player)

	return len(that.waiting), true
}

// PopPair removes and returns the two earliest-queued players.
func (that *MatchmakingQueue) PopPair() (*entity.Player, *entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.waiting) < 2 {
		return nil, nil, false
	}

	first, second := that.waiting[0], that.waiting[1]
	that.waiting = append(that.waiting[:0], that.waiting[2:]...)

	return first, second, true
}

// Remove drops a player from the queue, reporting whether they were waiting.
func (that *MatchmakingQueue) Remove(playerID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, waiting := range that.waiting {
		if waiting.ID == playerID {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)

			return true
		}
	}

	return false
}

// Contains reports whether a player is waiting.
func (that *MatchmakingQueue) Contains(playerID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, waiting := range that.waiting {
		if waiting.ID == playerID {
			return true
		}
	}

	return false
}

// Len returns the number of waiting players.
func (that *MatchmakingQueue) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.waiting)
}
