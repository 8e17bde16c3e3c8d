package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stonegrid/gomoku-backend/internal/entity"
)

// Archive keeps a write-only record of finished matches. Records expire on
// their own; nothing ever reads them back into live state, so the process
// still boots empty after a restart.
type Archive struct {
	client *redis.Client
	ttl    time.Duration
}

func NewArchive(client *redis.Client, ttl time.Duration) *Archive {
	return &Archive{
		client: client,
		ttl:    ttl,
	}
}

// Save stores one finished match under its room ID.
func (that *Archive) Save(ctx context.Context, record *entity.MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal match record: %w", err)
	}

	if err = that.client.Set(ctx, matchKey(record.RoomID), recordJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match record: %w", err)
	}

	return nil
}

func matchKey(roomID string) string {
	return "match:" + roomID
}
