package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stonegrid/gomoku-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_Save(t *testing.T) {
	t.Run("Won match is recorded with its TTL", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewArchive(st.Storage, 24*time.Hour)

		// Given: a finished match won by black
		record := &entity.MatchRecord{
			RoomID: "12345678",
			Players: []entity.Player{
				{ID: "c1", Name: "alice", Symbol: entity.SymbolBlack},
				{ID: "c2", Name: "bob", Symbol: entity.SymbolWhite},
			},
			Winner:     entity.SymbolBlack,
			Reason:     entity.ReasonWin,
			MoveCount:  9,
			StartedAt:  time.Now().Add(-time.Minute),
			FinishedAt: time.Now(),
		}

		// When: the record is saved
		err := archive.Save(ctx, record)

		// Then: it is stored under its room key with the configured TTL
		require.NoError(t, err)

		stored, err := st.Storage.Get(ctx, "match:12345678").Result()
		require.NoError(t, err)

		var got entity.MatchRecord
		require.NoError(t, json.Unmarshal([]byte(stored), &got))
		assert.Equal(t, record.RoomID, got.RoomID)
		assert.Equal(t, entity.SymbolBlack, got.Winner)
		assert.Equal(t, entity.ReasonWin, got.Reason)
		assert.Len(t, got.Players, 2)

		ttl, err := st.Storage.TTL(ctx, "match:12345678").Result()
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, ttl)
	})

	t.Run("Draw is recorded without a winner", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewArchive(st.Storage, time.Hour)

		// Given: a drawn match on a full board
		record := &entity.MatchRecord{
			RoomID:     "87654321",
			Reason:     entity.ReasonDraw,
			MoveCount:  entity.TotalCells,
			FinishedAt: time.Now(),
		}

		// When: the record is saved
		require.NoError(t, archive.Save(ctx, record))

		// Then: the stored record has no winner symbol
		stored, err := st.Storage.Get(ctx, "match:87654321").Result()
		require.NoError(t, err)

		var got entity.MatchRecord
		require.NoError(t, json.Unmarshal([]byte(stored), &got))
		assert.Equal(t, entity.SymbolNone, got.Winner)
		assert.Equal(t, entity.TotalCells, got.MoveCount)
	})

	t.Run("Record vanishes after its TTL", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewArchive(st.Storage, time.Minute)

		// Given: a forfeited match saved with a one-minute TTL
		record := &entity.MatchRecord{
			RoomID:     "55555555",
			Winner:     entity.SymbolWhite,
			Reason:     entity.ReasonForfeit,
			FinishedAt: time.Now(),
		}
		require.NoError(t, archive.Save(ctx, record))

		// When: the clock moves past the TTL
		st.Mini.FastForward(2 * time.Minute)

		// Then: the record is gone
		err := st.Storage.Get(ctx, "match:55555555").Err()
		require.Error(t, err)
	})
}
