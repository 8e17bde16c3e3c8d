package gomoku

import (
	"testing"

	"github.com/stonegrid/gomoku-backend/internal/apperror"
	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(board *entity.Board, symbol entity.Symbol, cells ...entity.Cell) {
	for _, cell := range cells {
		board.Place(cell.X, cell.Y, symbol)
	}
}

func TestValidateMove(t *testing.T) {
	t.Run("Legal move", func(t *testing.T) {
		// Given: an empty board with black to move
		board := &entity.Board{}

		// When: black plays inside the grid
		err := ValidateMove(board, entity.SymbolBlack, entity.SymbolBlack, 7, 7)

		// Then: the move is accepted
		require.NoError(t, err)
	})

	t.Run("Out of bounds", func(t *testing.T) {
		// Given: an empty board with black to move
		board := &entity.Board{}

		// When: black plays x=15 on a 15-wide board
		err := ValidateMove(board, entity.SymbolBlack, entity.SymbolBlack, 15, 7)

		// Then: the move is rejected and the board is untouched
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		require.Equal(t, &entity.Board{}, board)
	})

	t.Run("Negative coordinate", func(t *testing.T) {
		// Given: an empty board with black to move
		board := &entity.Board{}

		// When: black plays a negative row
		err := ValidateMove(board, entity.SymbolBlack, entity.SymbolBlack, 3, -1)

		// Then: the move is rejected
		assert.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})

	t.Run("Out of turn", func(t *testing.T) {
		// Given: an empty board with black to move
		board := &entity.Board{}

		// When: white tries to play
		err := ValidateMove(board, entity.SymbolBlack, entity.SymbolWhite, 7, 7)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		// Given: a board with a black stone at (7, 7) and white to move
		board := &entity.Board{}
		board.Place(7, 7, entity.SymbolBlack)

		// When: white plays the same cell
		err := ValidateMove(board, entity.SymbolWhite, entity.SymbolWhite, 7, 7)

		// Then: the move is rejected and the stone keeps its color
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.Equal(t, entity.SymbolBlack, board.At(7, 7))
	})
}

func TestDetectWin(t *testing.T) {
	t.Run("Horizontal five", func(t *testing.T) {
		// Given: black stones on (7,7)..(11,7), the last one placed at (11,7)
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 7, Y: 7},
			entity.Cell{X: 8, Y: 7},
			entity.Cell{X: 9, Y: 7},
			entity.Cell{X: 10, Y: 7},
			entity.Cell{X: 11, Y: 7},
		)

		// When: the win check runs around the placed stone
		line, won := DetectWin(board, 11, 7)

		// Then: the run is reported from its backward end
		require.True(t, won)
		expected := entity.Line{
			{X: 7, Y: 7},
			{X: 8, Y: 7},
			{X: 9, Y: 7},
			{X: 10, Y: 7},
			{X: 11, Y: 7},
		}
		require.Equal(t, expected, line)
	})

	t.Run("Vertical five", func(t *testing.T) {
		// Given: white stones stacked on column 3
		board := &entity.Board{}
		place(board, entity.SymbolWhite,
			entity.Cell{X: 3, Y: 2},
			entity.Cell{X: 3, Y: 3},
			entity.Cell{X: 3, Y: 4},
			entity.Cell{X: 3, Y: 5},
			entity.Cell{X: 3, Y: 6},
		)

		// When: the win check runs around the middle stone
		line, won := DetectWin(board, 3, 4)

		// Then: the full column run is reported
		require.True(t, won)
		expected := entity.Line{
			{X: 3, Y: 2},
			{X: 3, Y: 3},
			{X: 3, Y: 4},
			{X: 3, Y: 5},
			{X: 3, Y: 6},
		}
		require.Equal(t, expected, line)
	})

	t.Run("Diagonal five", func(t *testing.T) {
		// Given: black stones on the down-right diagonal from (2,2)
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 2, Y: 2},
			entity.Cell{X: 3, Y: 3},
			entity.Cell{X: 4, Y: 4},
			entity.Cell{X: 5, Y: 5},
			entity.Cell{X: 6, Y: 6},
		)

		// When: the win check runs around the first stone
		line, won := DetectWin(board, 2, 2)

		// Then: the diagonal run is reported
		require.True(t, won)
		require.Len(t, line, 5)
		assert.Equal(t, entity.Cell{X: 2, Y: 2}, line[0])
		assert.Equal(t, entity.Cell{X: 6, Y: 6}, line[4])
	})

	t.Run("Anti-diagonal five", func(t *testing.T) {
		// Given: white stones on the up-right diagonal ending at (10, 2)
		board := &entity.Board{}
		place(board, entity.SymbolWhite,
			entity.Cell{X: 6, Y: 6},
			entity.Cell{X: 7, Y: 5},
			entity.Cell{X: 8, Y: 4},
			entity.Cell{X: 9, Y: 3},
			entity.Cell{X: 10, Y: 2},
		)

		// When: the win check runs around the placed stone
		line, won := DetectWin(board, 8, 4)

		// Then: the run is reported and contains every stone
		require.True(t, won)
		require.Len(t, line, 5)
		assert.Contains(t, line, entity.Cell{X: 6, Y: 6})
		assert.Contains(t, line, entity.Cell{X: 10, Y: 2})
	})

	t.Run("Four is not enough", func(t *testing.T) {
		// Given: only four black stones in a row
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 7, Y: 7},
			entity.Cell{X: 8, Y: 7},
			entity.Cell{X: 9, Y: 7},
			entity.Cell{X: 10, Y: 7},
		)

		// When: the win check runs around the last stone
		_, won := DetectWin(board, 10, 7)

		// Then: no win is reported
		require.False(t, won)
	})

	t.Run("Overline of six still wins", func(t *testing.T) {
		// Given: six black stones in a row, the gap stone placed last
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 4, Y: 9},
			entity.Cell{X: 5, Y: 9},
			entity.Cell{X: 6, Y: 9},
			entity.Cell{X: 8, Y: 9},
			entity.Cell{X: 9, Y: 9},
			entity.Cell{X: 7, Y: 9},
		)

		// When: the win check runs around the joining stone
		line, won := DetectWin(board, 7, 9)

		// Then: the whole six-stone run is reported
		require.True(t, won)
		require.Len(t, line, 6)
		assert.Equal(t, entity.Cell{X: 4, Y: 9}, line[0])
		assert.Equal(t, entity.Cell{X: 9, Y: 9}, line[5])
	})

	t.Run("Reported line is capped at four steps each way", func(t *testing.T) {
		// Given: eleven black stones in a row, the middle one placed last
		board := &entity.Board{}
		for x := 2; x <= 12; x++ {
			board.Place(x, 12, entity.SymbolBlack)
		}

		// When: the win check runs around the middle stone
		line, won := DetectWin(board, 7, 12)

		// Then: only the nine cells within walking range are reported
		require.True(t, won)
		require.Len(t, line, 9)
		assert.Equal(t, entity.Cell{X: 3, Y: 12}, line[0])
		assert.Equal(t, entity.Cell{X: 11, Y: 12}, line[8])
	})

	t.Run("Opponent stone breaks the run", func(t *testing.T) {
		// Given: four black stones and a white stone inside the row
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 2, Y: 5},
			entity.Cell{X: 3, Y: 5},
			entity.Cell{X: 5, Y: 5},
			entity.Cell{X: 6, Y: 5},
			entity.Cell{X: 7, Y: 5},
		)
		board.Place(4, 5, entity.SymbolWhite)

		// When: the win check runs around the longest segment
		_, won := DetectWin(board, 7, 5)

		// Then: no win is reported
		require.False(t, won)
	})

	t.Run("Run stops at the board edge", func(t *testing.T) {
		// Given: four black stones hugging the left edge
		board := &entity.Board{}
		place(board, entity.SymbolBlack,
			entity.Cell{X: 0, Y: 0},
			entity.Cell{X: 1, Y: 0},
			entity.Cell{X: 2, Y: 0},
			entity.Cell{X: 3, Y: 0},
		)

		// When: the win check runs at the corner
		_, won := DetectWin(board, 0, 0)

		// Then: the edge does not count as a stone
		require.False(t, won)
	})

	t.Run("Empty cell never wins", func(t *testing.T) {
		// Given: an empty board
		board := &entity.Board{}

		// When: the win check runs on an empty cell
		_, won := DetectWin(board, 7, 7)

		// Then: nothing is reported
		require.False(t, won)
	})
}
