package gomoku

import (
	"github.com/stonegrid/gomoku-backend/internal/apperror"
	"github.com/stonegrid/gomoku-backend/internal/entity"
)

// directions are scanned in this order; the first axis that completes a run
// of five or more decides the reported line.
var directions = [4][2]int{
	{1, 0},  // horizontal
	{0, 1},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// ValidateMove - checks that placing symbol at (x, y) is legal on this board
// with this turn. The board is not modified.
func ValidateMove(board *entity.Board, currentTurn, symbol entity.Symbol, x, y int) error {
	if !board.InBounds(x, y) {
		return apperror.ErrOutOfBounds
	}

	if symbol != currentTurn {
		return apperror.ErrNotYourTurn
	}

	if board.At(x, y) != entity.SymbolNone {
		return apperror.ErrCellOccupied
	}

	return nil
}

// DetectWin - reports the contiguous run through (x, y) if it is five or
// longer. A win can only appear around the cell that was just played, so
// callers invoke this once per accepted move.
func DetectWin(board *entity.Board, x, y int) (entity.Line, bool) {
	symbol := board.At(x, y)
	if symbol == entity.SymbolNone {
		return nil, false
	}

	for _, dir := range directions {
		dx, dy := dir[0], dir[1]

		backward := countRun(board, symbol, x, y, -dx, -dy)
		forward := countRun(board, symbol, x, y, dx, dy)

		total := backward + 1 + forward
		if total < entity.WinLength {
			continue
		}

		line := make(entity.Line, 0, total)
		for i := -backward; i <= forward; i++ {
			line = append(line, entity.Cell{X: x + dx*i, Y: y + dy*i})
		}

		return line, true
	}

	return nil, false
}

// countRun - walks up to four steps away from (x, y) and counts matching
// stones until the edge or a foreign cell.
func countRun(board *entity.Board, symbol entity.Symbol, x, y, dx, dy int) int {
	run := 0

	for step := 1; step < entity.WinLength; step++ {
		cx, cy := x+dx*step, y+dy*step
		if !board.InBounds(cx, cy) || board.At(cx, cy) != symbol {
			break
		}
		run++
	}

	return run
}
