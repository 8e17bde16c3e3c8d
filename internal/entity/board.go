package entity

import "time"

const (
	// BoardSize is the width and height of the gomoku grid.
	BoardSize = 15
	// TotalCells caps how many moves a single game can ever record.
	TotalCells = BoardSize * BoardSize
	// WinLength is the run length that ends a game.
	WinLength = 5
)

const (
	SymbolNone  Symbol = ""
	SymbolBlack Symbol = "black"
	SymbolWhite Symbol = "white"
)

// Symbol is one of the two stone colors, or SymbolNone for an empty cell.
// Black always moves first.
type Symbol string

// Other returns the opposing symbol.
func (that Symbol) Other() Symbol {
	if that == SymbolBlack {
		return SymbolWhite
	}
	return SymbolBlack
}

// Board is the 15x15 grid, addressed as board[y][x].
type Board [BoardSize][BoardSize]Symbol

// InBounds reports whether (x, y) lies on the grid.
func (that *Board) InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// At returns the symbol occupying (x, y).
func (that *Board) At(x, y int) Symbol {
	return that[y][x]
}

// Place writes a symbol into (x, y). Cells are never overwritten during a
// game; callers validate emptiness first.
func (that *Board) Place(x, y int, symbol Symbol) {
	that[y][x] = symbol
}

// Reset clears the whole grid. Only a game restart does this.
func (that *Board) Reset() {
	*that = Board{}
}

// Cell is a single grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Line is an ordered run of cells, reported when a move completes five or
// more in a row.
type Line []Cell

// Move is one accepted placement, recorded in a room's append-only history.
type Move struct {
	Symbol   Symbol    `json:"symbol"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
	PlayedAt time.Time `json:"played_at"`
}
