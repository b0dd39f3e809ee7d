// Package connectfour holds the board and turn rules for connect four.
package connectfour

import "errors"

const (
	Columns = 7
	Rows    = 6
	Connect = 4
)

// Disc is the content of a cell
type Disc int

const (
	Empty Disc = iota
	Red
	Yellow
)

// Opponent returns the other player's disc
func (d Disc) Opponent() Disc {
	switch d {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Empty
}

func (d Disc) String() string {
	switch d {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return "empty"
}

var (
	ErrInvalidColumn = errors.New("column must be between 1 and 7")
	ErrColumnFull    = errors.New("column is full")
	ErrGameOver      = errors.New("game is over")
)

// Board is a 7x6 grid; row 0 is the bottom
type Board struct {
	cells   [Columns][Rows]Disc
	heights [Columns]int
	moves   int
}

// At returns the disc at a 0-based column and row
func (b *Board) At(col, row int) Disc {
	if col < 0 || col >= Columns || row < 0 || row >= Rows {
		return Empty
	}
	return b.cells[col][row]
}

// Drop places a disc in a 0-based column and returns the row it lands on
func (b *Board) Drop(col int, d Disc) (int, error) {
	if col < 0 || col >= Columns {
		return 0, ErrInvalidColumn
	}
	row := b.heights[col]
	if row >= Rows {
		return 0, ErrColumnFull
	}
	b.cells[col][row] = d
	b.heights[col]++
	b.moves++
	return row, nil
}

// CanDrop reports whether a 0-based column has room
func (b *Board) CanDrop(col int) bool {
	return col >= 0 && col < Columns && b.heights[col] < Rows
}

// Full reports whether every cell is taken
func (b *Board) Full() bool {
	return b.moves == Columns*Rows
}

// Moves is the number of discs on the board
func (b *Board) Moves() int {
	return b.moves
}

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Wins reports whether d has four in a row horizontally, vertically or on
// either diagonal.
func (b *Board) Wins(d Disc) bool {
	if d == Empty {
		return false
	}
	for col := 0; col < Columns; col++ {
		for row := 0; row < Rows; row++ {
			for _, dir := range directions {
				n := 0
				for n < Connect && b.At(col+dir[0]*n, row+dir[1]*n) == d {
					n++
				}
				if n == Connect {
					return true
				}
			}
		}
	}
	return false
}
