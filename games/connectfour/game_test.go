package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, g *Game, columns ...int) Result {
	t.Helper()
	var result Result
	for _, c := range columns {
		var err error
		result, err = g.Play(c)
		require.NoError(t, err, "column %d", c)
	}
	return result
}

func TestGame_WinDetection(t *testing.T) {
	tests := []struct {
		name   string
		moves  []int
		winner Disc
	}{
		{"horizontal", []int{1, 1, 2, 2, 3, 3, 4}, Red},
		{"vertical", []int{1, 2, 1, 2, 1, 2, 1}, Red},
		{"rising diagonal", []int{1, 2, 2, 3, 3, 4, 3, 4, 4, 7, 4}, Red},
		{"falling diagonal", []int{7, 6, 6, 5, 5, 4, 5, 4, 4, 1, 4}, Red},
		{"yellow wins", []int{1, 2, 1, 2, 1, 2, 7, 2}, Yellow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame()
			assert.Equal(t, Won, play(t, g, tt.moves...))
			assert.Equal(t, tt.winner, g.Winner)

			_, err := g.Play(5)
			assert.ErrorIs(t, err, ErrGameOver)
		})
	}
}

func TestGame_NoFalseWinAcrossEdge(t *testing.T) {
	// Red on top of column 1 and at the bottom of column 2 is not a line
	b := &Board{}
	for row := 0; row < 3; row++ {
		_, err := b.Drop(0, Yellow)
		require.NoError(t, err)
	}
	for row := 0; row < 3; row++ {
		_, err := b.Drop(0, Red)
		require.NoError(t, err)
	}
	_, err := b.Drop(1, Red)
	require.NoError(t, err)
	assert.False(t, b.Wins(Red))
	assert.False(t, b.Wins(Yellow))
}

// drawSequence fills the board in a pattern that never connects four
func drawSequence() []int {
	var moves []int
	for _, pair := range [][2]int{{1, 2}, {3, 4}, {5, 6}} {
		for i := 0; i < 3; i++ {
			moves = append(moves, pair[0], pair[1])
		}
		for i := 0; i < 3; i++ {
			moves = append(moves, pair[1], pair[0])
		}
	}
	for i := 0; i < Rows; i++ {
		moves = append(moves, 7)
	}
	return moves
}

func TestGame_DrawOnFullBoard(t *testing.T) {
	g := NewGame()
	result := play(t, g, drawSequence()...)

	assert.Equal(t, Draw, result)
	assert.True(t, g.Board.Full())
	assert.Equal(t, Empty, g.Winner)
}

func TestBoard_ColumnBounds(t *testing.T) {
	g := NewGame()
	_, err := g.Play(0)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = g.Play(8)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	for i := 0; i < Rows; i++ {
		_, err := g.Play(3)
		require.NoError(t, err)
	}
	_, err = g.Play(3)
	assert.ErrorIs(t, err, ErrColumnFull)
	assert.Equal(t, Red, g.Turn, "a rejected move keeps the turn")
}

func TestGame_Forfeit(t *testing.T) {
	g := NewGame()
	play(t, g, 1)
	g.Forfeit()
	assert.Equal(t, Won, g.Result)
	assert.Equal(t, Red, g.Winner, "yellow was to move and forfeits")
}
