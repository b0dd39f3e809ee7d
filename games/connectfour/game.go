package connectfour

// Result describes the state after a move
type Result int

const (
	Ongoing Result = iota
	Won
	Draw
)

// Game alternates turns on a board. Red moves first.
type Game struct {
	Board  Board
	Turn   Disc
	Winner Disc
	Result Result
}

func NewGame() *Game {
	return &Game{Turn: Red}
}

// Play drops the current player's disc in a 1-based column
func (g *Game) Play(column int) (Result, error) {
	if g.Result != Ongoing {
		return g.Result, ErrGameOver
	}
	if _, err := g.Board.Drop(column-1, g.Turn); err != nil {
		return Ongoing, err
	}

	switch {
	case g.Board.Wins(g.Turn):
		g.Result = Won
		g.Winner = g.Turn
	case g.Board.Full():
		g.Result = Draw
	default:
		g.Turn = g.Turn.Opponent()
	}
	return g.Result, nil
}

// Forfeit ends the game with the player to move losing
func (g *Game) Forfeit() {
	if g.Result != Ongoing {
		return
	}
	g.Result = Won
	g.Winner = g.Turn.Opponent()
}
