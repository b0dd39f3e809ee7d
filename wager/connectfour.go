package wager

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"casinobot/games/connectfour"
	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Tokens accepted by connect four
const (
	TokenJoin   = "join"
	TokenCancel = "cancel"
)

var (
	lobbyTokens  = []string{TokenJoin, TokenCancel}
	columnTokens = []string{"1", "2", "3", "4", "5", "6", "7"}
)

// ConnectFour is a two-player game where the winner takes both stakes.
// It starts in a lobby until another player joins.
type ConnectFour struct {
	creator      models.AccountID
	opponent     models.AccountID
	bet          decimal.Decimal
	game         *connectfour.Game
	lobbyTimeout time.Duration
	turnTimeout  time.Duration
}

func NewConnectFour(creator models.AccountID, bet decimal.Decimal, lobbyTimeout, turnTimeout time.Duration) (*ConnectFour, error) {
	if bet.IsNegative() {
		return nil, ErrInvalidBet
	}
	return &ConnectFour{
		creator:      creator,
		bet:          bet,
		lobbyTimeout: lobbyTimeout,
		turnTimeout:  turnTimeout,
	}, nil
}

func (c *ConnectFour) Kind() models.GameKind { return models.GameKindConnectFour }
func (c *ConnectFour) Reason() string        { return "Connect Four Game" }
func (c *ConnectFour) Bet() decimal.Decimal  { return c.bet }
func (c *ConnectFour) Creator() models.AccountID {
	return c.creator
}

// Opponent is zero while the lobby is open
func (c *ConnectFour) Opponent() models.AccountID { return c.opponent }

// Game is nil while the lobby is open
func (c *ConnectFour) Game() *connectfour.Game { return c.game }

func (c *ConnectFour) InLobby() bool { return c.game == nil }

func (c *ConnectFour) Players() []models.AccountID {
	if c.opponent.Valid() {
		return []models.AccountID{c.creator, c.opponent}
	}
	return []models.AccountID{c.creator}
}

// PlayerFor maps a disc to the account playing it; the creator is red
func (c *ConnectFour) PlayerFor(d connectfour.Disc) models.AccountID {
	switch d {
	case connectfour.Red:
		return c.creator
	case connectfour.Yellow:
		return c.opponent
	}
	return 0
}

func (c *ConnectFour) Opening() []models.Stake {
	return []models.Stake{{Account: c.creator, Amount: c.bet}}
}

func (c *ConnectFour) Seats() []models.AccountID {
	if c.InLobby() {
		return nil
	}
	return []models.AccountID{c.PlayerFor(c.game.Turn)}
}

func (c *ConnectFour) Tokens() []string {
	if c.InLobby() {
		return lobbyTokens
	}
	return columnTokens
}

func (c *ConnectFour) Timeout() time.Duration {
	if c.InLobby() {
		return c.lobbyTimeout
	}
	return c.turnTimeout
}

func (c *ConnectFour) Play(actor models.AccountID, token string) Outcome {
	if c.InLobby() {
		return c.lobby(actor, token)
	}

	column, err := strconv.Atoi(token)
	if err != nil {
		return Outcome{Rejected: true}
	}
	result, err := c.game.Play(column)
	if errors.Is(err, connectfour.ErrColumnFull) {
		return Outcome{Notice: fmt.Sprintf("Column %d is full", column)}
	}
	if err != nil {
		return Outcome{Rejected: true}
	}

	switch result {
	case connectfour.Won:
		return c.award(c.PlayerFor(c.game.Winner), models.SessionStatusWin)
	case connectfour.Draw:
		return Outcome{Done: true, Status: models.SessionStatusDraw, RefundAll: true, Notice: "The game is a draw"}
	}
	return Outcome{}
}

func (c *ConnectFour) lobby(actor models.AccountID, token string) Outcome {
	switch {
	case token == TokenCancel && actor == c.creator:
		return Outcome{Done: true, Status: models.SessionStatusCancelled, RefundAll: true}
	case token == TokenJoin && actor != c.creator:
		if c.bet.IsPositive() {
			return Outcome{Hold: &Hold{Account: actor, Amount: c.bet}}
		}
		return c.start(actor)
	}
	return Outcome{Rejected: true}
}

func (c *ConnectFour) start(opponent models.AccountID) Outcome {
	c.opponent = opponent
	c.game = connectfour.NewGame()
	return Outcome{Notice: fmt.Sprintf("%s accepted the challenge", opponent.Mention())}
}

func (c *ConnectFour) Held(stake models.Stake) Outcome {
	return c.start(stake.Account)
}

func (c *ConnectFour) Refused(hold Hold, err error) Outcome {
	return Outcome{Notice: fmt.Sprintf("Sorry %s, you do not have enough to join this bet", hold.Account.Mention())}
}

// Expire closes an empty lobby, or forfeits the player who failed to move
func (c *ConnectFour) Expire() Outcome {
	if c.InLobby() {
		return Outcome{Done: true, RefundAll: true, Notice: "Nobody accepted the challenge"}
	}
	c.game.Forfeit()
	return c.award(c.PlayerFor(c.game.Winner), models.SessionStatusWin)
}

func (c *ConnectFour) award(winner models.AccountID, status models.SessionStatus) Outcome {
	return Outcome{
		Done:    true,
		Status:  status,
		Credits: []models.Stake{{Account: winner, Amount: c.bet.Mul(decimal.NewFromInt(2))}},
		Notice:  fmt.Sprintf("%s is the winner", winner.Mention()),
	}
}

func (c *ConnectFour) Summary() string {
	if c.InLobby() {
		return fmt.Sprintf("bet %s, nobody joined", c.bet)
	}
	switch c.game.Result {
	case connectfour.Won:
		return fmt.Sprintf("bet %s, %s won after %d moves", c.bet, c.PlayerFor(c.game.Winner), c.game.Board.Moves())
	case connectfour.Draw:
		return fmt.Sprintf("bet %s, draw", c.bet)
	}
	return fmt.Sprintf("bet %s, unfinished after %d moves", c.bet, c.game.Board.Moves())
}
