package wager

import (
	"time"

	"casinobot/models"
)

// Outcome is how a game responds to an input, a hold or a timeout
type Outcome struct {
	// Hold requests a further stake before play continues
	Hold *Hold
	// Rejected inputs leave the view untouched and keep waiting
	Rejected bool
	// Notice is shown to the players on the next render
	Notice string

	Done   bool
	Status models.SessionStatus
	// Credits are paid when the game ends. RefundAll returns every held
	// stake instead.
	Credits   []models.Stake
	RefundAll bool
}

// Rules is one game's logic. It is only called from the session.
type Rules interface {
	Kind() models.GameKind
	// Reason labels the game's ledger entries
	Reason() string
	Players() []models.AccountID
	// Opening lists the stakes held before the game is shown
	Opening() []models.Stake
	// Seats and Tokens describe the input accepted next; empty Seats accepts anyone
	Seats() []models.AccountID
	Tokens() []string
	Timeout() time.Duration

	Play(actor models.AccountID, token string) Outcome
	Held(stake models.Stake) Outcome
	Refused(hold Hold, err error) Outcome
	Expire() Outcome

	// Summary is a one-line description of the final state
	Summary() string
}
