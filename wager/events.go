package wager

import (
	"time"

	"casinobot/models"

	"github.com/shopspring/decimal"
)

// Hold asks the ledger to move a stake into the session. All holds the
// account's whole remaining balance and ignores Amount.
type Hold struct {
	Account models.AccountID
	Amount  decimal.Decimal
	All     bool
}

// Event is fed to Session.Handle
type Event interface{ isEvent() }

type (
	// Start begins the session
	Start struct{}
	// EscrowSucceeded reports the stake the ledger actually moved
	EscrowSucceeded struct{ Stake models.Stake }
	// EscrowFailed reports a refused hold; nothing was moved
	EscrowFailed struct {
		Hold Hold
		Err  error
	}
	// Opened reports the message the session is displayed on
	Opened struct{ MessageID string }
	// Input is a player action
	Input struct {
		User  models.AccountID
		Token string
	}
	// Timeout fires when an Await deadline passes
	Timeout struct{}
	// Cancel ends the session and returns every held stake
	Cancel struct{ Reason string }
	// Settled reports that the last Settle or Refund committed
	Settled struct{}
	// SettleFailed reports that the last Settle or Refund did not commit
	SettleFailed struct{ Err error }
)

func (Start) isEvent()           {}
func (EscrowSucceeded) isEvent() {}
func (EscrowFailed) isEvent()    {}
func (Opened) isEvent()          {}
func (Input) isEvent()           {}
func (Timeout) isEvent()         {}
func (Cancel) isEvent()          {}
func (Settled) isEvent()         {}
func (SettleFailed) isEvent()    {}

// Effect is an instruction returned by Session.Handle for the runner to carry out
type Effect interface{ isEffect() }

type (
	// Escrow holds a stake through the ledger
	Escrow struct{ Hold Hold }
	// Render draws the session's current view
	Render struct{}
	// Await waits for the next input from the listed users
	Await struct {
		MessageID string
		Users     []models.AccountID
		Tokens    []string
		Timeout   time.Duration
	}
	// Settle pays out the credits
	Settle struct{ Credits []models.Stake }
	// Refund returns stakes to their owners
	Refund struct{ Stakes []models.Stake }
	// Close ends the session with its final status
	Close struct{ Status models.SessionStatus }
)

func (Escrow) isEffect() {}
func (Render) isEffect() {}
func (Await) isEffect()  {}
func (Settle) isEffect() {}
func (Refund) isEffect() {}
func (Close) isEffect()  {}
