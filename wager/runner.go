package wager

import (
	"context"
	"errors"
	"time"

	"casinobot/events"
	"casinobot/interaction"
	"casinobot/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var errNothingToHold = errors.New("nothing to hold")

// Ledger moves stakes in and out of sessions
type Ledger interface {
	Balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error)
	Hold(ctx context.Context, stake models.Stake, reason string) error
	Pay(ctx context.Context, credits []models.Stake, reason string) error
	Refund(ctx context.Context, stakes []models.Stake, reason string) error
}

// Surface shows a session to its players
type Surface interface {
	// Render draws the session and returns the ID of the message it is on
	Render(ctx context.Context, s *Session) (string, error)
	// Close draws the final state and removes the controls
	Close(ctx context.Context, s *Session) error
}

// Awaiter waits for player input
type Awaiter interface {
	Await(ctx context.Context, f interaction.Filter, timeout time.Duration) (interaction.Interaction, error)
}

// Runner drives sessions to completion
type Runner struct {
	ledger  Ledger
	surface Surface
	inputs  Awaiter
	bus     *events.Bus
}

func NewRunner(ledger Ledger, surface Surface, inputs Awaiter, bus *events.Bus) *Runner {
	return &Runner{ledger: ledger, surface: surface, inputs: inputs, bus: bus}
}

// Run starts the session and blocks until it closes. Cancelling ctx
// cancels the game and refunds every held stake; ledger calls themselves
// are never cancelled so money is not left half-moved.
func (r *Runner) Run(ctx context.Context, s *Session) models.GameResult {
	logger := log.WithFields(log.Fields{
		"session": s.ID,
		"kind":    s.rules.Kind(),
	})
	logger.Debug("Starting wager session")

	queue := s.Handle(Start{})
	for len(queue) > 0 {
		effect := queue[0]
		queue = queue[1:]

		if _, closing := effect.(Close); closing {
			r.finish(ctx, s, logger)
			break
		}
		if next := r.perform(ctx, s, effect, logger); next != nil {
			queue = append(queue, s.Handle(next)...)
		}
	}
	return s.Result()
}

func (r *Runner) perform(ctx context.Context, s *Session, effect Effect, logger *log.Entry) Event {
	ledgerCtx := context.WithoutCancel(ctx)

	switch e := effect.(type) {
	case Escrow:
		stake := models.Stake{Account: e.Hold.Account, Amount: e.Hold.Amount}
		if e.Hold.All {
			balance, err := r.ledger.Balance(ledgerCtx, e.Hold.Account)
			if err != nil {
				return EscrowFailed{Hold: e.Hold, Err: err}
			}
			if !balance.IsPositive() {
				return EscrowFailed{Hold: e.Hold, Err: errNothingToHold}
			}
			stake.Amount = balance
		}
		if err := r.ledger.Hold(ledgerCtx, stake, s.rules.Reason()); err != nil {
			logger.WithError(err).WithField("account", stake.Account).Info("Escrow refused")
			return EscrowFailed{Hold: e.Hold, Err: err}
		}
		return EscrowSucceeded{Stake: stake}

	case Render:
		messageID, err := r.surface.Render(ctx, s)
		if err != nil {
			logger.WithError(err).Error("Failed to render session")
			if s.State() == StateEscrowed {
				return Cancel{Reason: "The game could not be displayed"}
			}
			return nil
		}
		if s.State() == StateEscrowed {
			return Opened{MessageID: messageID}
		}
		return nil

	case Await:
		in, err := r.inputs.Await(ctx, interaction.Filter{
			MessageID: e.MessageID,
			Users:     e.Users,
			Tokens:    e.Tokens,
		}, e.Timeout)
		switch {
		case errors.Is(err, interaction.ErrTimeout):
			return Timeout{}
		case err != nil:
			return Cancel{Reason: "The game was stopped"}
		}
		return Input{User: in.User, Token: in.Token}

	case Settle:
		if err := r.ledger.Pay(ledgerCtx, e.Credits, s.rules.Reason()); err != nil {
			logger.WithError(err).Error("Settlement failed")
			return SettleFailed{Err: err}
		}
		return Settled{}

	case Refund:
		if err := r.ledger.Refund(ledgerCtx, e.Stakes, s.rules.Reason()); err != nil {
			logger.WithError(err).Error("Refund failed")
			return SettleFailed{Err: err}
		}
		return Settled{}
	}
	return nil
}

func (r *Runner) finish(ctx context.Context, s *Session, logger *log.Entry) {
	if err := r.surface.Close(context.WithoutCancel(ctx), s); err != nil {
		logger.WithError(err).Warn("Failed to render closed session")
	}

	result := s.Result()
	if s.Failure() != nil && result.Wagered.IsPositive() && result.PaidOut.IsZero() {
		logger.WithError(s.Failure()).Error("Session closed without returning its stakes")
	}
	if r.bus != nil {
		r.bus.Emit(context.WithoutCancel(ctx), events.GameFinishedEvent{Result: result})
	}

	logger.WithFields(log.Fields{
		"status":  result.Status,
		"wagered": result.Wagered.String(),
		"paidOut": result.PaidOut.String(),
	}).Info("Wager session closed")
}
