// Package wager runs betting games as explicit state machines. A Session
// turns events into effects; the Runner performs the effects against the
// ledger, the chat surface and the interaction dispatcher.
package wager

import (
	"slices"
	"time"

	"casinobot/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// State is the lifecycle position of a session
type State int

const (
	StateCreated State = iota
	StateEscrowed
	StateAwaitingInput
	StateSettling
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateEscrowed:
		return "escrowed"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateSettling:
		return "settling"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session is one game from escrow to close. It is not safe for concurrent
// use; the runner drives it from a single goroutine.
type Session struct {
	ID        uuid.UUID
	GuildID   string
	StartedAt time.Time
	EndedAt   time.Time

	rules     Rules
	state     State
	status    models.SessionStatus
	messageID string
	notice    string

	pending []Hold
	held    []models.Stake
	paid    []models.Stake

	inFlight    []models.Stake
	settled     bool
	compensated bool
	failure     error
}

// NewSession creates a session in the created state
func NewSession(rules Rules) *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		rules:     rules,
		state:     StateCreated,
		status:    models.SessionStatusAwaitingInput,
	}
}

func (s *Session) Rules() Rules                 { return s.rules }
func (s *Session) State() State                 { return s.state }
func (s *Session) Status() models.SessionStatus { return s.status }
func (s *Session) MessageID() string            { return s.messageID }
func (s *Session) Notice() string               { return s.notice }
func (s *Session) Held() []models.Stake         { return slices.Clone(s.held) }
func (s *Session) Paid() []models.Stake         { return slices.Clone(s.paid) }

// Failure is the error that stopped the session, if any
func (s *Session) Failure() error { return s.failure }

// Handle applies an event and returns the effects to perform, in order.
// Events that do not apply to the current state are ignored.
func (s *Session) Handle(ev Event) []Effect {
	switch e := ev.(type) {
	case Start:
		if s.state != StateCreated {
			return s.ignore(ev)
		}
		for _, stake := range s.rules.Opening() {
			if stake.Amount.IsPositive() {
				s.pending = append(s.pending, Hold{Account: stake.Account, Amount: stake.Amount})
			}
		}
		return s.nextHoldOr(s.open)

	case EscrowSucceeded:
		if len(s.pending) == 0 || s.state >= StateSettling {
			return s.ignore(ev)
		}
		s.pending = s.pending[1:]
		if e.Stake.Amount.IsPositive() {
			s.held = append(s.held, e.Stake)
		}
		if s.state == StateCreated {
			return s.nextHoldOr(s.open)
		}
		return s.apply(s.rules.Held(e.Stake))

	case EscrowFailed:
		if len(s.pending) == 0 || s.state >= StateSettling {
			return s.ignore(ev)
		}
		s.pending = nil
		if s.state == StateCreated {
			// An opening stake was refused: give back whatever was already held
			s.failure = e.Err
			return s.settle(models.SessionStatusCancelled, nil, true)
		}
		return s.apply(s.rules.Refused(e.Hold, e.Err))

	case Opened:
		if s.state != StateEscrowed {
			return s.ignore(ev)
		}
		s.messageID = e.MessageID
		s.state = StateAwaitingInput
		return []Effect{s.await()}

	case Input:
		if s.state != StateAwaitingInput || len(s.pending) > 0 {
			return s.ignore(ev)
		}
		if seats := s.rules.Seats(); len(seats) > 0 && !slices.Contains(seats, e.User) {
			return s.ignore(ev)
		}
		if !slices.Contains(s.rules.Tokens(), e.Token) {
			return s.ignore(ev)
		}
		return s.apply(s.rules.Play(e.User, e.Token))

	case Timeout:
		if s.state != StateAwaitingInput || len(s.pending) > 0 {
			return s.ignore(ev)
		}
		out := s.rules.Expire()
		if !out.Done {
			out.Done = true
			out.RefundAll = true
		}
		out.Status = models.SessionStatusTimedOut
		return s.apply(out)

	case Cancel:
		if s.state >= StateSettling {
			return s.ignore(ev)
		}
		s.notice = e.Reason
		return s.settle(models.SessionStatusCancelled, nil, true)

	case Settled:
		if s.state != StateSettling {
			return s.ignore(ev)
		}
		s.paid = append(s.paid, s.inFlight...)
		s.inFlight = nil
		return s.close()

	case SettleFailed:
		if s.state != StateSettling {
			return s.ignore(ev)
		}
		s.failure = e.Err
		s.inFlight = nil
		if s.compensated || len(s.held) == 0 {
			return s.close()
		}
		// Settlement is atomic, so nothing was paid: hand back the stakes once
		s.compensated = true
		s.inFlight = slices.Clone(s.held)
		return []Effect{Refund{Stakes: slices.Clone(s.held)}}
	}
	return s.ignore(ev)
}

func (s *Session) ignore(ev Event) []Effect {
	log.WithFields(log.Fields{
		"session": s.ID,
		"state":   s.state,
		"event":   ev,
	}).Debug("Ignoring event")
	return nil
}

// nextHoldOr escrows the next pending hold, or runs then when none is left
func (s *Session) nextHoldOr(then func() []Effect) []Effect {
	if len(s.pending) > 0 {
		return []Effect{Escrow{Hold: s.pending[0]}}
	}
	return then()
}

func (s *Session) open() []Effect {
	s.state = StateEscrowed
	return []Effect{Render{}}
}

func (s *Session) await() Await {
	return Await{
		MessageID: s.messageID,
		Users:     s.rules.Seats(),
		Tokens:    s.rules.Tokens(),
		Timeout:   s.rules.Timeout(),
	}
}

func (s *Session) apply(out Outcome) []Effect {
	s.notice = out.Notice
	switch {
	case out.Done:
		return s.settle(out.Status, out.Credits, out.RefundAll)
	case out.Hold != nil:
		s.pending = []Hold{*out.Hold}
		return []Effect{Escrow{Hold: *out.Hold}}
	case out.Rejected:
		return []Effect{s.await()}
	}
	return []Effect{Render{}, s.await()}
}

// settle moves to settling at most once per session
func (s *Session) settle(status models.SessionStatus, credits []models.Stake, refund bool) []Effect {
	if s.settled {
		return nil
	}
	s.settled = true
	s.state = StateSettling
	s.status = status
	s.pending = nil

	if refund {
		credits = s.held
	}
	var positive []models.Stake
	for _, c := range credits {
		if c.Amount.IsPositive() {
			positive = append(positive, c)
		}
	}
	if len(positive) == 0 {
		return s.close()
	}

	s.inFlight = positive
	if refund {
		return []Effect{Refund{Stakes: slices.Clone(positive)}}
	}
	return []Effect{Settle{Credits: slices.Clone(positive)}}
}

func (s *Session) close() []Effect {
	s.state = StateClosed
	s.EndedAt = time.Now().UTC()
	return []Effect{Close{Status: s.status}}
}

// Result summarizes the closed session for the archive
func (s *Session) Result() models.GameResult {
	return models.GameResult{
		SessionID: s.ID,
		Kind:      s.rules.Kind(),
		GuildID:   s.GuildID,
		Players:   s.rules.Players(),
		Status:    s.status,
		Wagered:   models.TotalStake(s.held),
		PaidOut:   models.TotalStake(s.paid),
		Escrow:    s.Held(),
		Payouts:   s.Paid(),
		Detail:    s.rules.Summary(),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

// statusFor compares a cash-out against what was staked
func statusFor(payout, staked decimal.Decimal) models.SessionStatus {
	switch payout.Cmp(staked) {
	case 1:
		return models.SessionStatusWin
	case -1:
		return models.SessionStatusLoss
	}
	return models.SessionStatusDraw
}
