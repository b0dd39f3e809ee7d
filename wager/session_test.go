package wager

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"casinobot/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player = models.AccountID(100)

func newCupsSession(t *testing.T, seed uint64) *Session {
	t.Helper()
	rules, err := NewCups(player, decimal.NewFromInt(10), rand.New(rand.NewPCG(seed, 0)), time.Minute)
	require.NoError(t, err)
	return NewSession(rules)
}

// openSession drives a single-stake session to awaiting input
func openSession(t *testing.T, s *Session) {
	t.Helper()
	effects := s.Handle(Start{})
	require.Len(t, effects, 1)
	escrow, ok := effects[0].(Escrow)
	require.True(t, ok)

	effects = s.Handle(EscrowSucceeded{Stake: models.Stake{Account: escrow.Hold.Account, Amount: escrow.Hold.Amount}})
	require.Equal(t, []Effect{Render{}}, effects)
	assert.Equal(t, StateEscrowed, s.State())

	effects = s.Handle(Opened{MessageID: "m1"})
	require.Len(t, effects, 1)
	await, ok := effects[0].(Await)
	require.True(t, ok)
	assert.Equal(t, "m1", await.MessageID)
	assert.Equal(t, StateAwaitingInput, s.State())
}

func TestSession_TimeoutSettlesExactlyOnce(t *testing.T) {
	s := newCupsSession(t, 1)
	openSession(t, s)

	effects := s.Handle(Timeout{})
	require.Len(t, effects, 1)
	settle, ok := effects[0].(Settle)
	require.True(t, ok)
	assert.True(t, models.TotalStake(settle.Credits).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, StateSettling, s.State())

	// Late events while settling change nothing
	assert.Empty(t, s.Handle(Timeout{}))
	assert.Empty(t, s.Handle(Input{User: player, Token: "1"}))
	assert.Empty(t, s.Handle(Cancel{}))

	effects = s.Handle(Settled{})
	assert.Equal(t, []Effect{Close{Status: models.SessionStatusTimedOut}}, effects)
	assert.Equal(t, StateClosed, s.State())

	// and after close
	assert.Empty(t, s.Handle(Settled{}))
	assert.Empty(t, s.Handle(Timeout{}))
	assert.Empty(t, s.Handle(Input{User: player, Token: TokenCashOut}))

	result := s.Result()
	assert.Equal(t, models.SessionStatusTimedOut, result.Status)
	assert.True(t, result.PaidOut.Equal(decimal.NewFromInt(10)))
	assert.Len(t, result.Payouts, 1)
}

func TestSession_IgnoresInputFromOtherUsersAndTokens(t *testing.T) {
	s := newCupsSession(t, 1)
	openSession(t, s)

	assert.Empty(t, s.Handle(Input{User: player + 1, Token: "1"}))
	assert.Empty(t, s.Handle(Input{User: player, Token: "spin"}))
	assert.Equal(t, StateAwaitingInput, s.State())
}

func TestSession_CorrectPickThenCashOut(t *testing.T) {
	const seed = 77
	prize := rand.New(rand.NewPCG(seed, 0)).IntN(3) + 1

	s := newCupsSession(t, seed)
	openSession(t, s)

	effects := s.Handle(Input{User: player, Token: string(rune('0' + prize))})
	require.Len(t, effects, 2)
	assert.Equal(t, Render{}, effects[0])
	assert.True(t, s.Rules().(*Cups).Stake().Equal(decimal.NewFromInt(20)))

	effects = s.Handle(Input{User: player, Token: TokenCashOut})
	require.Len(t, effects, 1)
	settle := effects[0].(Settle)
	assert.Equal(t, []models.Stake{{Account: player, Amount: decimal.NewFromInt(20)}}, settle.Credits)

	assert.Equal(t, []Effect{Close{Status: models.SessionStatusWin}}, s.Handle(Settled{}))
}

func TestSession_WrongPickLosesWithoutSettlement(t *testing.T) {
	const seed = 77
	prize := rand.New(rand.NewPCG(seed, 0)).IntN(3) + 1
	wrong := prize%3 + 1

	s := newCupsSession(t, seed)
	openSession(t, s)

	effects := s.Handle(Input{User: player, Token: string(rune('0' + wrong))})
	assert.Equal(t, []Effect{Close{Status: models.SessionStatusLoss}}, effects)
	assert.True(t, s.Result().PaidOut.IsZero())
}

func TestSession_OpeningEscrowFailureAbortsWithoutMutation(t *testing.T) {
	s := newCupsSession(t, 1)
	effects := s.Handle(Start{})
	escrow := effects[0].(Escrow)

	effects = s.Handle(EscrowFailed{Hold: escrow.Hold, Err: errors.New("insufficient funds")})
	assert.Equal(t, []Effect{Close{Status: models.SessionStatusCancelled}}, effects)
	assert.Empty(t, s.Held())
	assert.Error(t, s.Failure())
}

func TestSession_SettleFailureRefundsOnce(t *testing.T) {
	s := newCupsSession(t, 1)
	openSession(t, s)

	effects := s.Handle(Input{User: player, Token: TokenCashOut})
	require.IsType(t, Settle{}, effects[0])

	effects = s.Handle(SettleFailed{Err: errors.New("connection reset")})
	require.Len(t, effects, 1)
	refund, ok := effects[0].(Refund)
	require.True(t, ok)
	assert.Equal(t, s.Held(), refund.Stakes)

	// The compensating refund is not retried forever
	effects = s.Handle(SettleFailed{Err: errors.New("still down")})
	assert.Equal(t, []Effect{Close{Status: models.SessionStatusDraw}}, effects)
	assert.True(t, s.Result().PaidOut.IsZero())
}

func TestSession_CancelRefundsHeldStakes(t *testing.T) {
	s := newCupsSession(t, 1)
	openSession(t, s)

	effects := s.Handle(Cancel{Reason: "shutting down"})
	require.Len(t, effects, 1)
	refund := effects[0].(Refund)
	assert.Equal(t, []models.Stake{{Account: player, Amount: decimal.NewFromInt(10)}}, refund.Stakes)

	assert.Equal(t, []Effect{Close{Status: models.SessionStatusCancelled}}, s.Handle(Settled{}))
	assert.Equal(t, "shutting down", s.Notice())
}

func TestSession_FriendlyConnectFourSkipsEscrow(t *testing.T) {
	rules, err := NewConnectFour(1, decimal.Zero, time.Minute, time.Minute)
	require.NoError(t, err)
	s := NewSession(rules)

	assert.Equal(t, []Effect{Render{}}, s.Handle(Start{}))
	effects := s.Handle(Opened{MessageID: "m"})
	await := effects[0].(Await)
	assert.Empty(t, await.Users, "anyone may join a lobby")
	assert.Equal(t, lobbyTokens, await.Tokens)

	// The creator cannot join their own game
	assert.Equal(t, []Effect{await}, s.Handle(Input{User: 1, Token: TokenJoin}))

	effects = s.Handle(Input{User: 2, Token: TokenJoin})
	require.Len(t, effects, 2)
	await = effects[1].(Await)
	assert.Equal(t, []models.AccountID{1}, await.Users, "red moves first")
	assert.Equal(t, columnTokens, await.Tokens)
}
