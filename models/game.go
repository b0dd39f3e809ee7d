package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameKind names a game offered by the bot
type GameKind string

const (
	GameKindDice        GameKind = "dice"
	GameKindCoin        GameKind = "coin"
	GameKindCups        GameKind = "cups"
	GameKindSlots       GameKind = "slots"
	GameKindConnectFour GameKind = "connect_four"
)

// SessionStatus is the resolution of a wager session
type SessionStatus string

const (
	SessionStatusAwaitingInput SessionStatus = "awaiting_input"
	SessionStatusWin           SessionStatus = "resolved_win"
	SessionStatusLoss          SessionStatus = "resolved_loss"
	SessionStatusDraw          SessionStatus = "resolved_draw"
	SessionStatusTimedOut      SessionStatus = "timed_out"
	SessionStatusCancelled     SessionStatus = "cancelled"
)

// IsTerminal reports whether the status ends a session
func (s SessionStatus) IsTerminal() bool {
	return s != SessionStatusAwaitingInput && s != ""
}

// GameResult is the archived summary of a closed wager session
type GameResult struct {
	SessionID uuid.UUID       `json:"session_id"`
	Kind      GameKind        `json:"kind"`
	GuildID   string          `json:"guild_id,omitempty"`
	Players   []AccountID     `json:"players"`
	Status    SessionStatus   `json:"status"`
	Wagered   decimal.Decimal `json:"wagered"`
	PaidOut   decimal.Decimal `json:"paid_out"`
	Escrow    []Stake         `json:"escrow"`
	Payouts   []Stake         `json:"payouts"`
	Detail    string          `json:"detail,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at"`
}
