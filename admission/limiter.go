// Package admission caps how many game sessions run at once, per user and
// per game kind.
package admission

import (
	"context"
	"errors"

	"casinobot/models"
)

var (
	ErrUserBusy = errors.New("you already have a game of this kind running")
	ErrGameFull = errors.New("too many games of this kind are running, try again later")
)

// Limits caps sessions of one game kind. Zero means unlimited.
type Limits struct {
	PerUser int
	Global  int
}

// Limiter admits a session or refuses it. The returned release func must
// be called exactly once when the session ends; calling it again is a no-op.
type Limiter interface {
	Acquire(ctx context.Context, user models.AccountID, kind models.GameKind) (func(), error)
}
