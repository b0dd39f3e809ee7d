package admission

import (
	"context"
	"sync"

	"casinobot/models"
)

type userKind struct {
	user models.AccountID
	kind models.GameKind
}

// MemoryLimiter counts sessions in process
type MemoryLimiter struct {
	mu     sync.Mutex
	limits map[models.GameKind]Limits
	users  map[userKind]int
	global map[models.GameKind]int
}

func NewMemoryLimiter(limits map[models.GameKind]Limits) *MemoryLimiter {
	return &MemoryLimiter{
		limits: limits,
		users:  make(map[userKind]int),
		global: make(map[models.GameKind]int),
	}
}

func (l *MemoryLimiter) Acquire(ctx context.Context, user models.AccountID, kind models.GameKind) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits := l.limits[kind]
	key := userKind{user, kind}
	if limits.PerUser > 0 && l.users[key] >= limits.PerUser {
		return nil, ErrUserBusy
	}
	if limits.Global > 0 && l.global[kind] >= limits.Global {
		return nil, ErrGameFull
	}
	l.users[key]++
	l.global[kind]++

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.users[key]--; l.users[key] <= 0 {
				delete(l.users, key)
			}
			l.global[kind]--
		})
	}, nil
}
