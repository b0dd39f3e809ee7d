package admission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"casinobot/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// acquireScript increments both counters or neither.
// Returns 0 on success, 1 when the user is busy, 2 when the game is full.
var acquireScript = redis.NewScript(`
	local userKey = KEYS[1]
	local globalKey = KEYS[2]
	local perUser = tonumber(ARGV[1])
	local global = tonumber(ARGV[2])
	local ttl = tonumber(ARGV[3])

	local users = tonumber(redis.call("GET", userKey) or "0")
	if perUser > 0 and users >= perUser then
		return 1
	end
	local games = tonumber(redis.call("GET", globalKey) or "0")
	if global > 0 and games >= global then
		return 2
	end

	redis.call("INCR", userKey)
	redis.call("PEXPIRE", userKey, ttl)
	redis.call("INCR", globalKey)
	redis.call("PEXPIRE", globalKey, ttl)
	return 0
`)

var releaseScript = redis.NewScript(`
	for _, key in ipairs(KEYS) do
		if tonumber(redis.call("DECR", key)) <= 0 then
			redis.call("DEL", key)
		end
	end
	return 0
`)

// RedisLimiter shares session counts between bot processes. Counters expire
// after ttl so a crashed process cannot hold a slot forever.
type RedisLimiter struct {
	client redis.UniversalClient
	limits map[models.GameKind]Limits
	ttl    time.Duration
	prefix string
}

func NewRedisLimiter(client redis.UniversalClient, limits map[models.GameKind]Limits, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limits: limits, ttl: ttl, prefix: "casinobot:admission"}
}

func (l *RedisLimiter) keys(user models.AccountID, kind models.GameKind) []string {
	return []string{
		fmt.Sprintf("%s:%s:user:%d", l.prefix, kind, user),
		fmt.Sprintf("%s:%s:global", l.prefix, kind),
	}
}

func (l *RedisLimiter) Acquire(ctx context.Context, user models.AccountID, kind models.GameKind) (func(), error) {
	limits := l.limits[kind]
	keys := l.keys(user, kind)

	code, err := acquireScript.Run(ctx, l.client, keys, limits.PerUser, limits.Global, l.ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s slot: %w", kind, err)
	}
	switch code {
	case 1:
		return nil, ErrUserBusy
	case 2:
		return nil, ErrGameFull
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The session context may be gone by now
			if err := releaseScript.Run(context.Background(), l.client, keys).Err(); err != nil {
				log.WithFields(log.Fields{
					"user":  user,
					"kind":  kind,
					"error": err,
				}).Error("Failed to release admission slot")
			}
		})
	}, nil
}
