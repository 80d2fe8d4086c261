package redisrate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// admitScript runs INCR and the first-increment EXPIRE as one atomic unit.
// Redis executes Lua scripts without interleaving other commands, so
// concurrent callers sharing a key never lose updates or leave a counter
// without a TTL.
var admitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

const keyPrefix = "ratelimit:"

// Limiter is a fixed-window counter shared across server processes through
// Redis. A burst straddling a window boundary can pass up to twice the
// nominal limit; that approximation is accepted.
type Limiter struct {
	rdb     *redis.Client
	limit   int
	window  time.Duration
	timeout time.Duration
	log     *logrus.Logger
}

func New(rdb *redis.Client, limit int, window time.Duration, log *logrus.Logger) *Limiter {
	return &Limiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Admit counts the request against the client key's current window. When the
// cache is unreachable it fails open: the vote path stays available and the
// degraded mode is logged instead of blocking traffic.
func (l *Limiter) Admit(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, err := admitScript.Run(ctx, l.rdb, []string{keyPrefix + key}, int(l.window.Seconds())).Int64()
	if err != nil {
		l.log.WithError(err).WithField("key", key).Warn("rate limit cache unavailable, failing open")
		return true
	}

	return count <= int64(l.limit)
}
