package privateapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter is a fixed-window per-IP limiter on the login endpoint,
// backed by Redis so the window is shared across replicas. Fails open on
// Redis errors: an unavailable limiter must not lock every client out.
type LoginLimiter struct {
	rdb    *redis.Client
	log    *zap.SugaredLogger
	max    int64
	window time.Duration
}

func NewLoginLimiter(rdb *redis.Client, log *zap.SugaredLogger, max int64, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, log: log, max: max, window: window}
}

// Allow reports whether another login attempt from this request's client IP
// fits the current window.
func (l *LoginLimiter) Allow(ctx context.Context, r *http.Request) bool {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	key := fmt.Sprintf("login_attempts:%s", ip)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warnw("login limiter unavailable", "err", err)
		return true
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Warnw("login limiter expire failed", "err", err)
		}
	}
	return n <= l.max
}
