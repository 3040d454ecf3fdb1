package middleware

import (
	"resale-inventory/pkg/log"
)

type Middleware struct {
	l       log.Logger
	limiter *rateLimiter
}

// Config tunes the middleware. A zero RateLimitPerMin disables rate limiting.
type Config struct {
	RateLimitPerMin int
}

func New(l log.Logger, cfg Config) Middleware {
	mw := Middleware{l: l}
	if cfg.RateLimitPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	return mw
}
