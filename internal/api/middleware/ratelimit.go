package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/webscaffold/webapp/internal/errs"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// Store overrides the in-memory limiter, e.g. with the Redis store.
	Store echomiddleware.RateLimiterStore
	// ExemptPrefixes are path prefixes that are never limited.
	ExemptPrefixes []string
	// Rejected is incremented for every denied request; may be nil.
	Rejected prometheus.Counter
	Logger   zerolog.Logger
}

// NewMemoryRateLimitStore spreads requests-per-window over a token bucket
// that allows a full window's worth of burst.
func NewMemoryRateLimitStore(requests int, window time.Duration) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requests) / window.Seconds()),
		Burst:     requests,
		ExpiresIn: 2 * window,
	})
}

// RateLimit rejects clients (by real IP) exceeding cfg.Requests per
// cfg.Window with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := cfg.Store
	if store == nil {
		store = NewMemoryRateLimitStore(cfg.Requests, cfg.Window)
	}
	retryAfter := strconv.Itoa(int(cfg.Window.Seconds()))

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			for _, p := range cfg.ExemptPrefixes {
				if strings.HasPrefix(path, p) {
					return true
				}
			}
			return false
		},
		Store: failOpen{store: store, log: cfg.Logger},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			if cfg.Rejected != nil {
				cfg.Rejected.Inc()
			}
			return errs.RateLimit(retryAfter)
		},
	})
}

// failOpen allows the request when the backing store errors.
type failOpen struct {
	store echomiddleware.RateLimiterStore
	log   zerolog.Logger
}

func (f failOpen) Allow(identifier string) (bool, error) {
	ok, err := f.store.Allow(identifier)
	if err != nil {
		f.log.Warn().Err(err).Str("client", identifier).Msg("rate limit store unavailable")
		return true, nil
	}
	return ok, nil
}
