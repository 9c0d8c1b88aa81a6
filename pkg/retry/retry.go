// Package retry retries the database bootstrap with exponential backoff.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds the backoff policy.
type Config struct {
	// MaxAttempts counts the first call.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryableErrors are case-insensitive substrings of retryable error
	// messages. Empty means every error is retried.
	RetryableErrors []string
	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// PostgresConfig returns the policy for connecting to a starting PostgreSQL.
func PostgresConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		RetryableErrors: []string{
			"connection refused",
			"connection reset",
			"connection timed out",
			"i/o timeout",
			"dial tcp",
			"network is unreachable",
			"no connection could be made",
			"server closed the connection",
			"too many connections",
			"database system is starting up",
		},
	}
}

// DoWithResult calls fn until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, errors.New("MaxAttempts must be greater than 0")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialDelay
	exp.MaxInterval = cfg.MaxDelay
	exp.Multiplier = cfg.Multiplier
	exp.RandomizationFactor = 0.1
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), ctx)

	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && !IsRetryableError(err, cfg) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	notify := func(err error, delay time.Duration) {
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
	}
	return backoff.RetryNotifyWithData(op, policy, notify)
}

// IsRetryableError reports whether err matches the retryable patterns.
func IsRetryableError(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if len(cfg.RetryableErrors) == 0 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
