// Package retry implements the flat-delay retry loop used by image
// generation. The delay is deliberately long and constant: the upstream
// quota window is per-minute, so exponential backoff buys nothing.
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storybook-server/internal/models"
)

const (
	// DefaultMaxAttempts includes the initial try.
	DefaultMaxAttempts = 4
	DefaultDelay       = 20 * time.Second
)

// Operation выполняет одну попытку. Пустой результат без ошибки тоже
// считается неудачей попытки.
type Operation func(ctx context.Context) (string, error)

// ProgressFunc receives a human-readable message before each wait.
type ProgressFunc func(message string)

// Controller retries an Operation a fixed number of times with a flat
// delay between attempts.
type Controller struct {
	maxAttempts int
	delay       time.Duration
	logger      *zap.Logger
}

// New creates a Controller. Non-positive arguments fall back to the
// defaults.
func New(maxAttempts int, delay time.Duration, logger *zap.Logger) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Controller{
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logger.Named("Retry"),
	}
}

// Do runs op until it yields a non-empty result or attempts are
// exhausted. progress is called before every wait; it may be nil.
// Context cancellation aborts immediately, including mid-wait.
func (c *Controller) Do(ctx context.Context, op Operation, progress ProgressFunc) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		result, err := op(ctx)
		if err == nil && result != "" {
			return result, nil
		}
		if err == nil {
			err = models.ErrEmptyResult
		}
		lastErr = err
		c.logger.Warn("Attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", c.maxAttempts),
			zap.Error(err))

		if attempt == c.maxAttempts {
			break
		}

		if progress != nil {
			progress(fmt.Sprintf("Rate limit hit. Retrying in %ds (attempt %d/%d)...",
				int(c.delay.Seconds()), attempt, c.maxAttempts-1))
		}
		if err := c.sleep(ctx); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Controller) sleep(ctx context.Context) error {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
