package concurrency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// Attempt is one optimistic pass: load fresh state, revalidate, mutate and write.
// Returning an error wrapping domain.ErrVersionConflict asks for another pass.
// Any other error (including a failed revalidation) ends the loop immediately.
type Attempt[T any] func(ctx context.Context, attempt int) (T, error)

// Options tunes RetryOptimistic
type Options struct {
	// MaxAttempts is the total number of passes, including the first
	MaxAttempts int

	// Operation labels log lines and the OnConflict callback
	Operation string

	// OnConflict is called after each conflicting pass (metrics hook)
	OnConflict func(operation string, attempt int)
}

// Result carries the value of the successful pass and how many passes it took
type Result[T any] struct {
	Value    T
	Attempts int
}

// RetryOptimistic runs fn until it succeeds, fails with a non-conflict error, or
// MaxAttempts conflicting passes are used up. In the last case it returns
// domain.ErrConcurrencyExhausted wrapping the final conflict.
func RetryOptimistic[T any](ctx context.Context, opts Options, fn Attempt[T]) (Result[T], error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = domain.MaxRaidWriteAttempts
	}
	log := logger.FromContext(ctx)

	var lastConflict error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			var zero Result[T]
			return zero, err
		}

		value, err := fn(ctx, attempt)
		if err == nil {
			return Result[T]{Value: value, Attempts: attempt}, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			var zero Result[T]
			return zero, err
		}

		lastConflict = err
		log.Debug(LogMsgVersionConflictRetry, "operation", opts.Operation, "attempt", attempt, "max_attempts", maxAttempts)
		if opts.OnConflict != nil {
			opts.OnConflict(opts.Operation, attempt)
		}
	}

	log.Warn(LogMsgRetriesExhausted, "operation", opts.Operation, "attempts", maxAttempts)
	var zero Result[T]
	return zero, fmt.Errorf("%w: %s after %d attempts: %w", domain.ErrConcurrencyExhausted, opts.Operation, maxAttempts, lastConflict)
}

// RetrySecondary retries a best-effort side effect with linear backoff.
// Secondary writes never roll back the primary write; the final error is returned for flagging.
func RetrySecondary(ctx context.Context, name string, attempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultSecondaryAttempts
	}
	log := logger.FromContext(ctx)

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			if i > 1 {
				log.Info(LogMsgSecondaryRecovered, "effect", name, "attempt", i)
			}
			return nil
		}
		log.Warn(LogMsgSecondaryAttemptFailed, "effect", name, "attempt", i, "error", err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(i)):
		}
	}

	log.Error(LogMsgSecondaryGaveUp, "effect", name, "attempts", attempts, "error", err)
	return fmt.Errorf("%s: %w", name, err)
}
