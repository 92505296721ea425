package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrExhausted is returned when every retry attempt failed. Callers get this
// typed failure, never a partial vector.
var ErrExhausted = errors.New("embedding: retries exhausted")

// RetryingProvider wraps a Provider with bounded exponential-backoff retries.
// Retries are explicit and bounded; there is no unbounded loop here.
type RetryingProvider struct {
	inner      Provider
	maxTries   uint
	perCallTTL time.Duration
}

var _ Provider = &RetryingProvider{}

// WithRetry wraps provider with maxTries attempts. perCallTTL bounds each
// individual attempt; zero means the parent context alone bounds it.
func WithRetry(provider Provider, maxTries uint, perCallTTL time.Duration) *RetryingProvider {
	if maxTries == 0 {
		maxTries = 3
	}
	return &RetryingProvider{
		inner:      provider,
		maxTries:   maxTries,
		perCallTTL: perCallTTL,
	}
}

func (r *RetryingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	operation := func() ([]float32, error) {
		callCtx := ctx
		if r.perCallTTL > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.perCallTTL)
			defer cancel()
		}
		return r.inner.Embed(callCtx, text)
	}

	vec, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(r.maxTries),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, err)
	}
	return vec, nil
}
