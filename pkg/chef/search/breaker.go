package search

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerBackend shields the pipeline from a flapping search backend. While
// the circuit is open every call fails fast; the engine treats that like any
// other backend outage (empty result set plus fallback flag).
type BreakerBackend struct {
	inner   Backend
	breaker *gobreaker.CircuitBreaker
}

var _ Backend = &BreakerBackend{}

func NewBreakerBackend(inner Backend, logger *log.Logger) *BreakerBackend {
	settings := gobreaker.Settings{
		Name:    "recipe-search",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Printf("[BREAKER] %s: %s -> %s", name, from, to)
			}
		},
	}
	return &BreakerBackend{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerBackend) Search(ctx context.Context, spec QuerySpec) (*Result, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Search(ctx, spec)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Result), nil
}
