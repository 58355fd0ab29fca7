package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"ulascansenturk/weather-app/internal/city"
)

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerFetcher guards a Fetcher with a circuit breaker. Unknown cities are
// valid answers and never count as failures.
type BreakerFetcher struct {
	cb      *gobreaker.CircuitBreaker
	wrapped Fetcher
}

func NewBreakerFetcher(cfg BreakerConfig, wrapped Fetcher) *BreakerFetcher {
	settings := gobreaker.Settings{
		Name:        wrapped.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCityNotFound)
		},
	}

	return &BreakerFetcher{
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerFetcher) Name() string {
	return b.wrapped.Name()
}

func (b *BreakerFetcher) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerFetcher) Fetch(ctx context.Context, location string) (city.City, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, location)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return city.City{}, fmt.Errorf("%s unavailable: %w", b.Name(), err)
		}
		return city.City{}, err
	}

	data, ok := result.(city.City)
	if !ok {
		return city.City{}, fmt.Errorf("%s returned unexpected result", b.Name())
	}
	return data, nil
}
