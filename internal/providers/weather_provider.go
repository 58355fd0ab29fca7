package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/metrics"
)

var (
	ErrCityNotFound        = errors.New("city not found")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoProviders         = errors.New("no weather providers configured")
)

const (
	minPlausibleTemp = -100
	maxPlausibleTemp = 100
)

// Fetcher is a single upstream weather API.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, location string) (city.City, error)
}

type WeatherAPIService interface {
	GetWeatherData(ctx context.Context, location string) (city.City, error)
}

type weatherAPIService struct {
	fetchers []Fetcher
	metrics  *metrics.Recorder
	logger   zerolog.Logger
}

// NewWeatherAPIService returns a service that asks fetchers in order and
// returns the first successful answer.
func NewWeatherAPIService(logger zerolog.Logger, rec *metrics.Recorder, fetchers ...Fetcher) WeatherAPIService {
	return &weatherAPIService{
		fetchers: fetchers,
		metrics:  rec,
		logger:   logger,
	}
}

func (s *weatherAPIService) GetWeatherData(ctx context.Context, location string) (city.City, error) {
	if len(s.fetchers) == 0 {
		return city.City{}, ErrNoProviders
	}

	var errs []error
	notFound := false

	for i, f := range s.fetchers {
		attemptCtx, cancel := attemptContext(ctx, len(s.fetchers)-i)
		start := time.Now()
		data, err := f.Fetch(attemptCtx, location)
		elapsed := time.Since(start)
		cancel()

		if err == nil {
			s.metrics.ObserveUpstream(f.Name(), "success", elapsed)
			s.logger.Debug().
				Str("provider", f.Name()).
				Str("location", location).
				Dur("duration", elapsed).
				Msg("fetched weather data")
			return data, nil
		}

		if errors.Is(err, ErrCityNotFound) {
			notFound = true
			s.metrics.ObserveUpstream(f.Name(), "not_found", elapsed)
		} else {
			s.metrics.ObserveUpstream(f.Name(), "error", elapsed)
		}

		s.logger.Warn().
			Err(err).
			Str("provider", f.Name()).
			Str("location", location).
			Msg("weather provider failed")

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return city.City{}, ctxErr
	}

	if notFound {
		return city.City{}, fmt.Errorf("%w: %s", ErrCityNotFound, location)
	}

	return city.City{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, errors.Join(errs...))
}

// attemptContext splits what is left of ctx's deadline evenly across the
// remaining providers, so a hung provider cannot starve the ones after it.
func attemptContext(ctx context.Context, remaining int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || remaining <= 1 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Until(deadline)/time.Duration(remaining))
}

func checkTemperature(provider string, temp float64) error {
	if temp < minPlausibleTemp || temp > maxPlausibleTemp {
		return fmt.Errorf("%s returned unlikely temperature value: %f", provider, temp)
	}
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
