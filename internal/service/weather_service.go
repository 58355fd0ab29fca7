package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/db/weatherquery"
	"ulascansenturk/weather-app/internal/metrics"
	"ulascansenturk/weather-app/internal/providers"
)

const (
	SourceProvider = "provider"
	SourceCache    = "cache"
	SourceHistory  = "history"

	maxLocationLength = 85
	queryLogTimeout   = 5 * time.Second

	defaultCacheTTL        = 10 * time.Minute
	defaultUpstreamTimeout = 10 * time.Second
)

var ErrInvalidLocation = errors.New("invalid location")

var locationPattern = regexp.MustCompile(`^[\p{L}\p{M}][\p{L}\p{M} .,'-]*$`)

type WeatherResponse struct {
	City    city.City `json:"city"`
	Source  string    `json:"source"`
	Warning string    `json:"warning,omitempty"`
}

type WeatherService interface {
	GetWeather(ctx context.Context, location string) (WeatherResponse, error)
	ListCities() []city.City
}

// WeatherCache is satisfied by the in-memory and redis caches.
type WeatherCache interface {
	Get(ctx context.Context, key string) (*city.City, bool, error)
	Set(ctx context.Context, key string, data *city.City, ttl time.Duration) error
}

type Options struct {
	CacheTTL        time.Duration
	UpstreamTimeout time.Duration
}

type weatherService struct {
	weatherAPI       providers.WeatherAPIService
	cache            WeatherCache
	weatherQueryRepo weatherquery.Repository
	registry         *city.Registry
	metrics          *metrics.Recorder
	logger           zerolog.Logger
	group            singleflight.Group
	opts             Options
}

// NewWeatherService wires the lookup pipeline. cache and weatherQueryRepo may be nil.
func NewWeatherService(
	weatherAPI providers.WeatherAPIService,
	cache WeatherCache,
	weatherQueryRepo weatherquery.Repository,
	registry *city.Registry,
	rec *metrics.Recorder,
	logger zerolog.Logger,
	opts Options,
) WeatherService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = defaultUpstreamTimeout
	}

	return &weatherService{
		weatherAPI:       weatherAPI,
		cache:            cache,
		weatherQueryRepo: weatherQueryRepo,
		registry:         registry,
		metrics:          rec,
		logger:           logger,
		opts:             opts,
	}
}

// ValidateLocation checks a user supplied city name.
func ValidateLocation(location string) error {
	key := city.NormalizeName(location)
	if key == "" {
		return fmt.Errorf("%w: location cannot be empty", ErrInvalidLocation)
	}
	if utf8.RuneCountInString(key) > maxLocationLength {
		return fmt.Errorf("%w: location is longer than %d characters", ErrInvalidLocation, maxLocationLength)
	}
	if !locationPattern.MatchString(key) {
		return fmt.Errorf("%w: location contains unsupported characters", ErrInvalidLocation)
	}
	return nil
}

func (s *weatherService) GetWeather(ctx context.Context, location string) (WeatherResponse, error) {
	if err := ValidateLocation(location); err != nil {
		return WeatherResponse{}, err
	}

	key := city.NormalizeName(location)

	if cached, ok := s.fromCache(ctx, key); ok {
		return WeatherResponse{City: *cached, Source: SourceCache}, nil
	}

	resultCh := s.group.DoChan(key, func() (interface{}, error) {
		return s.fetch(ctx, key)
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return s.fromHistory(ctx, key, res.Err)
		}
		return WeatherResponse{City: res.Val.(city.City), Source: SourceProvider}, nil
	case <-ctx.Done():
		return WeatherResponse{}, ctx.Err()
	}
}

func (s *weatherService) ListCities() []city.City {
	return s.registry.List()
}

func (s *weatherService) fromCache(ctx context.Context, key string) (*city.City, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheError()
		s.logger.Warn().Err(err).Str("location", key).Msg("weather cache lookup failed")
		return nil, false
	}

	s.metrics.CacheLookup(ok)
	if ok {
		// A shared cache can outlive this process's registry.
		s.registry.Upsert(*cached)
	}
	return cached, ok
}

// fetch runs once per key for all concurrent callers, so it must not inherit
// one caller's cancellation.
func (s *weatherService) fetch(ctx context.Context, key string) (city.City, error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.UpstreamTimeout)
	defer cancel()

	record, err := s.weatherAPI.GetWeatherData(fetchCtx, key)
	if err != nil {
		return city.City{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(fetchCtx, key, &record, s.opts.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("location", key).Msg("failed to cache weather data")
		}
	}

	s.registry.Upsert(record)

	if s.weatherQueryRepo != nil {
		go func() {
			logCtx, cancel := context.WithTimeout(context.Background(), queryLogTimeout)
			defer cancel()

			if err := s.weatherQueryRepo.LogWeatherQuery(logCtx, key, record); err != nil {
				s.logger.Error().Err(err).Str("location", key).Msg("Failed to log weather query")
			}
		}()
	}

	return record, nil
}

// fromHistory answers with the last logged record when every provider is down.
// Unknown cities and invalid input are final.
func (s *weatherService) fromHistory(ctx context.Context, key string, fetchErr error) (WeatherResponse, error) {
	if s.weatherQueryRepo == nil ||
		errors.Is(fetchErr, providers.ErrCityNotFound) ||
		errors.Is(fetchErr, providers.ErrNoProviders) {
		return WeatherResponse{}, fetchErr
	}

	previous, err := s.weatherQueryRepo.GetRecentWeatherQuery(ctx, key)
	if err != nil || previous == nil {
		return WeatherResponse{}, fetchErr
	}

	record := previous.City()
	s.logger.Warn().
		Err(fetchErr).
		Str("location", key).
		Time("fetched_at", record.FetchedAt).
		Msg("serving last known weather data")

	return WeatherResponse{
		City:    record,
		Source:  SourceHistory,
		Warning: fmt.Sprintf("Weather providers are unavailable; showing data from %s", record.FetchedAt.Format(time.RFC1123)),
	}, nil
}
