package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"ulascansenturk/weather-app/config"
	"ulascansenturk/weather-app/internal/api/v1/handlers"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/db/weatherquery"
	"ulascansenturk/weather-app/internal/inmemorycache"
	"ulascansenturk/weather-app/internal/metrics"
	"ulascansenturk/weather-app/internal/providers"
	"ulascansenturk/weather-app/internal/rediscache"
	"ulascansenturk/weather-app/internal/server"
	"ulascansenturk/weather-app/internal/service"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logLevel, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Str("service_name", conf.ServiceName).
		Str("env", conf.Env).
		Timestamp().
		Logger()
	log.Logger = logger

	ctx, mainCtxStop := context.WithCancel(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	weatherAPIService := providers.NewWeatherAPIService(logger, recorder, initializeProviders(conf, logger)...)

	cache, cacheCloser := initializeCache(ctx, conf, logger)
	defer func() {
		if err := cacheCloser.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close cache")
		}
	}()

	var weatherRepo weatherquery.Repository
	if conf.DatabaseEnabled() {
		db, dbErr := initializeDatabase(conf)
		if dbErr != nil {
			logger.Fatal().Err(dbErr).Msg("failed to initialize database")
		}
		weatherRepo = weatherquery.NewRepository(db)
	} else {
		logger.Info().Msg("DATABASE_HOST not set, weather query log disabled")
	}

	weatherService := service.NewWeatherService(
		weatherAPIService,
		cache,
		weatherRepo,
		city.NewRegistry(),
		recorder,
		logger,
		service.Options{
			CacheTTL:        conf.CacheTTL,
			UpstreamTimeout: conf.UpstreamTimeout,
		},
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", handlers.NewWeatherHandler(weatherService, conf.HTTPTimeoutDuration()))

	httpServer, err := server.Listen(
		conf.ServerAddress,
		handlers.WithRequestLogging(mux, logger, recorder),
		conf.HTTPTimeoutDuration(),
	)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			logger.Fatal().Err(err).Str("address", conf.ServerAddress).Msg("address already in use")
		}
		logger.Fatal().Err(err).Msg("failed to bind server address")
	}

	handleSignals(ctx, mainCtxStop, func(shutdownCtx context.Context) {
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	})

	logger.Info().Msgf("started server on %s", httpServer.Addr())

	if serverErr := httpServer.Serve(); serverErr != nil {
		logger.Err(serverErr).Msg("server stopped")
		mainCtxStop()
	}
	<-ctx.Done()
}

func initializeProviders(conf *config.Config, logger zerolog.Logger) []providers.Fetcher {
	breaker := providers.BreakerConfig{
		MaxFailures: conf.BreakerMaxFailures,
		OpenTimeout: conf.BreakerOpenTimeout,
	}

	var fetchers []providers.Fetcher
	if conf.OpenWeatherMapAPIKey != "" {
		client := providers.NewOpenWeatherMapClient(conf.OpenWeatherMapAPIKey, conf.OpenWeatherMapBaseURL, conf.UpstreamTimeout)
		fetchers = append(fetchers, providers.NewBreakerFetcher(breaker, client))
	}
	if conf.WeatherAPIAPIKey != "" {
		client := providers.NewWeatherAPIClient(conf.WeatherAPIAPIKey, conf.WeatherAPIBaseURL, conf.UpstreamTimeout)
		fetchers = append(fetchers, providers.NewBreakerFetcher(breaker, client))
	}

	if len(fetchers) == 0 {
		logger.Warn().Msg("no weather provider API keys configured, weather lookups will fail")
	}
	return fetchers
}

func initializeCache(ctx context.Context, conf *config.Config, logger zerolog.Logger) (service.WeatherCache, io.Closer) {
	if conf.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		redisCache, err := rediscache.Connect(pingCtx, conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Str("address", conf.RedisAddr).Msg("failed to connect to redis")
		}
		logger.Info().Str("address", conf.RedisAddr).Msg("using redis weather cache")
		return redisCache, redisCache
	}

	memoryCache := inmemorycache.NewInMemoryCacheProvider(conf.CacheCleanupInterval)
	return memoryCache, memoryCache
}

func initializeDatabase(conf *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(conf.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&weatherquery.WeatherQuery{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	return db, nil
}

func handleSignals(ctx context.Context, cancelCtx context.CancelFunc, callback func(context.Context)) {
	sig := make(chan os.Signal, 1)

	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	const shutdownDuration = 30 * time.Second

	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownDuration)

		go func() {
			<-shutdownCtx.Done()

			if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
				panic("graceful shutdown timed out.. forcing exit.")
			}
		}()

		callback(shutdownCtx)

		cancel()
		cancelCtx()
	}()
}
