package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName   string
	ServerAddress string

	DBName     string
	DBPassword string
	DBUser     string
	DBPort     string
	DBHost     string

	Env         string
	LogLevel    string
	HTTPTimeout int32

	OpenWeatherMapAPIKey  string
	OpenWeatherMapBaseURL string
	WeatherAPIAPIKey      string
	WeatherAPIBaseURL     string
	UpstreamTimeout       time.Duration

	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "weather-app")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_TIMEOUT", 15)
	v.SetDefault("OPENWEATHERMAP_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("WEATHER_API_BASE_URL", "https://api.weatherapi.com")
	v.SetDefault("UPSTREAM_TIMEOUT", 10*time.Second)
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("CACHE_CLEANUP_INTERVAL", time.Minute)
	v.SetDefault("BREAKER_MAX_FAILURES", 5)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", 30*time.Second)
	v.SetDefault("REDIS_DB", 0)

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	config := &Config{
		ServiceName:           v.GetString("SERVICE_NAME"),
		ServerAddress:         v.GetString("SERVER_ADDRESS"),
		DBName:                v.GetString("DATABASE_NAME"),
		DBPassword:            v.GetString("DATABASE_PASSWORD"),
		DBUser:                v.GetString("DATABASE_USER"),
		DBPort:                v.GetString("DATABASE_PORT"),
		DBHost:                v.GetString("DATABASE_HOST"),
		Env:                   v.GetString("ENV"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		HTTPTimeout:           v.GetInt32("HTTP_TIMEOUT"),
		OpenWeatherMapAPIKey:  v.GetString("OPENWEATHERMAP_API_KEY"),
		OpenWeatherMapBaseURL: v.GetString("OPENWEATHERMAP_BASE_URL"),
		WeatherAPIAPIKey:      v.GetString("WEATHER_API_API_KEY"),
		WeatherAPIBaseURL:     v.GetString("WEATHER_API_BASE_URL"),
		UpstreamTimeout:       v.GetDuration("UPSTREAM_TIMEOUT"),
		CacheTTL:              v.GetDuration("CACHE_TTL"),
		CacheCleanupInterval:  v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		BreakerMaxFailures:    v.GetUint32("BREAKER_MAX_FAILURES"),
		BreakerOpenTimeout:    v.GetDuration("BREAKER_OPEN_TIMEOUT"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               v.GetInt("REDIS_DB"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("SERVER_ADDRESS must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %d", c.HTTPTimeout)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.CacheCleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive, got %s", c.CacheCleanupInterval)
	}
	if c.BreakerMaxFailures == 0 {
		return errors.New("BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// DatabaseEnabled reports whether a postgres query log is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
