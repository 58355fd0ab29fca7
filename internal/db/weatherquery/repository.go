package weatherquery

import (
	"context"
	"time"

	"gorm.io/gorm"
	"ulascansenturk/weather-app/internal/city"
)

type Repository interface {
	LogWeatherQuery(ctx context.Context, location string, record city.City) error
	GetRecentWeatherQuery(ctx context.Context, location string) (*WeatherQuery, error)
}

type WeatherSQLRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &WeatherSQLRepository{db: db}
}

func (r *WeatherSQLRepository) LogWeatherQuery(ctx context.Context, location string, record city.City) error {
	createdAt := record.FetchedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := WeatherQuery{
		Location:    location,
		CityName:    record.Name,
		Country:     record.Country,
		Temperature: record.Temperature,
		FeelsLike:   record.FeelsLike,
		Humidity:    record.Humidity,
		Description: record.Description,
		Icon:        record.Icon,
		Provider:    record.Provider,
		CreatedAt:   createdAt,
	}

	return r.db.WithContext(ctx).Create(&query).Error
}

func (r *WeatherSQLRepository) GetRecentWeatherQuery(ctx context.Context, location string) (*WeatherQuery, error) {
	var query WeatherQuery
	err := r.db.WithContext(ctx).Where("location = ?", location).Order("created_at DESC").First(&query).Error
	if err != nil {
		return nil, err
	}
	return &query, nil
}
