package weatherquery

import (
	"time"

	"ulascansenturk/weather-app/internal/city"
)

type WeatherQuery struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Location    string    `json:"location" gorm:"index:idx_location;index:idx_location_created_at"`
	CityName    string    `json:"city_name" gorm:"column:city_name"`
	Country     string    `json:"country" gorm:"column:country"`
	Temperature float64   `json:"temperature" gorm:"column:temperature"`
	FeelsLike   float64   `json:"feels_like" gorm:"column:feels_like"`
	Humidity    int       `json:"humidity" gorm:"column:humidity"`
	Description string    `json:"description" gorm:"column:description"`
	Icon        string    `json:"icon" gorm:"column:icon"`
	Provider    string    `json:"provider" gorm:"column:provider"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_created_at;index:idx_location_created_at"`
}

func (WeatherQuery) TableName() string {
	return "weather_queries"
}

// City converts a logged query back into a city record.
func (q WeatherQuery) City() city.City {
	return city.City{
		Name:        q.CityName,
		Country:     q.Country,
		Temperature: q.Temperature,
		FeelsLike:   q.FeelsLike,
		Humidity:    q.Humidity,
		Description: q.Description,
		Icon:        q.Icon,
		Provider:    q.Provider,
		FetchedAt:   q.CreatedAt,
	}
}
