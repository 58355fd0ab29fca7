package weatherquery_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/db/weatherquery"
)

type WeatherRepositorySuite struct {
	suite.Suite
	DB   *gorm.DB
	mock sqlmock.Sqlmock
	repo weatherquery.Repository
	ctx  context.Context
}

func (s *WeatherRepositorySuite) SetupSuite() {
	var err error

	var db *sql.DB
	db, s.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	s.DB, err = gorm.Open(dialector, &gorm.Config{})
	s.Require().NoError(err)

	s.repo = weatherquery.NewRepository(s.DB)
	s.ctx = context.Background()
}

func (s *WeatherRepositorySuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *WeatherRepositorySuite) TestLogWeatherQuery() {
	s.Run("Successfully logs a weather query", func() {
		fetchedAt := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
		record := city.City{
			Name:        "Istanbul",
			Country:     "TR",
			Temperature: 22.5,
			FeelsLike:   23.1,
			Humidity:    64,
			Description: "scattered clouds",
			Icon:        "https://openweathermap.org/img/wn/03d@2x.png",
			Provider:    "openweathermap",
			FetchedAt:   fetchedAt,
		}

		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WithArgs(
				"istanbul",
				"Istanbul",
				"TR",
				22.5,
				23.1,
				64,
				"scattered clouds",
				"https://openweathermap.org/img/wn/03d@2x.png",
				"openweathermap",
				fetchedAt,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		s.mock.ExpectCommit()

		err := s.repo.LogWeatherQuery(s.ctx, "istanbul", record)

		s.Require().NoError(err)
	})

	s.Run("Defaults the timestamp when the record has none", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WithArgs(
				"oslo",
				"Oslo",
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		s.mock.ExpectCommit()

		err := s.repo.LogWeatherQuery(s.ctx, "oslo", city.City{Name: "Oslo"})

		s.Require().NoError(err)
	})

	s.Run("Returns error when database operation fails", func() {
		dbError := errors.New("database error")

		s.mock.ExpectBegin()
		s.mock.ExpectQuery(`INSERT INTO "weather_queries"`).
			WillReturnError(dbError)
		s.mock.ExpectRollback()

		err := s.repo.LogWeatherQuery(s.ctx, "paris", city.City{Name: "Paris", Temperature: 18})

		s.Require().Error(err)
		s.Require().Equal("database error", err.Error())
	})
}

func (s *WeatherRepositorySuite) TestGetRecentWeatherQuery() {
	queryRegex := `SELECT \* FROM "weather_queries" WHERE location = \$1 ORDER BY created_at DESC,"weather_queries"."id" LIMIT \$2`

	s.Run("Successfully retrieves the most recent weather query", func() {
		createdAt := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "location", "city_name", "country", "temperature",
			"feels_like", "humidity", "description", "icon", "provider", "created_at",
		}).AddRow(
			1, "london", "London", "GB", 10.0,
			8.5, 80, "light rain", "https://cdn/rain.png", "weatherapi", createdAt,
		)

		s.mock.ExpectQuery(queryRegex).
			WithArgs("london", 1).
			WillReturnRows(rows)

		result, err := s.repo.GetRecentWeatherQuery(s.ctx, "london")

		s.Require().NoError(err)
		s.Require().NotNil(result)
		s.Require().Equal("london", result.Location)
		s.Require().Equal("London", result.CityName)
		s.Require().Equal(10.0, result.Temperature)
		s.Require().Equal(80, result.Humidity)

		record := result.City()
		s.Require().Equal("London", record.Name)
		s.Require().Equal("light rain", record.Description)
		s.Require().Equal("https://cdn/rain.png", record.Icon)
		s.Require().True(createdAt.Equal(record.FetchedAt))
	})

	s.Run("Returns error when no record found", func() {
		s.mock.ExpectQuery(queryRegex).
			WithArgs("tokyo", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		result, err := s.repo.GetRecentWeatherQuery(s.ctx, "tokyo")

		s.Require().Error(err)
		s.Require().ErrorIs(err, gorm.ErrRecordNotFound)
		s.Require().Nil(result)
	})

	s.Run("Returns error when database query fails", func() {
		dbError := errors.New("connection error")

		s.mock.ExpectQuery(queryRegex).
			WithArgs("berlin", 1).
			WillReturnError(dbError)

		result, err := s.repo.GetRecentWeatherQuery(s.ctx, "berlin")

		s.Require().Error(err)
		s.Require().Equal("connection error", err.Error())
		s.Require().Nil(result)
	})
}

func TestWeatherRepositorySuite(t *testing.T) {
	suite.Run(t, new(WeatherRepositorySuite))
}
