package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/suite"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/providers"
)

type WeatherAPIServiceTestSuite struct {
	suite.Suite
	owmServer        *httptest.Server
	weatherAPIServer *httptest.Server
	owm              *providers.OpenWeatherMapClient
	weatherAPI       *providers.WeatherAPIClient
	owmCalls         atomic.Int32
}

func (s *WeatherAPIServiceTestSuite) SetupTest() {
	s.owmCalls.Store(0)

	s.owmServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.owmCalls.Add(1)
		s.Equal("/data/2.5/weather", r.URL.Path)
		s.Equal("test_owm_key", r.URL.Query().Get("appid"))
		s.Equal("metric", r.URL.Query().Get("units"))

		switch r.URL.Query().Get("q") {
		case "ValidCity", "New York":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":  200,
				"name": r.URL.Query().Get("q"),
				"sys":  map[string]interface{}{"country": "GB"},
				"main": map[string]interface{}{
					"temp":       25.5,
					"feels_like": 26.1,
					"humidity":   40,
				},
				"weather": []map[string]interface{}{
					{"main": "Clear", "description": "clear sky", "icon": "01d"},
				},
			})
		case "UnknownCity":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":     "404",
				"message": "city not found",
			})
		case "CodNotFound":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":     "404",
				"message": "city not found",
			})
		case "NoConditions":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":  200,
				"main": map[string]interface{}{"temp": 10.0},
			})
		case "InvalidTemp":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":     200,
				"main":    map[string]interface{}{"temp": -150.0},
				"weather": []map[string]interface{}{{"description": "cold"}},
			})
		case "MalformedJSON":
			w.Write([]byte("{malformed json"))
		case "Hang":
			<-r.Context().Done()
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	s.weatherAPIServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/current.json", r.URL.Path)
		s.Equal("test_weatherapi_key", r.URL.Query().Get("key"))

		switch r.URL.Query().Get("q") {
		case "ValidCity", "ServerError", "Hang":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"location": map[string]interface{}{"name": "ValidCity", "country": "United Kingdom"},
				"current": map[string]interface{}{
					"temp_c":      26.5,
					"feelslike_c": 27.0,
					"humidity":    55,
					"condition":   map[string]interface{}{"text": "Sunny", "icon": "//cdn/sunny.png"},
				},
			})
		case "UnknownCity", "CodNotFound":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"code":    1006,
					"message": "No matching location found.",
				},
			})
		case "BadKey":
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"code":    2008,
					"message": "API key has been disabled.",
				},
			})
		case "MalformedJSON":
			w.Write([]byte("{malformed json"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	s.owm = providers.NewOpenWeatherMapClient("test_owm_key", s.owmServer.URL+"/", 2*time.Second)
	s.weatherAPI = providers.NewWeatherAPIClient("test_weatherapi_key", s.weatherAPIServer.URL, 2*time.Second)
}

func (s *WeatherAPIServiceTestSuite) TearDownTest() {
	s.owmServer.Close()
	s.weatherAPIServer.Close()
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_Success() {
	data, err := s.owm.Fetch(context.Background(), "ValidCity")
	s.Require().NoError(err)
	s.Equal("ValidCity", data.Name)
	s.Equal("GB", data.Country)
	s.Equal(25.5, data.Temperature)
	s.Equal(26.1, data.FeelsLike)
	s.Equal(40, data.Humidity)
	s.Equal("clear sky", data.Description)
	s.Equal("https://openweathermap.org/img/wn/01d@2x.png", data.Icon)
	s.Equal(providers.OpenWeatherMapName, data.Provider)
	s.WithinDuration(time.Now(), data.FetchedAt, 5*time.Second)
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_EscapesLocation() {
	data, err := s.owm.Fetch(context.Background(), "New York")
	s.Require().NoError(err)
	s.Equal("New York", data.Name)
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_NotFoundStatus() {
	_, err := s.owm.Fetch(context.Background(), "UnknownCity")
	s.Error(err)
	s.ErrorIs(err, providers.ErrCityNotFound)
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_NotFoundCode() {
	_, err := s.owm.Fetch(context.Background(), "CodNotFound")
	s.ErrorIs(err, providers.ErrCityNotFound)
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_NoConditions() {
	_, err := s.owm.Fetch(context.Background(), "NoConditions")
	s.Error(err)
	s.Contains(err.Error(), "no weather conditions")
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_InvalidTemperature() {
	_, err := s.owm.Fetch(context.Background(), "InvalidTemp")
	s.Error(err)
	s.Contains(err.Error(), "unlikely temperature")
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_MalformedJSON() {
	_, err := s.owm.Fetch(context.Background(), "MalformedJSON")
	s.Error(err)
	s.Contains(err.Error(), "malformed JSON")
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_ServerError() {
	_, err := s.owm.Fetch(context.Background(), "ServerError")
	s.Error(err)
	s.Contains(err.Error(), "status code")
	s.NotErrorIs(err, providers.ErrCityNotFound)
}

func (s *WeatherAPIServiceTestSuite) TestOpenWeatherMap_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.owm.Fetch(ctx, "ValidCity")
	s.ErrorIs(err, context.Canceled)
}

func (s *WeatherAPIServiceTestSuite) TestWeatherAPI_Success() {
	data, err := s.weatherAPI.Fetch(context.Background(), "ValidCity")
	s.Require().NoError(err)
	s.Equal("ValidCity", data.Name)
	s.Equal("United Kingdom", data.Country)
	s.Equal(26.5, data.Temperature)
	s.Equal(27.0, data.FeelsLike)
	s.Equal(55, data.Humidity)
	s.Equal("Sunny", data.Description)
	s.Equal("https://cdn/sunny.png", data.Icon)
	s.Equal(providers.WeatherAPIName, data.Provider)
}

func (s *WeatherAPIServiceTestSuite) TestWeatherAPI_NotFound() {
	_, err := s.weatherAPI.Fetch(context.Background(), "UnknownCity")
	s.ErrorIs(err, providers.ErrCityNotFound)
}

func (s *WeatherAPIServiceTestSuite) TestWeatherAPI_Error() {
	_, err := s.weatherAPI.Fetch(context.Background(), "BadKey")
	s.Error(err)
	s.Contains(err.Error(), "API key has been disabled")
}

func (s *WeatherAPIServiceTestSuite) TestWeatherAPI_MalformedJSON() {
	_, err := s.weatherAPI.Fetch(context.Background(), "MalformedJSON")
	s.Error(err)
	s.Contains(err.Error(), "malformed JSON")
}

func (s *WeatherAPIServiceTestSuite) TestWeatherAPI_ServerError() {
	_, err := s.weatherAPI.Fetch(context.Background(), "Elsewhere")
	s.Error(err)
	s.Contains(err.Error(), "status code")
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_PrimarySuccess() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil, s.owm, s.weatherAPI)

	data, err := svc.GetWeatherData(context.Background(), "ValidCity")
	s.Require().NoError(err)
	s.Equal(providers.OpenWeatherMapName, data.Provider)
	s.Equal(25.5, data.Temperature)
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_FallsBackToSecondProvider() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil, s.owm, s.weatherAPI)

	data, err := svc.GetWeatherData(context.Background(), "ServerError")
	s.Require().NoError(err)
	s.Equal(providers.WeatherAPIName, data.Provider)
	s.Equal(26.5, data.Temperature)
	s.Equal(int32(1), s.owmCalls.Load())
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_HungPrimaryLeavesTimeForFallback() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil, s.owm, s.weatherAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	data, err := svc.GetWeatherData(ctx, "Hang")
	s.Require().NoError(err)
	s.Equal(providers.WeatherAPIName, data.Provider)
	s.Equal(int32(1), s.owmCalls.Load())
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_AllNotFound() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil, s.owm, s.weatherAPI)

	_, err := svc.GetWeatherData(context.Background(), "UnknownCity")
	s.ErrorIs(err, providers.ErrCityNotFound)
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_AllFail() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil, s.owm, s.weatherAPI)

	_, err := svc.GetWeatherData(context.Background(), "MalformedJSON")
	s.ErrorIs(err, providers.ErrProviderUnavailable)
	s.NotErrorIs(err, providers.ErrCityNotFound)
	s.Contains(err.Error(), "openweathermap")
	s.Contains(err.Error(), "weatherapi")
}

func (s *WeatherAPIServiceTestSuite) TestGetWeatherData_NoProviders() {
	svc := providers.NewWeatherAPIService(zerolog.Nop(), nil)

	_, err := svc.GetWeatherData(context.Background(), "ValidCity")
	s.ErrorIs(err, providers.ErrNoProviders)
}

func TestWeatherAPIServiceSuite(t *testing.T) {
	suite.Run(t, new(WeatherAPIServiceTestSuite))
}

type stubFetcher struct {
	calls int
	err   error
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(_ context.Context, location string) (city.City, error) {
	f.calls++
	if f.err != nil {
		return city.City{}, f.err
	}
	return city.City{Name: location, Provider: "stub"}, nil
}

func TestBreakerFetcherOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubFetcher{err: errors.New("boom")}
	breaker := providers.NewBreakerFetcher(providers.BreakerConfig{
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	}, stub)

	for i := 0; i < 2; i++ {
		_, err := breaker.Fetch(context.Background(), "Paris")
		if err == nil || err.Error() != "boom" {
			t.Fatalf("attempt %d: expected wrapped error, got %v", i, err)
		}
	}

	if breaker.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", breaker.State())
	}

	_, err := breaker.Fetch(context.Background(), "Paris")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", stub.calls)
	}
}

func TestBreakerFetcherIgnoresUnknownCities(t *testing.T) {
	stub := &stubFetcher{err: providers.ErrCityNotFound}
	breaker := providers.NewBreakerFetcher(providers.BreakerConfig{
		MaxFailures: 1,
		OpenTimeout: time.Minute,
	}, stub)

	for i := 0; i < 3; i++ {
		_, err := breaker.Fetch(context.Background(), "Atlantis")
		if !errors.Is(err, providers.ErrCityNotFound) {
			t.Fatalf("expected ErrCityNotFound, got %v", err)
		}
	}

	if breaker.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", breaker.State())
	}
}

func TestBreakerFetcherPassesThroughResult(t *testing.T) {
	breaker := providers.NewBreakerFetcher(providers.BreakerConfig{
		MaxFailures: 1,
		OpenTimeout: time.Minute,
	}, &stubFetcher{})

	data, err := breaker.Fetch(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Name != "Paris" || breaker.Name() != "stub" {
		t.Fatalf("unexpected result %+v", data)
	}
}
