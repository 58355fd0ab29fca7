package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"
	"ulascansenturk/weather-app/internal/city"
	"ulascansenturk/weather-app/internal/service"
)

// IndexTimeLayout is how the index page prints the server clock.
const IndexTimeLayout = "2006-01-02 15:04:05.000000"

type WeatherHandler struct {
	weatherService service.WeatherService
	timeout        time.Duration
	mux            *http.ServeMux
	now            func() time.Time
}

func NewWeatherHandler(weatherService service.WeatherService, timeout time.Duration) *WeatherHandler {
	h := &WeatherHandler{
		weatherService: weatherService,
		timeout:        timeout,
		mux:            http.NewServeMux(),
		now:            time.Now,
	}

	h.mux.HandleFunc("GET /{$}", h.Index)
	h.mux.HandleFunc("GET /weather/{city}", h.WeatherPage)
	h.mux.HandleFunc("GET /api/v1/weather/{city}", h.GetWeather)
	h.mux.HandleFunc("GET /api/v1/cities", h.ListCities)

	return h
}

func (h *WeatherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *WeatherHandler) Index(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, "index.html", indexPage{
		Now: h.now().Format(IndexTimeLayout),
	})
}

func (h *WeatherHandler) WeatherPage(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("city")

	response, err := h.lookup(r, location)
	if err != nil {
		status := statusForError(err)
		renderErrorPage(w, r, status, detailForError(status, err))
		return
	}

	renderPage(w, r, http.StatusOK, "weather.html", weatherPage{
		City:    response.City,
		Source:  response.Source,
		Warning: response.Warning,
	})
}

func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("city")

	response, err := h.lookup(r, location)
	if err != nil {
		status := statusForError(err)
		respondWithError(w, status, detailForError(status, err))
		return
	}

	respondWithJSON(w, http.StatusOK, WeatherResponse{
		City:    response.City,
		Source:  response.Source,
		Warning: response.Warning,
	})
}

func (h *WeatherHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities := h.weatherService.ListCities()
	if cities == nil {
		cities = []city.City{}
	}

	respondWithJSON(w, http.StatusOK, CitiesResponse{Cities: cities})
}

func (h *WeatherHandler) lookup(r *http.Request, location string) (service.WeatherResponse, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	response, err := h.weatherService.GetWeather(ctx, location)
	if err != nil {
		event := hlog.FromRequest(r).Error()
		if statusForError(err) < http.StatusInternalServerError {
			event = hlog.FromRequest(r).Info()
		}
		event.Err(err).Str("location", location).Msg("failed to get weather data")
		return service.WeatherResponse{}, err
	}

	return response, nil
}

func formatCelsius(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + " °C"
}
