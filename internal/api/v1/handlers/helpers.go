package handlers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-app/internal/providers"
	"ulascansenturk/weather-app/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"celsius": formatCelsius,
}).ParseFS(templateFS, "templates/*.html"))

// statusForError maps service and provider errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, providers.ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// detailForError keeps upstream details out of client responses.
func detailForError(status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusNotFound:
		return "city not found"
	case http.StatusGatewayTimeout:
		return "weather lookup timed out"
	default:
		return "weather providers are unavailable"
	}
}

func errorTitle(code int) (string, string) {
	switch code {
	case http.StatusBadRequest:
		return "BAD_REQUEST", "Bad Request"
	case http.StatusNotFound:
		return "NOT_FOUND", "Not Found"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED", "Method Not Allowed"
	case http.StatusBadGateway:
		return "BAD_GATEWAY", "Bad Gateway"
	case http.StatusGatewayTimeout:
		return "GATEWAY_TIMEOUT", "Gateway Timeout"
	default:
		return "INTERNAL_ERROR", "Internal Server Error"
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	errorCode, title := errorTitle(code)

	respondWithJSON(w, code, ErrorResponse{
		Errors: []Error{
			{
				Code:   errorCode,
				Detail: message,
				Status: code,
				Title:  title,
			},
		},
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// renderPage executes into a buffer first so a template failure can still
// produce a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, code int, name string, data interface{}) {
	var body bytes.Buffer
	if err := pages.ExecuteTemplate(&body, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := body.WriteTo(w); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("failed to write page")
	}
}

func renderErrorPage(w http.ResponseWriter, r *http.Request, code int, message string) {
	_, title := errorTitle(code)
	renderPage(w, r, code, "error.html", errorPage{
		Status:  code,
		Title:   title,
		Message: message,
	})
}
