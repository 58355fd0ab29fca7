package city

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type City struct {
	Name        string    `json:"name"`
	Country     string    `json:"country,omitempty"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// NormalizeName returns the key a city is stored under: trimmed, lower-cased,
// with runs of whitespace collapsed to a single space.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DisplayName title-cases a user supplied city name, e.g. "new york" -> "New York".
func DisplayName(name string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}
