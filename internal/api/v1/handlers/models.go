package handlers

import "ulascansenturk/weather-app/internal/city"

type WeatherResponse struct {
	City    city.City `json:"city"`
	Source  string    `json:"source"`
	Warning string    `json:"warning,omitempty"`
}

type CitiesResponse struct {
	Cities []city.City `json:"cities"`
}

type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Title  string `json:"title"`
}

type ErrorResponse struct {
	Errors []Error `json:"errors"`
}

type indexPage struct {
	Now string
}

type weatherPage struct {
	City    city.City
	Source  string
	Warning string
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}
