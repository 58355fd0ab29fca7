package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ulascansenturk/weather-app/internal/city"
)

const (
	WeatherAPIName = "weatherapi"

	// weatherAPINoLocation is WeatherAPI.com's "No matching location found" code.
	weatherAPINoLocation = 1006
)

type weatherAPIResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		FeelsLikeC float64 `json:"feelslike_c"`
		Humidity   int     `json:"humidity"`
		Condition  struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type WeatherAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewWeatherAPIClient(apiKey, baseURL string, timeout time.Duration) *WeatherAPIClient {
	return &WeatherAPIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
		now:     time.Now,
	}
}

func (c *WeatherAPIClient) Name() string {
	return WeatherAPIName
}

func (c *WeatherAPIClient) Fetch(ctx context.Context, location string) (city.City, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", location)
	query.Set("aqi", "no")

	endpoint := c.baseURL + "/v1/current.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return city.City{}, fmt.Errorf("weatherapi: failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return city.City{}, fmt.Errorf("weatherapi request failed: %w", err)
	}
	defer resp.Body.Close()

	// errors come back as 400/401/403 with a JSON body, so decode before checking the status
	var apiResp weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return city.City{}, fmt.Errorf("weatherapi returned status code: %d", resp.StatusCode)
		}
		return city.City{}, fmt.Errorf("weatherapi returned malformed JSON: %w", err)
	}

	if apiResp.Error.Code == weatherAPINoLocation {
		return city.City{}, fmt.Errorf("weatherapi: %w: %s", ErrCityNotFound, location)
	}

	if apiResp.Error.Code != 0 {
		return city.City{}, fmt.Errorf("weatherapi error: %s (code %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return city.City{}, fmt.Errorf("weatherapi returned status code: %d", resp.StatusCode)
	}

	if err := checkTemperature(WeatherAPIName, apiResp.Current.TempC); err != nil {
		return city.City{}, err
	}

	name := apiResp.Location.Name
	if name == "" {
		name = city.DisplayName(location)
	}

	return city.City{
		Name:        name,
		Country:     apiResp.Location.Country,
		Temperature: apiResp.Current.TempC,
		FeelsLike:   apiResp.Current.FeelsLikeC,
		Humidity:    apiResp.Current.Humidity,
		Description: apiResp.Current.Condition.Text,
		Icon:        absoluteIconURL(apiResp.Current.Condition.Icon),
		Provider:    WeatherAPIName,
		FetchedAt:   c.now(),
	}, nil
}

// WeatherAPI returns protocol-relative icon links.
func absoluteIconURL(icon string) string {
	if strings.HasPrefix(icon, "//") {
		return "https:" + icon
	}
	return icon
}
