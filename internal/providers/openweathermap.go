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

const OpenWeatherMapName = "openweathermap"

type openWeatherMapResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// code returns "cod" as a string; the API sends it as a number on success and
// as a string on errors.
func (r openWeatherMapResponse) code() string {
	return strings.Trim(string(r.Cod), `"`)
}

type OpenWeatherMapClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewOpenWeatherMapClient(apiKey, baseURL string, timeout time.Duration) *OpenWeatherMapClient {
	return &OpenWeatherMapClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
		now:     time.Now,
	}
}

func (c *OpenWeatherMapClient) Name() string {
	return OpenWeatherMapName
}

func (c *OpenWeatherMapClient) Fetch(ctx context.Context, location string) (city.City, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	endpoint := c.baseURL + "/data/2.5/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return city.City{}, fmt.Errorf("openweathermap: failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return city.City{}, fmt.Errorf("openweathermap request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return city.City{}, fmt.Errorf("openweathermap: %w: %s", ErrCityNotFound, location)
	}

	if resp.StatusCode != http.StatusOK {
		return city.City{}, fmt.Errorf("openweathermap returned status code: %d", resp.StatusCode)
	}

	var apiResp openWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return city.City{}, fmt.Errorf("openweathermap returned malformed JSON: %w", err)
	}

	switch apiResp.code() {
	case "", "200":
	case "404":
		return city.City{}, fmt.Errorf("openweathermap: %w: %s", ErrCityNotFound, location)
	default:
		return city.City{}, fmt.Errorf("openweathermap error: %s (code %s)", apiResp.Message, apiResp.code())
	}

	if len(apiResp.Weather) == 0 {
		return city.City{}, fmt.Errorf("openweathermap: no weather conditions in response")
	}

	if err := checkTemperature(OpenWeatherMapName, apiResp.Main.Temp); err != nil {
		return city.City{}, err
	}

	name := apiResp.Name
	if name == "" {
		name = city.DisplayName(location)
	}

	return city.City{
		Name:        name,
		Country:     apiResp.Sys.Country,
		Temperature: apiResp.Main.Temp,
		FeelsLike:   apiResp.Main.FeelsLike,
		Humidity:    apiResp.Main.Humidity,
		Description: apiResp.Weather[0].Description,
		Icon:        owmIconURL(apiResp.Weather[0].Icon),
		Provider:    OpenWeatherMapName,
		FetchedAt:   c.now(),
	}, nil
}

func owmIconURL(code string) string {
	if code == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + code + "@2x.png"
}
