package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-chat/internal/weather"
)

// DefaultOpenWeatherURL is the current weather endpoint of OpenWeatherMap.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates the provider. An empty baseURL selects
// DefaultOpenWeatherURL.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: gobreaker.NewCircuitBreaker(BreakerSettings("openweather")),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// CurrentByCity looks up current conditions by free-text city name. The
// provider does the fuzzy matching.
func (p *OpenWeatherProvider) CurrentByCity(ctx context.Context, city string) (weather.Report, error) {
	values := url.Values{}
	values.Set("q", city)
	return p.fetch(ctx, values, city)
}

// CurrentByCoordinates looks up current conditions at a lat/lon pair.
func (p *OpenWeatherProvider) CurrentByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Report, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	return p.fetch(ctx, values, values.Get("lat")+","+values.Get("lon"))
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, values url.Values, query string) (weather.Report, error) {
	if p.apiKey == "" {
		return weather.Report{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUnavailable)
	}

	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.Report{}, fmt.Errorf("%w: %w", weather.ErrUnavailable, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Report{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return weather.Report{}, &weather.NotFoundError{City: query}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Report{}, fmt.Errorf("%w: unexpected status code %d", weather.ErrUnavailable, resp.StatusCode)
	}

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Report{}, fmt.Errorf("%w: decode response: %w", weather.ErrUnavailable, err)
	}

	return payload.toReport(), nil
}

type openWeatherPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (p openWeatherPayload) toReport() weather.Report {
	r := weather.Report{
		City:         p.Name,
		Country:      p.Sys.Country,
		TemperatureC: weather.RoundDegrees(p.Main.Temp),
		FeelsLikeC:   weather.RoundDegrees(p.Main.FeelsLike),
		HumidityPct:  int(p.Main.Humidity),
		WindSpeedMps: p.Wind.Speed,
	}
	if len(p.Weather) > 0 {
		r.Description = strings.TrimSpace(p.Weather[0].Description)
		r.IconID = p.Weather[0].Icon
		r.IconURL = weather.IconURLFor(r.IconID)
	}
	return r
}
