package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-chat/internal/weather"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.CoordinateProvider for Open-Meteo.
// It needs no API key, so it backs the local weather tile when no
// OpenWeatherMap key is configured.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: gobreaker.NewCircuitBreaker(BreakerSettings("openmeteo")),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) CurrentByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.Report, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,is_day")
	values.Set("wind_speed_unit", "ms")

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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Report{}, fmt.Errorf("%w: unexpected status code %d", weather.ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Current struct {
			Temperature  float64 `json:"temperature_2m"`
			Humidity     float64 `json:"relative_humidity_2m"`
			ApparentTemp float64 `json:"apparent_temperature"`
			WeatherCode  int     `json:"weather_code"`
			WindSpeed    float64 `json:"wind_speed_10m"`
			IsDay        int     `json:"is_day"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Report{}, fmt.Errorf("%w: decode response: %w", weather.ErrUnavailable, err)
	}

	cur := payload.Current
	description, icon := mapOpenMeteoCondition(cur.WeatherCode, cur.IsDay == 1)

	return weather.Report{
		TemperatureC: weather.RoundDegrees(cur.Temperature),
		FeelsLikeC:   weather.RoundDegrees(cur.ApparentTemp),
		Description:  description,
		HumidityPct:  int(cur.Humidity),
		WindSpeedMps: cur.WindSpeed,
		IconID:       icon,
		IconURL:      weather.IconURLFor(icon),
	}, nil
}

// mapOpenMeteoCondition turns a WMO weather code into a description and
// the matching OpenWeatherMap icon id, so cards render the same icons.
func mapOpenMeteoCondition(code int, day bool) (string, string) {
	var description, icon string
	switch {
	case code == 0:
		description, icon = "clear sky", "01"
	case code == 1:
		description, icon = "mainly clear", "02"
	case code == 2:
		description, icon = "partly cloudy", "03"
	case code == 3:
		description, icon = "overcast clouds", "04"
	case code == 45 || code == 48:
		description, icon = "fog", "50"
	case code >= 51 && code <= 57:
		description, icon = "drizzle", "09"
	case code >= 61 && code <= 67:
		description, icon = "rain", "10"
	case code >= 71 && code <= 77:
		description, icon = "snow", "13"
	case code >= 80 && code <= 82:
		description, icon = "rain showers", "09"
	case code == 85 || code == 86:
		description, icon = "snow showers", "13"
	case code >= 95:
		description, icon = "thunderstorm", "11"
	default:
		return "unknown", ""
	}
	if day {
		return description, icon + "d"
	}
	return description, icon + "n"
}
