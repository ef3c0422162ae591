package providers

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-chat/internal/weather"
)

var errNoAddress = errors.New("no address for coordinates")

// geocoder keeps its API key in a package variable.
var geocoderKeyMu sync.Mutex

// GoogleGeocoder implements weather.ReverseGeocoder on top of the Google
// Geocoding API.
type GoogleGeocoder struct {
	apiKey  string
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder returns nil when apiKey is empty so callers can pass
// the result straight to weather.NewLocalService.
func NewGoogleGeocoder(apiKey string) weather.ReverseGeocoder {
	if apiKey == "" {
		return nil
	}
	return &GoogleGeocoder{apiKey: apiKey, reverse: geocoder.GeocodingReverse}
}

// PlaceName returns "City, Country" (or the closest available parts) for coords.
func (g *GoogleGeocoder) PlaceName(ctx context.Context, coords weather.Coordinates) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	geocoderKeyMu.Lock()
	geocoder.ApiKey = g.apiKey
	addresses, err := g.reverse(geocoder.Location{
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
	})
	geocoderKeyMu.Unlock()
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", errNoAddress
	}

	return placeName(addresses[0]), nil
}

func placeName(a geocoder.Address) string {
	var parts []string
	for _, p := range []string{firstNonEmpty(a.City, a.State), a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(a.FormatAddress())
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
