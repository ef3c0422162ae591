package weather

import (
	"context"
	"errors"
	"strconv"
)

var (
	// ErrCityNotFound marks a lookup for a place the provider does not know.
	// It is an expected outcome, not a failure.
	ErrCityNotFound = errors.New("city not found")

	// ErrUnavailable is returned for any other provider failure.
	ErrUnavailable = errors.New("weather provider unavailable")
)

// NotFoundError carries the queried city. It matches ErrCityNotFound.
type NotFoundError struct {
	City string
}

func (e *NotFoundError) Error() string {
	return "city not found: " + strconv.Quote(e.City)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrCityNotFound
}

// CoordinateProvider looks up current weather at a lat/lon pair
// (e.g. Open-Meteo, which has no city search).
type CoordinateProvider interface {
	Name() string
	CurrentByCoordinates(ctx context.Context, coords Coordinates) (Report, error)
}

// Provider abstracts a current-weather data source that also resolves
// free-text city names (e.g. OpenWeatherMap).
type Provider interface {
	CoordinateProvider
	CurrentByCity(ctx context.Context, city string) (Report, error)
}

// ReverseGeocoder resolves coordinates into a human readable place name.
type ReverseGeocoder interface {
	PlaceName(ctx context.Context, coords Coordinates) (string, error)
}
