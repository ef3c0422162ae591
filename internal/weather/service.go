package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LocalWeather is the payload behind the "live weather" tile: an
// approximate place name plus the current report at those coordinates.
type LocalWeather struct {
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	Report      Report      `json:"weather"`
}

// LocalService proxies coordinate lookups so the browser never holds a
// provider credential.
type LocalService struct {
	provider CoordinateProvider
	geocoder ReverseGeocoder
	logger   *zap.Logger
}

// NewLocalService creates a LocalService. geocoder may be nil, in which
// case the provider's station name is used as the location.
func NewLocalService(provider CoordinateProvider, geocoder ReverseGeocoder, logger *zap.Logger) *LocalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalService{
		provider: provider,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Lookup fetches current weather at coords and names the place.
func (s *LocalService) Lookup(ctx context.Context, coords Coordinates) (LocalWeather, error) {
	report, err := s.provider.CurrentByCoordinates(ctx, coords)
	if err != nil {
		return LocalWeather{}, fmt.Errorf("%s lookup at %.4f,%.4f: %w", s.provider.Name(), coords.Lat, coords.Lon, err)
	}

	out := LocalWeather{
		Location:    report.City,
		Coordinates: coords,
		Report:      report,
	}

	if s.geocoder == nil {
		return out, nil
	}

	name, err := s.geocoder.PlaceName(ctx, coords)
	if err != nil {
		// The station name is a good enough fallback for the tile.
		s.logger.Warn("reverse geocoding failed",
			zap.Float64("lat", coords.Lat),
			zap.Float64("lon", coords.Lon),
			zap.Error(err))
		return out, nil
	}
	if name != "" {
		out.Location = name
	}
	return out, nil
}
