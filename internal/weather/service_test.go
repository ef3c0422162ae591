package weather

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

type stubProvider struct {
	report Report
	err    error
	coords []Coordinates
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) CurrentByCity(context.Context, string) (Report, error) {
	return p.report, p.err
}

func (p *stubProvider) CurrentByCoordinates(_ context.Context, c Coordinates) (Report, error) {
	p.coords = append(p.coords, c)
	return p.report, p.err
}

type stubGeocoder struct {
	name string
	err  error
}

func (g stubGeocoder) PlaceName(context.Context, Coordinates) (string, error) {
	return g.name, g.err
}

func TestLocalServiceUsesGeocodedName(t *testing.T) {
	prov := &stubProvider{report: Report{City: "Shinjuku", TemperatureC: 18}}
	svc := NewLocalService(prov, stubGeocoder{name: "Tokyo, Japan"}, zaptest.NewLogger(t))

	got, err := svc.Lookup(context.Background(), Coordinates{Lat: 35.69, Lon: 139.70})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location != "Tokyo, Japan" {
		t.Fatalf("expected geocoded location, got %q", got.Location)
	}
	if got.Report.TemperatureC != 18 {
		t.Fatalf("expected report to be passed through, got %+v", got.Report)
	}
	if len(prov.coords) != 1 || prov.coords[0].Lat != 35.69 {
		t.Fatalf("expected a single coordinate lookup, got %+v", prov.coords)
	}
}

func TestLocalServiceFallsBackToStationName(t *testing.T) {
	prov := &stubProvider{report: Report{City: "Shinjuku"}}

	tests := []struct {
		name     string
		geocoder ReverseGeocoder
	}{
		{"no geocoder", nil},
		{"geocoder error", stubGeocoder{err: errors.New("quota exceeded")}},
		{"empty name", stubGeocoder{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewLocalService(prov, tc.geocoder, zaptest.NewLogger(t))
			got, err := svc.Lookup(context.Background(), Coordinates{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Location != "Shinjuku" {
				t.Fatalf("expected station name, got %q", got.Location)
			}
		})
	}
}

func TestLocalServiceProviderError(t *testing.T) {
	prov := &stubProvider{err: ErrUnavailable}
	svc := NewLocalService(prov, nil, nil)

	if _, err := svc.Lookup(context.Background(), Coordinates{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := error(&NotFoundError{City: "Atlantis"})
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected NotFoundError to match ErrCityNotFound")
	}
	if err.Error() != `city not found: "Atlantis"` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
