package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-chat/internal/weather"
)

func TestGoogleGeocoderPlaceName(t *testing.T) {
	g := &GoogleGeocoder{
		apiKey: "key",
		reverse: func(loc geocoder.Location) ([]geocoder.Address, error) {
			if loc.Latitude != 48.85 || loc.Longitude != 2.35 {
				t.Errorf("unexpected location %+v", loc)
			}
			return []geocoder.Address{{City: "Paris", State: "Île-de-France", Country: "France"}}, nil
		},
	}

	name, err := g.PlaceName(context.Background(), weather.Coordinates{Lat: 48.85, Lon: 2.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Paris, France" {
		t.Fatalf("unexpected place name %q", name)
	}
}

func TestGoogleGeocoderNoAddress(t *testing.T) {
	g := &GoogleGeocoder{
		apiKey: "key",
		reverse: func(geocoder.Location) ([]geocoder.Address, error) {
			return nil, nil
		},
	}
	if _, err := g.PlaceName(context.Background(), weather.Coordinates{}); !errors.Is(err, errNoAddress) {
		t.Fatalf("expected errNoAddress, got %v", err)
	}
}

func TestPlaceNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		addr geocoder.Address
		want string
	}{
		{"city and country", geocoder.Address{City: "Lyon", Country: "France"}, "Lyon, France"},
		{"state when no city", geocoder.Address{State: "Bavaria", Country: "Germany"}, "Bavaria, Germany"},
		{"country only", geocoder.Address{Country: "Iceland"}, "Iceland"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := placeName(tc.addr); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewGoogleGeocoderWithoutKey(t *testing.T) {
	if g := NewGoogleGeocoder(""); g != nil {
		t.Fatalf("expected nil geocoder without key")
	}
}
