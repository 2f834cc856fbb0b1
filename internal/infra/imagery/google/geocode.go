package google

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

// Geocoder implements domain.Geocoder with the Maps Geocoding API.
type Geocoder struct {
	client *maps.Client
}

func NewGeocoder(apiKey string, opts ...maps.ClientOption) (*Geocoder, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error creating Google Maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// ReverseGeocode returns the best formatted address for c, or "" when
// Google has none.
func (g *Geocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) (string, error) {
	resp, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: c.Latitude, Lng: c.Longitude},
	})
	if err != nil {
		return "", fmt.Errorf("error requesting reverse geocode from google: %w", err)
	}
	if len(resp) == 0 {
		return "", nil
	}
	return resp[0].FormattedAddress, nil
}
