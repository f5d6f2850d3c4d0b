// Package geocoding resolves street addresses to coordinates.
package geocoding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"googlemaps.github.io/maps"
)

type Address struct {
	Street  string
	City    string
	State   string
	Zipcode string
}

func (a Address) String() string {
	return strings.Join([]string{a.Street, a.City, a.State, a.Zipcode}, ", ")
}

type Coordinates struct {
	Latitude  string
	Longitude string
}

type geocodeAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type GoogleGeocoder struct {
	api geocodeAPI
}

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &GoogleGeocoder{api: client}, nil
}

// Locate returns the first match for addr. An address with no match is a
// BadRequest.
func (g *GoogleGeocoder) Locate(ctx context.Context, addr Address) (Coordinates, error) {
	results, err := g.api.Geocode(ctx, &maps.GeocodingRequest{Address: addr.String()})
	if err != nil {
		return Coordinates{}, apperror.BadRequest("geocoding failed: %v", err)
	}
	if len(results) == 0 {
		return Coordinates{}, apperror.BadRequest("address not found: %s", addr)
	}
	loc := results[0].Geometry.Location
	return Coordinates{
		Latitude:  strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		Longitude: strconv.FormatFloat(loc.Lng, 'f', -1, 64),
	}, nil
}

// Static returns zero coordinates for every address; used when no API key
// is configured.
type Static struct{}

func (Static) Locate(context.Context, Address) (Coordinates, error) {
	return Coordinates{Latitude: "0", Longitude: "0"}, nil
}
