// Package geocoding resolves free-form location text to a point using the
// Mapbox forward geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/config"
	"yelpcamp/internal/models"
)

type Geocoder interface {
	Geocode(ctx context.Context, location string) (models.GeoPoint, error)
}

type MapboxClient struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	Client      *http.Client
}

type forwardResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func NewMapboxClient(cfg config.Mapbox) *MapboxClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &MapboxClient{
		BaseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		AccessToken: cfg.Token,
		Timeout:     timeout,
		Client:      &http.Client{Timeout: timeout},
	}
}

// Geocode returns the best match for location. Transport failures, non-200
// answers and empty results are all reported as ErrGeocoding.
func (mc *MapboxClient) Geocode(ctx context.Context, location string) (models.GeoPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, mc.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		mc.BaseURL,
		url.PathEscape(location),
		url.Values{"access_token": {mc.AccessToken}, "limit": {"1"}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to build geocoding request: %v: %w", err, apperror.ErrGeocoding)
	}

	resp, err := mc.Client.Do(req)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("geocode %q: %v: %w", location, err, apperror.ErrGeocoding)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, fmt.Errorf("geocode %q: unexpected status code %d: %w", location, resp.StatusCode, apperror.ErrGeocoding)
	}

	var body forwardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to decode geocoding response: %v: %w", err, apperror.ErrGeocoding)
	}

	if len(body.Features) == 0 || len(body.Features[0].Geometry.Coordinates) < 2 {
		return models.GeoPoint{}, fmt.Errorf("geocode %q: no results: %w", location, apperror.ErrGeocoding)
	}

	coords := body.Features[0].Geometry.Coordinates
	return models.GeoPoint{Lng: coords[0], Lat: coords[1]}, nil
}
