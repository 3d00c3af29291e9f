// Package geo resolves the caller's approximate position from their public IP.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrLookupFailed is returned when the service answers but cannot place the IP.
var ErrLookupFailed = errors.New("geolocation lookup failed")

// Location is a detected position.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// Overridden in tests.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detect asks ip-api.com (no key required) where the public IP is.
func Detect(ctx context.Context) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geolocation request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
