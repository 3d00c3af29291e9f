// Package preset holds the fixed table of supported locations.
//
// Each Preset is a value record: the city query passed to the Al Adhan API,
// the timezone the schedule is evaluated in, coordinates used to pick the
// nearest preset for auto-detection, and a display theme for the web page.
package preset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // presets must resolve their zone on hosts without zoneinfo

	"github.com/go-playground/validator/v10"

	"github.com/smokyabdulrahman/ramadan-live/internal/api"
)

// ErrUnknown is returned when a preset key is not in the registry.
var ErrUnknown = errors.New("unknown location")

// Theme carries the colours used by the web page for a preset.
type Theme struct {
	Gradient string `json:"gradient"`
	Card     string `json:"card"`
	Text     string `json:"text"`
	Accent   string `json:"accent"`
}

// Preset is one supported location.
type Preset struct {
	Key                string  `json:"key" validate:"required"`
	Label              string  `json:"label" validate:"required"`
	City               string  `json:"city" validate:"required"`
	Country            string  `json:"country" validate:"required"`
	Method             int     `json:"method" validate:"min=-1,max=23"`
	School             int     `json:"school" validate:"min=-1,max=1"`
	LatitudeAdjustment int     `json:"latitude_adjustment" validate:"min=-1,max=3"`
	Timezone           string  `json:"timezone" validate:"required,timezone"`
	Latitude           float64 `json:"latitude" validate:"latitude"`
	Longitude          float64 `json:"longitude" validate:"longitude"`
	Theme              Theme   `json:"theme"`
}

// Query returns the API query for this preset.
func (p Preset) Query() api.CityQuery {
	return api.CityQuery{
		City:               p.City,
		Country:            p.Country,
		Method:             p.Method,
		School:             p.School,
		LatitudeAdjustment: p.LatitudeAdjustment,
		Timezone:           p.Timezone,
	}
}

// Location loads the preset's timezone.
func (p Preset) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q for %s: %w", p.Timezone, p.Key, err)
	}
	return loc, nil
}

// Defaults are the locations offered by the page, in display order.
var Defaults = []Preset{
	{
		Key: "Dhaka,BD", Label: "Dhaka, BD",
		City: "Dhaka", Country: "Bangladesh",
		Method: 1, School: 1, LatitudeAdjustment: 3,
		Timezone: "Asia/Dhaka",
		Latitude: 23.8103, Longitude: 90.4125,
		Theme: Theme{
			Gradient: "from-emerald-900 via-emerald-800 to-teal-900",
			Card:     "bg-emerald-50/50",
			Text:     "text-emerald-900",
			Accent:   "text-amber-500",
		},
	},
	{
		Key: "Texas,US", Label: "Texas, US",
		City: "Houston", Country: "US",
		Method: 2, School: -1, LatitudeAdjustment: -1,
		Timezone: "America/Chicago",
		Latitude: 29.7604, Longitude: -95.3698,
		Theme: Theme{
			Gradient: "from-rose-900 via-red-800 to-orange-900",
			Card:     "bg-rose-50/50",
			Text:     "text-rose-900",
			Accent:   "text-orange-500",
		},
	},
	{
		Key: "Newark,US", Label: "Newark, US",
		City: "Newark", Country: "US",
		Method: 2, School: -1, LatitudeAdjustment: -1,
		Timezone: "America/New_York",
		Latitude: 40.7357, Longitude: -74.1724,
		Theme: Theme{
			Gradient: "from-indigo-900 via-purple-800 to-fuchsia-900",
			Card:     "bg-purple-50/50",
			Text:     "text-indigo-900",
			Accent:   "text-pink-400",
		},
	},
	{
		Key: "Melbourne,AU", Label: "Melbourne, AU",
		City: "Melbourne", Country: "AU",
		Method: 3, School: -1, LatitudeAdjustment: -1,
		Timezone: "Australia/Melbourne",
		Latitude: -37.8136, Longitude: 144.9631,
		Theme: Theme{
			Gradient: "from-blue-900 via-sky-800 to-cyan-900",
			Card:     "bg-blue-50/50",
			Text:     "text-blue-900",
			Accent:   "text-sky-400",
		},
	},
}

// DefaultKey is the preset used when nothing is configured.
const DefaultKey = "Dhaka,BD"

// Registry is an immutable, validated set of presets.
type Registry struct {
	order  []string
	byKey  map[string]Preset
	lookup map[string]string // lower-cased key -> key
}

// NewRegistry validates the presets and indexes them by key.
func NewRegistry(presets []Preset) (*Registry, error) {
	if len(presets) == 0 {
		return nil, errors.New("preset registry needs at least one location")
	}

	v := validator.New()
	r := &Registry{
		byKey:  make(map[string]Preset, len(presets)),
		lookup: make(map[string]string, len(presets)),
	}
	for _, p := range presets {
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", p.Key, err)
		}
		lower := strings.ToLower(p.Key)
		if _, dup := r.lookup[lower]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Key)
		}
		r.order = append(r.order, p.Key)
		r.byKey[p.Key] = p
		r.lookup[lower] = p.Key
	}
	return r, nil
}

// MustDefault returns the registry built from Defaults.
func MustDefault() *Registry {
	r, err := NewRegistry(Defaults)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the preset for key. Keys match case-insensitively.
func (r *Registry) Get(key string) (Preset, error) {
	k, ok := r.lookup[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q; valid locations: %s", ErrUnknown, key, strings.Join(r.order, ", "))
	}
	return r.byKey[k], nil
}

// All returns the presets in display order.
func (r *Registry) All() []Preset {
	out := make([]Preset, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

// Keys returns the preset keys in display order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Nearest returns the preset closest to the given coordinates.
func (r *Registry) Nearest(lat, lon float64) Preset {
	all := r.All()
	sort.SliceStable(all, func(i, j int) bool {
		return distanceKm(lat, lon, all[i].Latitude, all[i].Longitude) <
			distanceKm(lat, lon, all[j].Latitude, all[j].Longitude)
	})
	return all[0]
}

const earthRadiusKm = 6371.0

// distanceKm is the haversine great-circle distance.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
