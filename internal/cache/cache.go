// Package cache keeps upstream month calendars for a day so reloads and
// other presets do not hit the Al Adhan API again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-live/internal/api"
	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
)

// DefaultTTL matches the upstream revalidation period.
const DefaultTTL = 24 * time.Hour

// Store is a byte store with per-entry expiry.
type Store interface {
	// Load returns the value for key, or ok=false when missing or expired.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// MonthKey builds a deterministic key from everything that changes a month
// calendar, so different cities and methods never share an entry.
func MonthKey(year, month int, q api.CityQuery) string {
	raw := fmt.Sprintf("%d|%d|%s|%s|%d|%d|%d|%s",
		year, month, q.City, q.Country, q.Method, q.School, q.LatitudeAdjustment, q.Timezone)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("month_%x", h[:8])
}

// Source wraps a calendar.MonthSource with a Store. Only successful,
// non-empty months are stored; failures always go upstream next time.
type Source struct {
	Next  calendar.MonthSource
	Store Store
	TTL   time.Duration
	Log   zerolog.Logger
}

// NewSource returns a caching source with the default TTL.
func NewSource(next calendar.MonthSource, store Store, log zerolog.Logger) *Source {
	return &Source{Next: next, Store: store, TTL: DefaultTTL, Log: log}
}

// FetchMonth implements calendar.MonthSource.
func (s *Source) FetchMonth(ctx context.Context, year, month int, q api.CityQuery) ([]api.Data, error) {
	key := MonthKey(year, month, q)
	log := s.Log.With().Str("key", key).Int("year", year).Int("month", month).Str("city", q.City).Logger()

	if raw, ok, err := s.Store.Load(ctx, key); err != nil {
		log.Warn().Err(err).Msg("cache read failed")
	} else if ok {
		var days []api.Data
		if err := json.Unmarshal(raw, &days); err == nil {
			log.Debug().Msg("cache hit")
			return days, nil
		}
		log.Warn().Msg("ignoring corrupt cache entry")
	}

	days, err := s.Next.FetchMonth(ctx, year, month, q)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return days, nil
	}

	raw, err := json.Marshal(days)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal cache entry")
		return days, nil
	}
	if err := s.Store.Save(ctx, key, raw, s.ttl()); err != nil {
		log.Warn().Err(err).Msg("cache write failed")
	}
	return days, nil
}

func (s *Source) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultTTL
	}
	return s.TTL
}
