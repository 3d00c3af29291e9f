package cli

import (
	"context"
	"strings"

	"github.com/smokyabdulrahman/ramadan-live/internal/api"
	"github.com/smokyabdulrahman/ramadan-live/internal/cache"
	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/config"
	"github.com/smokyabdulrahman/ramadan-live/internal/geo"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// detectLocation is replaced in tests.
var detectLocation = geo.Detect

// source builds the upstream month source: the API client behind the file
// cache, or Redis when redis_addr is set. The file cache is returned too (nil
// when disabled) for geolocation caching.
func (a *app) source() (calendar.MonthSource, *cache.File) {
	client := api.NewClient()
	if a.settings.BaseURL != "" {
		client.BaseURL = a.settings.BaseURL
	}
	var src calendar.MonthSource = calendar.APISource{Client: client}

	files, err := cache.NewFile(a.settings.CacheDir)
	if err != nil {
		a.log.Warn().Err(err).Msg("file cache disabled")
		files = nil
	}

	switch {
	case a.settings.RedisAddr != "":
		rdb := cache.NewRedisClient(cache.RedisOptions{
			Address:  a.settings.RedisAddr,
			Password: a.settings.RedisPassword,
		})
		return cache.NewSource(src, cache.NewRedis(rdb, ""), a.log), files
	case files != nil:
		return cache.NewSource(src, files, a.log), files
	default:
		return src, nil
	}
}

// loader wires a calendar.Loader for the configured season.
func (a *app) loader() (*calendar.Loader, *cache.File, error) {
	season, err := a.settings.Season()
	if err != nil {
		return nil, nil, err
	}
	src, files := a.source()
	return calendar.NewLoader(src, season, a.log), files, nil
}

// resolvePreset maps the configured location to a preset. "auto" picks the
// preset nearest to the IP location and falls back to the default.
func (a *app) resolvePreset(ctx context.Context, files *cache.File) (preset.Preset, error) {
	key := strings.TrimSpace(a.settings.Location)
	if !strings.EqualFold(key, config.LocationAuto) {
		return a.registry.Get(key)
	}

	var loc *geo.Location
	if files != nil {
		loc = files.LoadGeo()
	}
	if loc == nil {
		detected, err := detectLocation(ctx)
		if err != nil {
			a.log.Warn().Err(err).Str("fallback", preset.DefaultKey).Msg("location detection failed")
			return a.registry.Get(preset.DefaultKey)
		}
		loc = detected
		if files != nil {
			if err := files.SaveGeo(loc); err != nil {
				a.log.Debug().Err(err).Msg("failed to cache location")
			}
		}
	}

	p := a.registry.Nearest(loc.Latitude, loc.Longitude)
	a.log.Debug().Str("city", loc.City).Str("preset", p.Key).Msg("auto-selected location")
	return p, nil
}

// timeLayout is the Go layout for the effective time format.
func (a *app) timeLayout() string {
	return a.settings.TimeLayout()
}
