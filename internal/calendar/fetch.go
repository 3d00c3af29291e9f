package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/ramadan-live/internal/api"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// MonthSource returns the raw entries for one Gregorian month of a city.
type MonthSource interface {
	FetchMonth(ctx context.Context, year, month int, q api.CityQuery) ([]api.Data, error)
}

// APISource adapts an api.Client to MonthSource.
type APISource struct {
	Client *api.Client
}

// FetchMonth implements MonthSource.
func (s APISource) FetchMonth(ctx context.Context, year, month int, q api.CityQuery) ([]api.Data, error) {
	resp, err := s.Client.FetchCalendarByCity(ctx, year, month, q)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// MatchMode selects how raw entries are mapped onto the season.
type MatchMode string

const (
	// MatchDates looks up each date of [Start, Start+TotalDays).
	MatchDates MatchMode = "dates"
	// MatchHijri keeps every entry whose Hijri month is Ramadan.
	MatchHijri MatchMode = "hijri"
)

// ParseMatchMode validates a match mode string.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case MatchDates, MatchHijri:
		return MatchMode(s), nil
	case "":
		return MatchDates, nil
	default:
		return "", fmt.Errorf("invalid match mode %q: must be %q or %q", s, MatchDates, MatchHijri)
	}
}

// RamadanMonth is the Hijri month number of Ramadan.
const RamadanMonth = 9

// Season is the fixed Ramadan window.
type Season struct {
	Start     time.Time
	TotalDays int
	Match     MatchMode
}

// DefaultSeason is Ramadan 1447: 30 days from 19 February 2026.
func DefaultSeason() Season {
	return Season{
		Start:     time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC),
		TotalDays: 30,
		Match:     MatchDates,
	}
}

// YearMonth identifies a Gregorian month.
type YearMonth struct {
	Year  int
	Month int
}

// Months lists the Gregorian months the season spans, in order.
func (s Season) Months() []YearMonth {
	var out []YearMonth
	seen := make(map[YearMonth]bool)
	first := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < s.TotalDays; i++ {
		d := first.AddDate(0, 0, i)
		ym := YearMonth{d.Year(), int(d.Month())}
		if !seen[ym] {
			seen[ym] = true
			out = append(out, ym)
		}
	}
	return out
}

// Fetch downloads every month the season spans and reconciles them.
// A failure on any month yields an empty Result with Err set; Fetch never
// returns an error of its own.
func Fetch(ctx context.Context, src MonthSource, p preset.Preset, season Season) Result {
	months := season.Months()
	raw := make([][]api.Data, len(months))

	g, gctx := errgroup.WithContext(ctx)
	for i, ym := range months {
		g.Go(func() error {
			data, err := src.FetchMonth(gctx, ym.Year, ym.Month, p.Query())
			if err != nil {
				return fmt.Errorf("failed to fetch calendar for %d-%02d: %w", ym.Year, ym.Month, err)
			}
			raw[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Err: err}
	}

	if season.Match == MatchHijri {
		return BuildHijriMonth(RamadanMonth, raw...)
	}
	return Build(season.Start, season.TotalDays, raw...)
}
