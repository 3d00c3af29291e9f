package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// Snapshot is an immutable, fully reconciled calendar for one preset.
type Snapshot struct {
	Preset     preset.Preset
	Location   *time.Location
	Days       []Day
	Misses     []Key
	Err        error
	Generation uint64
	LoadedAt   time.Time
	// Stale is set when a newer Load started before this one finished.
	Stale bool
}

// Unavailable reports whether the snapshot has no days to show.
func (s *Snapshot) Unavailable() bool {
	return s == nil || len(s.Days) == 0
}

// Loader runs the fetch+build pipeline and keeps the latest snapshot.
// Every Load takes a new generation; a result only replaces the current
// snapshot if no newer Load has started since, so a slow response for an
// old location never overwrites a newer one.
type Loader struct {
	src    MonthSource
	season Season
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	gen     uint64
	current *Snapshot
}

// NewLoader creates a Loader for the given season.
func NewLoader(src MonthSource, season Season, log zerolog.Logger) *Loader {
	return &Loader{
		src:    src,
		season: season,
		log:    log,
		now:    time.Now,
	}
}

// Season returns the window this loader builds.
func (l *Loader) Season() Season {
	return l.season
}

// Load fetches and reconciles the calendar for p. It returns the snapshot
// and whether it became the current one.
func (l *Loader) Load(ctx context.Context, p preset.Preset) (*Snapshot, bool) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	log := l.log.With().Str("preset", p.Key).Uint64("generation", gen).Logger()

	snap := &Snapshot{Preset: p, Generation: gen, Location: time.UTC}
	loc, err := p.Location()
	if err != nil {
		snap.Err = err
	} else {
		snap.Location = loc
		res := Fetch(ctx, l.src, p, l.season)
		snap.Days = res.Days
		snap.Misses = res.Misses
		snap.Err = res.Err

		for _, miss := range res.Misses {
			log.Debug().Str("key", miss.String()).Msg("no upstream entry for date, skipping day")
		}
		for _, reason := range res.Dropped {
			log.Debug().Str("reason", reason).Msg("dropped upstream entry")
		}
	}
	snap.LoadedAt = l.now()

	if snap.Err != nil {
		log.Warn().Err(snap.Err).Msg("calendar unavailable")
	} else {
		log.Info().Int("days", len(snap.Days)).Int("misses", len(snap.Misses)).Msg("calendar loaded")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		log.Debug().Uint64("latest", l.gen).Msg("discarding stale calendar")
		snap.Stale = true
		return snap, false
	}
	l.current = snap
	return snap, true
}

// Current returns the latest committed snapshot, or nil before the first Load.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}
