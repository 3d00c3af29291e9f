// Package server serves the Ramadan calendar and live countdown over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// Options configures a Server.
type Options struct {
	Registry        *preset.Registry
	Source          calendar.MonthSource
	Season          calendar.Season
	Log             zerolog.Logger
	DefaultLocation string
	TimeLayout      string        // "15:04" or "3:04 PM"
	TickInterval    time.Duration // SSE countdown period
	Now             func() time.Time
	Production      bool
}

// Server holds one Loader per preset and the gin engine.
type Server struct {
	registry   *preset.Registry
	loaders    map[string]*calendar.Loader
	log        zerolog.Logger
	defaultKey string
	timeLayout string
	tick       time.Duration
	now        func() time.Time
	engine     *gin.Engine

	// loads collapses concurrent loads of the same preset.
	loads singleflight.Group
}

// New builds a Server. Calendars load lazily on first request; call Refresh
// to load them up front.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = "15:04"
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = countdown.DefaultInterval
	}
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = preset.DefaultKey
	}

	s := &Server{
		registry:   opts.Registry,
		loaders:    make(map[string]*calendar.Loader),
		log:        opts.Log,
		defaultKey: opts.DefaultLocation,
		timeLayout: opts.TimeLayout,
		tick:       opts.TickInterval,
		now:        opts.Now,
	}
	for _, p := range opts.Registry.All() {
		s.loaders[p.Key] = calendar.NewLoader(opts.Source, opts.Season, opts.Log)
	}

	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Refresh reloads every preset concurrently.
func (s *Server) Refresh(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.registry.All() {
		g.Go(func() error {
			s.loaders[p.Key].Load(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
}

// Run serves on addr until ctx is done, refreshing all calendars every
// refreshEvery (no background refresh when zero).
func (s *Server) Run(ctx context.Context, addr string, refreshEvery time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end when the server shuts down.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.Refresh(gctx)
		if refreshEvery <= 0 {
			return nil
		}
		t := time.NewTicker(refreshEvery)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				s.Refresh(gctx)
			}
		}
	})

	return g.Wait()
}

// snapshot returns the current calendar for key. It loads on first use and
// again whenever the last load left the calendar unavailable, so a failed
// fetch is retried by the next request.
func (s *Server) snapshot(ctx context.Context, key string) (*calendar.Snapshot, error) {
	p, l, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	if snap := l.Current(); !snap.Unavailable() {
		return snap, nil
	}

	v, _, _ := s.loads.Do(p.Key, func() (any, error) {
		if snap := l.Current(); !snap.Unavailable() {
			return snap, nil
		}
		snap, _ := l.Load(ctx, p)
		return snap, nil
	})
	return v.(*calendar.Snapshot), nil
}

// current returns the committed calendar for key without loading. It is nil
// before the first load.
func (s *Server) current(key string) *calendar.Snapshot {
	_, l, err := s.lookup(key)
	if err != nil {
		return nil
	}
	return l.Current()
}

func (s *Server) lookup(key string) (preset.Preset, *calendar.Loader, error) {
	if key == "" {
		key = s.defaultKey
	}
	p, err := s.registry.Get(key)
	if err != nil {
		return preset.Preset{}, nil, err
	}
	return p, s.loaders[p.Key], nil
}
