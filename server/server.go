// Package server exposes the season, session, standings, meeting and asset
// data over HTTP and pushes updates to websocket clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"pitwall/assets"
	"pitwall/broadcaster"
	"pitwall/cache"
	"pitwall/cache/loadercache"
	"pitwall/ergast"
	"pitwall/log"
	"pitwall/openf1"
	"pitwall/season"
	"pitwall/store"
	"pitwall/weekend"
)

type Server struct {
	results     *ergast.Client
	live        *openf1.Client
	loader      *season.Loader
	resolver    *assets.Resolver
	broadcaster *broadcaster.Broadcaster
	resultStore *store.Store
	cacheTTL    time.Duration
	weekends    cache.Cache[int, []*weekend.Weekend]
	fetch       weekend.ResultsFetcher
	logger      *log.Logger
}

type Option func(s *Server)

func WithBroadcaster(b *broadcaster.Broadcaster) Option {
	return func(s *Server) { s.broadcaster = b }
}

// WithResultStore serves finished sessions from st and stores new ones.
func WithResultStore(st *store.Store) Option {
	return func(s *Server) { s.resultStore = st }
}

// WithCacheTTL sets how long schedules of other seasons are kept.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Server) { s.cacheTTL = d }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func New(results *ergast.Client, live *openf1.Client, loader *season.Loader, resolver *assets.Resolver, opts ...Option) *Server {
	s := &Server{
		results:  results,
		live:     live,
		loader:   loader,
		resolver: resolver,
		cacheTTL: time.Hour,
		logger:   log.Default().Named("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.broadcaster == nil {
		s.broadcaster = broadcaster.NewBroadcaster()
	}
	s.fetch = results.FetchSession
	if s.resultStore != nil {
		s.fetch = s.resultStore.ReadThrough(s.fetch)
	}
	s.weekends = loadercache.New(
		loadercache.WithExpiration[int, []*weekend.Weekend](s.cacheTTL),
		loadercache.WithLogger[int, []*weekend.Weekend](s.logger.Named("cache")),
		loadercache.WithLoader[int, []*weekend.Weekend](func(ctx context.Context, year int) (*[]*weekend.Weekend, error) {
			w, err := results.GetWeekends(ctx, year)
			if err != nil {
				return nil, err
			}
			return &w, nil
		}),
	)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/season", s.handleSeason)
	mux.HandleFunc("/season.ics", s.handleCalendar)
	mux.HandleFunc("/weekend", s.handleWeekend)
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/standings", s.handleStandings)
	mux.HandleFunc("/meetings", s.handleMeetings)
	mux.HandleFunc("/asset", s.handleAsset)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return newCORS().Handler(mux)
}

// newCORS allows read access from any origin.
func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
	})
}

// Run serves on addr until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// weekendsFor returns the weekends of year, using the live schedule for the
// season kept by the loader.
func (s *Server) weekendsFor(ctx context.Context, year int) ([]*weekend.Weekend, error) {
	if sched, ok := s.schedule(); ok && sched.Year == year {
		return sched.Weekends, nil
	}
	w, err := s.weekends.Get(ctx, year)
	if err != nil {
		return nil, err
	}
	return *w, nil
}

func (s *Server) schedule() (season.Schedule, bool) {
	if s.loader == nil {
		return season.Schedule{}, false
	}
	return s.loader.Schedule()
}

func (s *Server) defaultYear() int {
	if sched, ok := s.schedule(); ok {
		return sched.Year
	}
	return time.Now().Year()
}
