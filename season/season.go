// Package season keeps the schedule of the current season in memory and
// refreshes it periodically.
package season

import (
	"context"
	"sync"
	"time"

	"pitwall/log"
	"pitwall/weekend"
)

// Source provides the normalized weekends of a season.
type Source interface {
	GetWeekends(ctx context.Context, year int) ([]*weekend.Weekend, error)
}

type Schedule struct {
	Year     int                `json:"year"`
	Weekends []*weekend.Weekend `json:"weekends"`
	LoadedAt time.Time          `json:"loadedAt"`
}

// Next returns the first upcoming weekend, or nil once the season is over.
func (s Schedule) Next() *weekend.Weekend {
	for _, w := range s.Weekends {
		if w.IsUpcoming() {
			return w
		}
	}
	return nil
}

// Round returns the weekend of the given round, or nil.
func (s Schedule) Round(round string) *weekend.Weekend {
	for _, w := range s.Weekends {
		if w.Round() == round {
			return w
		}
	}
	return nil
}

type Loader struct {
	source       Source
	year         func() int
	loadInterval time.Duration
	timeout      time.Duration
	onUpdate     func(Schedule)
	logger       *log.Logger

	mu       sync.RWMutex
	schedule Schedule
	loaded   bool

	stopChan chan struct{}
	wg       sync.WaitGroup
}

type Option func(l *Loader)

// WithYear pins the loader to one season instead of the current year.
func WithYear(year int) Option {
	return func(l *Loader) { l.year = func() int { return year } }
}

func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithUpdateHandler registers a function called after every successful
// load.
func WithUpdateHandler(f func(Schedule)) Option {
	return func(l *Loader) { l.onUpdate = f }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(source Source, interval time.Duration, opts ...Option) *Loader {
	l := &Loader{
		source:       source,
		year:         func() int { return time.Now().Year() },
		loadInterval: interval,
		timeout:      30 * time.Second,
		logger:       log.Default().Named("season"),
		stopChan:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *Loader) Stop() {
	close(l.stopChan)
	l.wg.Wait()
	l.logger.Info("season loader stopped")
}

func (l *Loader) run() {
	defer l.wg.Done()

	l.reload()

	ticker := time.NewTicker(l.loadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reload()
		case <-l.stopChan:
			return
		}
	}
}

func (l *Loader) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	go func() {
		select {
		case <-l.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	if _, err := l.Load(ctx); err != nil {
		l.logger.Warn("could not load season", log.ErrorField(err))
	}
}

// Load fetches the schedule once and replaces the current one. The load
// state of every session, loaded or in flight, is carried over to its
// replacement. A failed load keeps the previous schedule.
func (l *Loader) Load(ctx context.Context) (Schedule, error) {
	year := l.year()
	l.logger.Debug("fetching season schedule", log.Int("year", year))
	weekends, err := l.source.GetWeekends(ctx, year)
	if err != nil {
		return Schedule{}, err
	}

	l.mu.Lock()
	if l.loaded && l.schedule.Year == year {
		carryOver(l.schedule, weekends)
	}
	l.schedule = Schedule{Year: year, Weekends: weekends, LoadedAt: time.Now()}
	l.loaded = true
	current := l.schedule
	l.mu.Unlock()

	l.logger.Info("season loaded", log.Int("year", year), log.Int("weekends", len(weekends)))
	if l.onUpdate != nil {
		l.onUpdate(current)
	}
	return current, nil
}

// Schedule returns the current schedule; ok is false until the first
// successful load.
func (l *Loader) Schedule() (s Schedule, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.schedule, l.loaded
}

func carryOver(old Schedule, fresh []*weekend.Weekend) {
	for _, w := range fresh {
		if prev := old.Round(w.Round()); prev != nil {
			w.Inherit(prev)
		}
	}
}
