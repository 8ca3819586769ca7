// Package ergast reads the historical results API. Every method is a thin
// projection of a single request: it extracts one nested list from the
// MRData envelope and returns an empty result when the data is absent.
package ergast

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"pitwall/log"
	"pitwall/model"
	"pitwall/upstream"
	"pitwall/weekend"
)

const (
	DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

	racesPath            = "MRData.RaceTable.Races"
	firstRacePath        = "MRData.RaceTable.Races.0"
	standingsListsPath   = "MRData.StandingsTable.StandingsLists"
	driverStandingsPath  = "MRData.StandingsTable.StandingsLists.0.DriverStandings"
	constructorStandPath = "MRData.StandingsTable.StandingsLists.0.ConstructorStandings"
	driversPath          = "MRData.DriverTable.Drivers"
	constructorsPath     = "MRData.ConstructorTable.Constructors"
	circuitsPath         = "MRData.CircuitTable.Circuits"
	seasonWinnerFetchers = 4
)

type Client struct {
	src    *upstream.Client
	now    func() time.Time
	logger *log.Logger
}

type Option func(c *Client)

// WithClock sets the clock used to classify weekends as upcoming.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewSource creates the upstream client for the results API. The API serves
// every resource with a ".json" suffix.
func NewSource(baseURL string, opts ...upstream.Option) *upstream.Client {
	return upstream.New("ergast", baseURL, append([]upstream.Option{upstream.WithSuffix(".json")}, opts...)...)
}

func New(src *upstream.Client, opts ...Option) *Client {
	c := &Client{
		src:    src,
		now:    time.Now,
		logger: log.Default().Named("ergast"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches path. Absent resources are reported as a nil body, which all
// extractors treat as empty.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.src.FetchResource(ctx, path)
	if err != nil {
		if upstream.IsAbsent(err) {
			c.logger.Debug("resource absent", log.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	return body, nil
}

func list[T any](ctx context.Context, c *Client, path, field string) ([]T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return upstream.ExtractList[T](body, field)
}

func one[T any](ctx context.Context, c *Client, path, field string) (*T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return upstream.ExtractOne[T](body, field)
}

func roundPath(year, round int, resource string) string {
	if round > 0 {
		return fmt.Sprintf("/%d/%d/%s", year, round, resource)
	}
	return fmt.Sprintf("/%d/%s", year, resource)
}

// GetRaces returns the raw schedule of a season.
func (c *Client) GetRaces(ctx context.Context, year int) ([]model.Race, error) {
	return list[model.Race](ctx, c, fmt.Sprintf("/%d/races", year), racesPath)
}

// GetWeekends returns the normalized weekends of a season.
func (c *Client) GetWeekends(ctx context.Context, year int) ([]*weekend.Weekend, error) {
	c.logger.Debug("fetching season schedule", log.Int("year", year))
	races, err := c.GetRaces(ctx, year)
	if err != nil {
		return nil, err
	}
	return weekend.NewAll(races, c.now()), nil
}

func (c *Client) GetQualifyingResults(ctx context.Context, year, round int) ([]model.Result, error) {
	return c.sessionResults(ctx, strconv.Itoa(year), strconv.Itoa(round), "qualifying", "QualifyingResults")
}

func (c *Client) GetRaceResults(ctx context.Context, year, round int) ([]model.Result, error) {
	return c.sessionResults(ctx, strconv.Itoa(year), strconv.Itoa(round), "results", "Results")
}

func (c *Client) GetSprintResults(ctx context.Context, year, round int) ([]model.Result, error) {
	return c.sessionResults(ctx, strconv.Itoa(year), strconv.Itoa(round), "sprint", "SprintResults")
}

func (c *Client) sessionResults(ctx context.Context, season, round, resource, field string) ([]model.Result, error) {
	return list[model.Result](ctx, c,
		fmt.Sprintf("/%s/%s/%s", season, round, resource),
		firstRacePath+"."+field)
}

// LoadSessionResults lazily loads the results of one session of w. Practice
// sessions carry no classification upstream and load as empty.
func (c *Client) LoadSessionResults(ctx context.Context, w *weekend.Weekend, kind weekend.Kind) ([]model.Result, error) {
	return w.LoadSession(ctx, kind, c.FetchSession)
}

// FetchSession fetches the results of one session of w without touching its
// load state. It is the ResultsFetcher behind LoadSessionResults.
func (c *Client) FetchSession(ctx context.Context, w *weekend.Weekend, kind weekend.Kind) ([]model.Result, error) {
	switch kind {
	case weekend.KindQualifying:
		return c.sessionResults(ctx, w.Season(), w.Round(), "qualifying", "QualifyingResults")
	case weekend.KindSprint:
		return c.sessionResults(ctx, w.Season(), w.Round(), "sprint", "SprintResults")
	case weekend.KindRace:
		return c.sessionResults(ctx, w.Season(), w.Round(), "results", "Results")
	}
	return []model.Result{}, nil
}

// GetDriverStandings returns the driver standings after round, or the latest
// standings of the season when round is 0.
func (c *Client) GetDriverStandings(ctx context.Context, year, round int) ([]model.DriverStanding, error) {
	return list[model.DriverStanding](ctx, c, roundPath(year, round, "driverStandings"), driverStandingsPath)
}

func (c *Client) GetConstructorStandings(ctx context.Context, year, round int) ([]model.ConstructorStanding, error) {
	return list[model.ConstructorStanding](ctx, c, roundPath(year, round, "constructorStandings"), constructorStandPath)
}

func (c *Client) GetDrivers(ctx context.Context, year int) ([]model.Driver, error) {
	return list[model.Driver](ctx, c, fmt.Sprintf("/%d/drivers", year), driversPath)
}

// GetDriver returns nil if the driver is unknown.
func (c *Client) GetDriver(ctx context.Context, driverID string) (*model.Driver, error) {
	return one[model.Driver](ctx, c, "/drivers/"+driverID, driversPath+".0")
}

func (c *Client) GetDriverResults(ctx context.Context, year int, driverID string) ([]model.Result, error) {
	return c.flatResults(ctx, fmt.Sprintf("/%d/drivers/%s/results", year, driverID))
}

func (c *Client) GetConstructors(ctx context.Context, year int) ([]model.Constructor, error) {
	return list[model.Constructor](ctx, c, fmt.Sprintf("/%d/constructors", year), constructorsPath)
}

// GetConstructor returns nil if the constructor is unknown.
func (c *Client) GetConstructor(ctx context.Context, constructorID string) (*model.Constructor, error) {
	return one[model.Constructor](ctx, c, "/constructors/"+constructorID, constructorsPath+".0")
}

func (c *Client) GetConstructorResults(ctx context.Context, year int, constructorID string) ([]model.Result, error) {
	return c.flatResults(ctx, fmt.Sprintf("/%d/constructors/%s/results", year, constructorID))
}

// GetCircuits returns the circuits of a season, or all circuits for year 0.
func (c *Client) GetCircuits(ctx context.Context, year int) ([]model.Circuit, error) {
	path := "/circuits"
	if year > 0 {
		path = fmt.Sprintf("/%d/circuits", year)
	}
	return list[model.Circuit](ctx, c, path, circuitsPath)
}

// GetCircuit returns nil if the circuit is unknown.
func (c *Client) GetCircuit(ctx context.Context, circuitID string) (*model.Circuit, error) {
	return one[model.Circuit](ctx, c, "/circuits/"+circuitID, circuitsPath+".0")
}

// GetCircuitResults returns the results of all races held at a circuit,
// limited to one season if year is set.
func (c *Client) GetCircuitResults(ctx context.Context, circuitID string, year int) ([]model.Result, error) {
	path := fmt.Sprintf("/circuits/%s/results", circuitID)
	if year > 0 {
		path = fmt.Sprintf("/%d%s", year, path)
	}
	return c.flatResults(ctx, path)
}

func (c *Client) flatResults(ctx context.Context, path string) ([]model.Result, error) {
	races, err := list[model.Race](ctx, c, path, racesPath)
	if err != nil {
		return nil, err
	}
	return lo.FlatMap(races, func(r model.Race, _ int) []model.Result {
		return r.Results
	}), nil
}

// GetFastestLaps returns the fastest lap of every race of a season.
func (c *Client) GetFastestLaps(ctx context.Context, year int) ([]model.FastestLapRecord, error) {
	races, err := list[model.Race](ctx, c, fmt.Sprintf("/%d/fastest/1/results", year), racesPath)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(races, func(r model.Race, _ int) (model.FastestLapRecord, bool) {
		if len(r.Results) == 0 || r.Results[0].FastestLap == nil {
			return model.FastestLapRecord{}, false
		}
		res := r.Results[0]
		r.Results = nil
		return model.FastestLapRecord{
			Race:         r,
			Driver:       res.Driver,
			Constructor:  res.Constructor,
			Time:         res.FastestLap.Time,
			AverageSpeed: res.FastestLap.AverageSpeed,
		}, true
	}), nil
}

type standingsList struct {
	Season               string                      `json:"season"`
	Round                string                      `json:"round"`
	DriverStandings      []model.DriverStanding      `json:"DriverStandings"`
	ConstructorStandings []model.ConstructorStanding `json:"ConstructorStandings"`
}

// GetSeasonWinners returns the drivers' and constructors' champions of every
// season together with the number of races held. The per season lookups run
// concurrently.
func (c *Client) GetSeasonWinners(ctx context.Context) ([]model.SeasonResult, error) {
	seasons, err := list[standingsList](ctx, c, "/driverStandings/1", standingsListsPath)
	if err != nil {
		return nil, err
	}
	out := make([]model.SeasonResult, len(seasons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seasonWinnerFetchers)
	for i := range seasons {
		g.Go(func() error {
			season := seasons[i]
			res := model.SeasonResult{Season: season.Season}
			if len(season.DriverStandings) > 0 {
				res.ChampionDriver = &season.DriverStandings[0].Driver
			}
			champ, err := one[model.Constructor](gctx, c,
				fmt.Sprintf("/%s/constructorStandings/1", season.Season),
				constructorStandPath+".0.Constructor")
			if err != nil {
				return err
			}
			res.ChampionConstructor = champ

			body, err := c.get(gctx, fmt.Sprintf("/%s/races", season.Season))
			if err != nil {
				return err
			}
			res.TotalRaces = upstream.Count(body, racesPath)
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOnThisDay returns all races held on the given month and day ("MM",
// "DD") in any season.
func (c *Client) GetOnThisDay(ctx context.Context, month, day string) ([]model.Race, error) {
	races, err := list[model.Race](ctx, c, "/races", racesPath)
	if err != nil {
		return nil, err
	}
	return lo.Filter(races, func(r model.Race, _ int) bool {
		t, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return false
		}
		return t.Format("01") == month && t.Format("02") == day
	}), nil
}

func (c *Client) GetLapTimes(ctx context.Context, year, round, lap int) ([]model.LapTiming, error) {
	return list[model.LapTiming](ctx, c,
		fmt.Sprintf("/%d/%d/laps/%d", year, round, lap),
		firstRacePath+".Laps.0.Timings")
}

// GetPitStops returns all pit stops of a race, or only the n-th stop of every
// driver when stop is set.
func (c *Client) GetPitStops(ctx context.Context, year, round, stop int) ([]model.PitStop, error) {
	path := fmt.Sprintf("/%d/%d/pitstops", year, round)
	if stop > 0 {
		path = fmt.Sprintf("%s/%d", path, stop)
	}
	return list[model.PitStop](ctx, c, path, firstRacePath+".PitStops")
}
