package season

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
	"pitwall/weekend"
)

var now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func races() []model.Race {
	return []model.Race{
		{
			Season: "2024", Round: "5", RaceName: "Chinese Grand Prix",
			Date: "2024-04-21", Time: "07:00:00Z",
			Circuit:    model.Circuit{CircuitID: "shanghai", CircuitName: "Shanghai International Circuit", Location: model.Location{Locality: "Shanghai", Country: "China"}},
			Qualifying: &model.SessionDate{Date: "2024-04-20", Time: "07:00:00Z"},
		},
		{
			Season: "2024", Round: "6", RaceName: "Miami Grand Prix",
			Date:          "2024-05-05",
			Circuit:       model.Circuit{CircuitID: "miami", Location: model.Location{Locality: "Miami", Country: "USA"}},
			FirstPractice: &model.SessionDate{Date: "2024-05-03", Time: "16:30:00Z"},
		},
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) GetWeekends(ctx context.Context, year int) ([]*weekend.Weekend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return weekend.NewAll(races(), now), nil
}

func TestLoad(t *testing.T) {
	src := &fakeSource{}
	var updates []Schedule
	l := NewLoader(src, time.Hour, WithYear(2024), WithUpdateHandler(func(s Schedule) {
		updates = append(updates, s)
	}))

	_, ok := l.Schedule()
	assert.False(t, ok)

	s, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2024, s.Year)
	assert.Len(t, s.Weekends, 2)
	require.Len(t, updates, 1)

	next := s.Next()
	require.NotNil(t, next)
	assert.Equal(t, "6", next.Round())
	assert.Nil(t, s.Round("99"))

	current, ok := l.Schedule()
	assert.True(t, ok)
	assert.Equal(t, s.LoadedAt, current.LoadedAt)
}

func TestLoadFailureKeepsSchedule(t *testing.T) {
	src := &fakeSource{}
	l := NewLoader(src, time.Hour, WithYear(2024))
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	src.err = errors.New("upstream down")
	_, err = l.Load(context.Background())
	assert.Error(t, err)

	s, ok := l.Schedule()
	assert.True(t, ok)
	assert.Len(t, s.Weekends, 2)
}

func TestLoadCarriesOverResults(t *testing.T) {
	l := NewLoader(&fakeSource{}, time.Hour, WithYear(2024))
	ctx := context.Background()
	first, err := l.Load(ctx)
	require.NoError(t, err)

	china := first.Round("5")
	_, err = china.LoadSession(ctx, weekend.KindQualifying, func(context.Context, *weekend.Weekend, weekend.Kind) ([]model.Result, error) {
		return []model.Result{{Position: "1"}}, nil
	})
	require.NoError(t, err)

	second, err := l.Load(ctx)
	require.NoError(t, err)
	fresh := second.Round("5")
	assert.NotSame(t, china, fresh)
	results, ok := fresh.Session(weekend.KindQualifying).Results()
	assert.True(t, ok)
	assert.Len(t, results, 1)
	assert.Equal(t, weekend.NotRequested, fresh.Session(weekend.KindRace).State())
}

func TestLoadCarriesOverSessionInFlight(t *testing.T) {
	l := NewLoader(&fakeSource{}, time.Hour, WithYear(2024))
	ctx := context.Background()
	first, err := l.Load(ctx)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := first.Round("5").LoadSession(ctx, weekend.KindRace, func(context.Context, *weekend.Weekend, weekend.Kind) ([]model.Result, error) {
			close(started)
			<-release
			return []model.Result{{Position: "1"}, {Position: "2"}}, nil
		})
		done <- err
	}()
	<-started

	second, err := l.Load(ctx)
	require.NoError(t, err)
	fresh := second.Round("5")
	assert.Equal(t, weekend.Loading, fresh.Session(weekend.KindRace).State())

	calls := 0
	_, err = fresh.LoadSession(ctx, weekend.KindRace, func(context.Context, *weekend.Weekend, weekend.Kind) ([]model.Result, error) {
		calls++
		return nil, nil
	})
	assert.ErrorIs(t, err, weekend.ErrLoadInProgress)
	assert.Zero(t, calls)

	close(release)
	require.NoError(t, <-done)
	results, ok := fresh.Session(weekend.KindRace).Results()
	assert.True(t, ok)
	assert.Len(t, results, 2)
}

func TestStartStop(t *testing.T) {
	src := &fakeSource{}
	loaded := make(chan struct{}, 1)
	l := NewLoader(src, time.Hour, WithYear(2024), WithUpdateHandler(func(Schedule) {
		select {
		case loaded <- struct{}{}:
		default:
		}
	}))

	l.Start()
	select {
	case <-loaded:
	case <-time.After(time.Second):
		t.Fatal("initial load did not happen")
	}
	l.Stop()
	assert.Equal(t, 1, src.calls)
}

func TestCalendar(t *testing.T) {
	stamp := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	cal := Calendar("F1 2024", weekend.NewAll(races(), now), stamp)

	parsed, err := ics.ParseCalendar(strings.NewReader(cal.Serialize()))
	require.NoError(t, err)
	events := parsed.Events()
	require.Len(t, events, 4)

	quali := events[0]
	assert.Equal(t, "2024-5-qualifying@pitwall", quali.GetProperty(ics.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Chinese Grand Prix - Qualifying", quali.GetProperty(ics.ComponentPropertySummary).Value)
	start, err := quali.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 4, 20, 7, 0, 0, 0, time.UTC)))
	end, err := quali.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, end.Sub(start))

	race := events[1]
	end, err = race.GetEndAt()
	require.NoError(t, err)
	start, _ = race.GetStartAt()
	assert.Equal(t, 2*time.Hour, end.Sub(start))

	// the miami race has no time and becomes an all-day event
	miamiRace := events[3]
	assert.Equal(t, "2024-6-race@pitwall", miamiRace.GetProperty(ics.ComponentPropertyUniqueId).Value)
	assert.Contains(t, miamiRace.GetProperty(ics.ComponentPropertyLocation).Value, "Miami")
}
