package openf1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/upstream"
)

var now = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

const meetingsBody = `[
 {"meeting_key":1229,"meeting_name":"Saudi Arabian Grand Prix","circuit_key":149,"date_start":"2024-03-07T13:30:00+00:00","meeting_year":2024},
 {"meeting_key":1228,"meeting_name":"Bahrain Grand Prix","circuit_key":63,"date_start":"2024-02-29T11:30:00+00:00","meeting_year":2024},
 {"meeting_key":1230,"meeting_name":"Australian Grand Prix","circuit_key":10,"date_start":"2024-03-22T01:30:00+00:00","meeting_year":2024}
]`

type fakeAPI struct {
	mu     sync.Mutex
	bodies map[string]string
	seen   []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.seen = append(f.seen, r.URL.RequestURI())
	body, ok := f.bodies[r.URL.RequestURI()]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(body))
}

func newClient(t *testing.T, bodies map[string]string, opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{bodies: bodies}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithClock(func() time.Time { return now }), WithThrottle(0)}, opts...)
	return New(NewSource(srv.URL), opts...), api
}

func TestGetMeetingsWithDetails(t *testing.T) {
	c, _ := newClient(t, map[string]string{
		"/meetings?year=2024": meetingsBody,
		"/circuits": `[{"circuit_key":63,"circuit_short_name":"Sakhir","circuit_name":"Bahrain International Circuit"},
			{"circuit_key":149,"circuit_short_name":"Jeddah"}]`,
		"/sessions?meeting_key=1228": `[{"session_key":9472,"session_name":"Race","session_type":"Race","date_start":"2024-03-02T15:00:00+00:00"}]`,
		"/sessions?meeting_key=1229": `[{"session_key":9480,"session_name":"Practice 1"},{"session_key":9488,"session_name":"Race"}]`,
	})

	meetings, err := c.GetMeetingsWithDetails(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, meetings, 3)

	bahrain := meetings[0]
	assert.Equal(t, "Bahrain Grand Prix", bahrain.MeetingName)
	assert.False(t, bahrain.IsUpcoming)
	require.Len(t, bahrain.Sessions, 1)
	require.NotNil(t, bahrain.Circuit)
	assert.Equal(t, "Sakhir", bahrain.Circuit.CircuitShortName)

	jeddah := meetings[1]
	assert.True(t, jeddah.IsUpcoming)
	assert.Len(t, jeddah.Sessions, 2)
	require.NotNil(t, jeddah.Circuit)

	// sessions of the australian meeting fail with 401
	melbourne := meetings[2]
	assert.Equal(t, 1230, melbourne.MeetingKey)
	assert.False(t, melbourne.IsUpcoming)
	assert.NotNil(t, melbourne.Sessions)
	assert.Empty(t, melbourne.Sessions)
	assert.Nil(t, melbourne.Circuit)
}

func TestGetMeetingsWithDetailsFailsWithoutMeetings(t *testing.T) {
	c, _ := newClient(t, nil)

	_, err := c.GetMeetingsWithDetails(context.Background(), 2024)
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)
}

func TestAbsentDataIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.RequestURI() {
		case "/meetings?year=2015":
			_, _ = w.Write([]byte(`[{"meeting_key":1,"meeting_name":"Australian Grand Prix","circuit_key":10,"date_start":"2015-03-13T01:30:00+00:00"}]`))
		case "/circuits":
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	c := New(NewSource(srv.URL), WithThrottle(0), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	meetings, err := c.GetMeetings(ctx, 1950)
	require.NoError(t, err)
	assert.NotNil(t, meetings)
	assert.Empty(t, meetings)

	results, err := c.GetSessionResults(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, results)

	drivers, err := c.GetDrivers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, drivers)

	// a meeting without sessions is not degraded
	details, err := c.GetMeetingsWithDetails(ctx, 2015)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Empty(t, details[0].Sessions)
	assert.False(t, details[0].IsUpcoming)
}

func TestThrottledEndpoints(t *testing.T) {
	c, api := newClient(t, map[string]string{
		"/session_result?session_key=9472": `[{"position":1,"driver_number":1,"time_gap":null,"number_of_laps":57},
			{"position":2,"driver_number":11,"time_gap":22.457,"number_of_laps":57}]`,
		"/drivers?session_key=9472": `[{"driver_number":1,"full_name":"Max VERSTAPPEN","name_acronym":"VER","team_colour":"3671C6"}]`,
	}, WithThrottle(30*time.Millisecond))
	ctx := context.Background()

	start := time.Now()
	results, err := c.GetSessionResults(ctx, 9472)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	require.Len(t, results, 2)
	assert.Nil(t, results[0].TimeGap)
	require.NotNil(t, results[1].TimeGap)
	assert.InDelta(t, 22.457, *results[1].TimeGap, 1e-9)

	drivers, err := c.GetDrivers(ctx, 9472)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "VER", drivers[0].NameAcronym)
	assert.Equal(t, []string{"/session_result?session_key=9472", "/drivers?session_key=9472"}, api.seen)
}

func TestThrottleHonorsContext(t *testing.T) {
	c, api := newClient(t, nil, WithThrottle(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetDrivers(ctx, 1)
	assert.ErrorIs(t, err, upstream.ErrNetwork)
	assert.Empty(t, api.seen)
}

func TestGetMeetingsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(NewSource(srv.URL)).GetMeetings(context.Background(), 2024)
	assert.ErrorIs(t, err, upstream.ErrRateLimited)
}
