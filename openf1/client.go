// Package openf1 reads meetings, sessions and classifications from the live
// timing API. The API rate limits aggressively, so the per session endpoints
// are throttled.
package openf1

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"pitwall/log"
	"pitwall/model"
	"pitwall/upstream"
)

const (
	DefaultBaseURL       = "https://api.openf1.org/v1"
	DefaultThrottleDelay = 150 * time.Millisecond

	detailFetchers = 4
)

type Client struct {
	src      *upstream.Client
	throttle time.Duration
	now      func() time.Time
	logger   *log.Logger
}

type Option func(c *Client)

// WithThrottle sets the delay applied before session result and driver
// requests.
func WithThrottle(d time.Duration) Option {
	return func(c *Client) { c.throttle = d }
}

// WithClock sets the clock used to classify meetings as upcoming.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewSource(baseURL string, opts ...upstream.Option) *upstream.Client {
	return upstream.New("openf1", baseURL, opts...)
}

func New(src *upstream.Client, opts ...Option) *Client {
	c := &Client{
		src:      src,
		throttle: DefaultThrottleDelay,
		now:      time.Now,
		logger:   log.Default().Named("openf1"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func list[T any](ctx context.Context, c *Client, path string, delay time.Duration) ([]T, error) {
	body, err := c.src.FetchResourceAfter(ctx, path, delay)
	if err != nil {
		if upstream.IsAbsent(err) {
			c.logger.Debug("resource absent", log.String("path", path))
			return []T{}, nil
		}
		return nil, err
	}
	// the API answers with a bare array
	return upstream.ExtractList[T](body, "@this")
}

func (c *Client) GetMeetings(ctx context.Context, year int) ([]model.Meeting, error) {
	return list[model.Meeting](ctx, c, fmt.Sprintf("/meetings?year=%d", year), 0)
}

func (c *Client) GetSessions(ctx context.Context, meetingKey int) ([]model.MeetingSession, error) {
	return list[model.MeetingSession](ctx, c, fmt.Sprintf("/sessions?meeting_key=%d", meetingKey), 0)
}

func (c *Client) GetCircuits(ctx context.Context) ([]model.TrackInfo, error) {
	return list[model.TrackInfo](ctx, c, "/circuits", 0)
}

func (c *Client) GetSessionResults(ctx context.Context, sessionKey int) ([]model.SessionResult, error) {
	return list[model.SessionResult](ctx, c, fmt.Sprintf("/session_result?session_key=%d", sessionKey), c.throttle)
}

func (c *Client) GetDrivers(ctx context.Context, sessionKey int) ([]model.SessionDriver, error) {
	return list[model.SessionDriver](ctx, c, fmt.Sprintf("/drivers?session_key=%d", sessionKey), c.throttle)
}

// GetMeetingsWithDetails returns the meetings of a year with their sessions
// and circuit, ordered by start date. A meeting whose sessions cannot be
// fetched is kept with no sessions and is never upcoming. Failing to list
// the meetings or circuits fails the whole call.
func (c *Client) GetMeetingsWithDetails(ctx context.Context, year int) ([]model.MeetingWithSessions, error) {
	meetings, err := c.GetMeetings(ctx, year)
	if err != nil {
		return nil, err
	}
	circuits, err := c.GetCircuits(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]model.MeetingWithSessions, len(meetings))
	var g errgroup.Group
	g.SetLimit(detailFetchers)
	for i, m := range meetings {
		g.Go(func() error {
			out[i] = c.meetingDetails(ctx, m, circuits, now)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(out, func(i, j int) bool {
		return meetingStart(out[i].Meeting).Before(meetingStart(out[j].Meeting))
	})
	return out, nil
}

func (c *Client) meetingDetails(ctx context.Context, m model.Meeting, circuits []model.TrackInfo, now time.Time) model.MeetingWithSessions {
	sessions, err := c.GetSessions(ctx, m.MeetingKey)
	if err != nil {
		c.logger.Warn("could not fetch meeting sessions",
			log.Int("meetingKey", m.MeetingKey),
			log.String("meeting", m.MeetingName),
			log.ErrorField(err))
		return model.MeetingWithSessions{Meeting: m, Sessions: []model.MeetingSession{}}
	}
	res := model.MeetingWithSessions{
		Meeting:    m,
		Sessions:   sessions,
		IsUpcoming: meetingStart(m).After(now),
	}
	if circuit, ok := lo.Find(circuits, func(t model.TrackInfo) bool {
		return t.CircuitKey == m.CircuitKey
	}); ok {
		res.Circuit = &circuit
	}
	c.logger.Debug("meeting classified",
		log.String("meeting", m.MeetingName),
		log.String("start", m.DateStart),
		log.Bool("isUpcoming", res.IsUpcoming))
	return res
}

// meetingStart parses the meeting start. Unparseable dates yield the zero
// time, which sorts first and is never upcoming.
func meetingStart(m model.Meeting) time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.DateStart)
	if err != nil {
		return time.Time{}
	}
	return t
}
