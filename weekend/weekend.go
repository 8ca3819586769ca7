package weekend

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"pitwall/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	startOfDay = "00:00:00"
	endOfDay   = "23:59:59"
)

// Weekend is a normalized race weekend. It is built once by New and not
// modified afterwards; only the load state of its sessions changes.
type Weekend struct {
	Race model.Race

	sessions     []*Session
	isUpcoming   bool
	weekendStart string
}

// New normalizes a raw race record into a weekend and classifies it against
// now. It never fails: malformed dates sort last and are never upcoming.
func New(race model.Race, now time.Time) *Weekend {
	w := &Weekend{Race: race}
	w.sessions = normalizeSessions(race)
	w.isUpcoming = classifyUpcoming(race, now)
	w.weekendStart = race.Date
	if len(w.sessions) > 0 {
		w.weekendStart = w.sessions[0].Date
	}
	return w
}

// NewAll normalizes all races of a season, keeping the upstream order.
func NewAll(races []model.Race, now time.Time) []*Weekend {
	out := make([]*Weekend, 0, len(races))
	for i := range races {
		out = append(out, New(races[i], now))
	}
	return out
}

// Sessions returns the sessions ordered by their start.
func (w *Weekend) Sessions() []*Session {
	return w.sessions
}

// Session returns the session of the given kind, nil if the weekend has none.
func (w *Weekend) Session(kind Kind) *Session {
	for _, s := range w.sessions {
		if s.Kind == kind {
			return s
		}
	}
	return nil
}

// Inherit makes the sessions of w share the load state of the sessions of
// the same kind in prev, including a load still in flight. It must be called
// before w is handed to other goroutines.
func (w *Weekend) Inherit(prev *Weekend) {
	for _, s := range w.sessions {
		if ps := prev.Session(s.Kind); ps != nil {
			s.load = ps.load
		}
	}
}

func (w *Weekend) IsUpcoming() bool {
	return w.isUpcoming
}

// WeekendStart is the date of the earliest session.
func (w *Weekend) WeekendStart() string {
	return w.weekendStart
}

func (w *Weekend) Season() string { return w.Race.Season }
func (w *Weekend) Round() string  { return w.Race.Round }

func normalizeSessions(race model.Race) []*Session {
	sessions := make([]*Session, 0, 6)
	optional := []struct {
		kind Kind
		date *model.SessionDate
	}{
		{KindPractice1, race.FirstPractice},
		{KindPractice2, race.SecondPractice},
		{KindPractice3, race.ThirdPractice},
		{KindSprint, race.Sprint},
		{KindQualifying, race.Qualifying},
	}
	for _, o := range optional {
		if o.date != nil {
			sessions = append(sessions, newSession(o.kind, o.date.Date, o.date.Time))
		}
	}
	sessions = append(sessions, newSession(KindRace, race.Date, race.Time))

	sort.SliceStable(sessions, func(i, j int) bool {
		ti, okI := effectiveTime(sessions[i].Date, sessions[i].Time, startOfDay)
		tj, okJ := effectiveTime(sessions[j].Date, sessions[j].Time, startOfDay)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI:
			return true
		default:
			return false
		}
	})
	return sessions
}

func classifyUpcoming(race model.Race, now time.Time) bool {
	start, ok := effectiveTime(race.Date, race.Time, endOfDay)
	if !ok {
		return false
	}
	return start.After(now)
}

// effectiveTime combines a date with an optional time of day. A missing time
// is replaced by fallback. Times without zone are taken as UTC.
func effectiveTime(date, tm, fallback string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	tm = strings.TrimSpace(tm)
	if tm == "" {
		tm = fallback
	}
	if t, err := time.Parse(time.RFC3339Nano, date+"T"+tm); err == nil {
		return t, true
	}
	t, err := time.ParseInLocation(dateLayout+"T"+timeLayout, date+"T"+tm, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Start returns the scheduled start of the session. timed is false when
// only the date is known, in which case start is midnight UTC.
func (s *Session) Start() (start time.Time, timed, ok bool) {
	start, ok = effectiveTime(s.Date, s.Time, startOfDay)
	return start, strings.TrimSpace(s.Time) != "", ok
}

type weekendJSON struct {
	model.Race
	Sessions     []*Session `json:"sessions"`
	IsUpcoming   bool       `json:"isUpcoming"`
	WeekendStart string     `json:"weekendStart"`
}

func (w *Weekend) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekendJSON{
		Race:         w.Race,
		Sessions:     w.sessions,
		IsUpcoming:   w.isUpcoming,
		WeekendStart: w.weekendStart,
	})
}
