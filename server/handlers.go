package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pitwall/assets"
	"pitwall/broadcaster"
	"pitwall/log"
	"pitwall/season"
	"pitwall/upstream"
	"pitwall/weekend"
)

var errBadRequest = errors.New("bad request")

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	year, err := intParam(r, "year", s.defaultYear())
	if err != nil {
		s.writeError(w, err)
		return
	}
	weekends, err := s.weekendsFor(r.Context(), year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := season.Schedule{Year: year, Weekends: weekends}
	if sched, ok := s.schedule(); ok && sched.Year == year {
		resp = sched
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	year, err := intParam(r, "year", s.defaultYear())
	if err != nil {
		s.writeError(w, err)
		return
	}
	weekends, err := s.weekendsFor(r.Context(), year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cal := season.Calendar(fmt.Sprintf("Formula 1 %d", year), weekends, time.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		s.logger.Warn("error writing calendar", log.ErrorField(err))
	}
}

func (s *Server) handleWeekend(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	wk, err := s.lookupWeekend(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wk)
}

type sessionUpdate struct {
	Season  string           `json:"season"`
	Round   string           `json:"round"`
	Session *weekend.Session `json:"session"`
}

// handleSession loads the results of a session on first request. While
// another request is loading the same session, 202 is returned together
// with the current session state.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	wk, err := s.lookupWeekend(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	kind, ok := weekend.ParseKind(r.URL.Query().Get("kind"))
	if !ok {
		s.writeError(w, fmt.Errorf("%w: unknown session kind %q", errBadRequest, r.URL.Query().Get("kind")))
		return
	}

	alreadyLoaded := false
	if sess := wk.Session(kind); sess != nil {
		alreadyLoaded = sess.State() == weekend.Loaded
	}
	_, err = wk.LoadSession(r.Context(), kind, s.fetch)
	switch {
	case errors.Is(err, weekend.ErrLoadInProgress):
		s.writeJSON(w, http.StatusAccepted, wk.Session(kind))
		return
	case err != nil:
		s.writeError(w, err)
		return
	}
	update := sessionUpdate{Season: wk.Season(), Round: wk.Round(), Session: wk.Session(kind)}
	if !alreadyLoaded {
		s.broadcaster.Broadcast(broadcaster.Message{Type: "session", Data: update})
	}
	s.writeJSON(w, http.StatusOK, update)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	year, err := intParam(r, "year", s.defaultYear())
	if err != nil {
		s.writeError(w, err)
		return
	}
	round, err := intParam(r, "round", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	switch r.URL.Query().Get("type") {
	case "", "driver":
		standings, err := s.results.GetDriverStandings(r.Context(), year, round)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, standings)
	case "constructor":
		standings, err := s.results.GetConstructorStandings(r.Context(), year, round)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, standings)
	default:
		s.writeError(w, fmt.Errorf("%w: type must be driver or constructor", errBadRequest))
	}
}

func (s *Server) handleMeetings(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	year, err := intParam(r, "year", s.defaultYear())
	if err != nil {
		s.writeError(w, err)
		return
	}
	meetings, err := s.live.GetMeetingsWithDetails(r.Context(), year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	kind, ok := assets.ParseKind(q.Get("kind"))
	if !ok {
		s.writeError(w, fmt.Errorf("%w: kind must be driver, circuit or team", errBadRequest))
		return
	}
	subject := assets.Subject{
		Kind:        kind,
		ID:          q.Get("id"),
		GivenName:   q.Get("given"),
		FamilyName:  q.Get("family"),
		Name:        q.Get("name"),
		Nationality: q.Get("nationality"),
	}
	var c assets.Candidate
	if probe, _ := strconv.ParseBool(q.Get("probe")); probe {
		c = s.resolver.Probe(r.Context(), subject)
	} else {
		c = s.resolver.Resolve(subject)
	}
	s.writeJSON(w, http.StatusOK, struct {
		assets.Candidate
		TierName string `json:"tierName"`
	}{c, c.Tier.String()})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	var initial *broadcaster.Message
	if sched, ok := s.schedule(); ok {
		initial = &broadcaster.Message{Type: "season", Data: sched}
	}
	s.broadcaster.HandleConnections(w, r, initial)
}

func (s *Server) lookupWeekend(r *http.Request) (*weekend.Weekend, error) {
	year, err := intParam(r, "year", s.defaultYear())
	if err != nil {
		return nil, err
	}
	round := r.URL.Query().Get("round")
	if round == "" {
		return nil, fmt.Errorf("%w: round is required", errBadRequest)
	}
	weekends, err := s.weekendsFor(r.Context(), year)
	if err != nil {
		return nil, err
	}
	sched := season.Schedule{Year: year, Weekends: weekends}
	wk := sched.Round(round)
	if wk == nil {
		return nil, fmt.Errorf("%d round %s: %w", year, round, upstream.ErrNotFound)
	}
	return wk, nil
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, v)
	}
	return n, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("error encoding response", log.ErrorField(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, weekend.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, upstream.ErrRateLimited):
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "5")
	}
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", log.ErrorField(err))
	}
	s.writeJSON(w, status, map[string]string{"message": err.Error()})
}
