package weekend

import (
	"encoding/json"
	"errors"
	"sync"

	"pitwall/model"
)

const (
	KindPractice1  Kind = "practice1"
	KindPractice2  Kind = "practice2"
	KindPractice3  Kind = "practice3"
	KindQualifying Kind = "qualifying"
	KindSprint     Kind = "sprint"
	KindRace       Kind = "race"
)

// Kind identifies the type of a session within a race weekend.
type Kind string

func (k Kind) DisplayName() string {
	switch k {
	case KindPractice1:
		return "Practice 1"
	case KindPractice2:
		return "Practice 2"
	case KindPractice3:
		return "Practice 3"
	case KindQualifying:
		return "Qualifying"
	case KindSprint:
		return "Sprint"
	case KindRace:
		return "Race"
	}
	return string(k)
}

// ParseKind returns the kind for its string form.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindPractice1, KindPractice2, KindPractice3, KindQualifying, KindSprint, KindRace:
		return k, true
	}
	return "", false
}

const (
	NotRequested LoadState = iota
	Loading
	Loaded
)

// LoadState tracks the lazy loading of session results.
type LoadState int

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return "not-requested"
}

var (
	ErrLoadInProgress = errors.New("session results are already being loaded")
	ErrAlreadyLoaded  = errors.New("session results are already loaded")
	ErrNotLoading     = errors.New("session results are not being loaded")
)

// Session is a single session of a race weekend. Its results are loaded
// lazily: NotRequested -> Loading -> Loaded. A failed load returns to
// NotRequested, Loaded is final.
type Session struct {
	Kind Kind
	Name string
	Date string // Format "YYYY-MM-DD"
	Time string // optional, Format "HH:MM:SSZ"

	load *sessionLoad
}

// sessionLoad is the load state of a logical session. It is shared when a
// weekend is rebuilt, so a load in flight completes for both copies.
type sessionLoad struct {
	mu      sync.Mutex
	state   LoadState
	results []model.Result
}

func newSession(kind Kind, date, tm string) *Session {
	return &Session{Kind: kind, Name: kind.DisplayName(), Date: date, Time: tm, load: &sessionLoad{}}
}

func (s *Session) State() LoadState {
	s.load.mu.Lock()
	defer s.load.mu.Unlock()
	return s.load.state
}

// Results returns the loaded results. ok is false until the session is Loaded.
func (s *Session) Results() (results []model.Result, ok bool) {
	s.load.mu.Lock()
	defer s.load.mu.Unlock()
	if s.load.state != Loaded {
		return nil, false
	}
	return s.load.results, true
}

// BeginLoad moves the session into Loading. Only the caller that succeeded
// here may call CompleteLoad or AbortLoad.
func (s *Session) BeginLoad() error {
	s.load.mu.Lock()
	defer s.load.mu.Unlock()
	switch s.load.state {
	case Loading:
		return ErrLoadInProgress
	case Loaded:
		return ErrAlreadyLoaded
	}
	s.load.state = Loading
	return nil
}

func (s *Session) CompleteLoad(results []model.Result) error {
	s.load.mu.Lock()
	defer s.load.mu.Unlock()
	if s.load.state != Loading {
		return ErrNotLoading
	}
	if results == nil {
		results = []model.Result{}
	}
	s.load.results = results
	s.load.state = Loaded
	return nil
}

func (s *Session) AbortLoad() error {
	s.load.mu.Lock()
	defer s.load.mu.Unlock()
	if s.load.state != Loading {
		return ErrNotLoading
	}
	s.load.state = NotRequested
	return nil
}

type sessionJSON struct {
	Type      Kind           `json:"type"`
	Name      string         `json:"name"`
	Date      string         `json:"date"`
	Time      string         `json:"time,omitempty"`
	Results   []model.Result `json:"results,omitempty"`
	State     string         `json:"state"`
	IsLoaded  bool           `json:"isLoaded"`
	IsLoading bool           `json:"isLoading"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	s.load.mu.Lock()
	out := sessionJSON{
		Type:      s.Kind,
		Name:      s.Name,
		Date:      s.Date,
		Time:      s.Time,
		Results:   s.load.results,
		State:     s.load.state.String(),
		IsLoaded:  s.load.state == Loaded,
		IsLoading: s.load.state == Loading,
	}
	s.load.mu.Unlock()
	return json.Marshal(out)
}
