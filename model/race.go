package model

// Race is a race weekend record as delivered by the historical results API.
// Optional sub-events are nil when the weekend did not have them (or the
// schedule of older seasons did not record them).
type Race struct {
	Season         string       `json:"season"`
	Round          string       `json:"round"`
	URL            string       `json:"url"`
	RaceName       string       `json:"raceName"`
	Circuit        Circuit      `json:"Circuit"`
	Date           string       `json:"date"`           // Format "YYYY-MM-DD"
	Time           string       `json:"time,omitempty"` // Format "HH:MM:SSZ", absent for older seasons
	FirstPractice  *SessionDate `json:"FirstPractice,omitempty"`
	SecondPractice *SessionDate `json:"SecondPractice,omitempty"`
	ThirdPractice  *SessionDate `json:"ThirdPractice,omitempty"`
	Qualifying     *SessionDate `json:"Qualifying,omitempty"`
	Sprint         *SessionDate `json:"Sprint,omitempty"`
	Results        []Result     `json:"Results,omitempty"`
	Laps           []Lap        `json:"Laps,omitempty"`
	PitStops       []PitStop    `json:"PitStops,omitempty"`
}

type SessionDate struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber,omitempty"`
	Code            string `json:"code,omitempty"` // Three Letter Acronym
	URL             string `json:"url"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Nationality     string `json:"nationality"`
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}
