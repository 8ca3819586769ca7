package model

// Meeting is a race weekend as seen by the live timing API.
type Meeting struct {
	MeetingKey          int    `json:"meeting_key"`
	MeetingName         string `json:"meeting_name"`
	MeetingOfficialName string `json:"meeting_official_name"`
	Location            string `json:"location"`
	CountryKey          int    `json:"country_key"`
	CountryCode         string `json:"country_code"`
	CountryName         string `json:"country_name"`
	CircuitKey          int    `json:"circuit_key"`
	CircuitShortName    string `json:"circuit_short_name"`
	DateStart           string `json:"date_start"` // ISO 8601 with offset
	DateEnd             string `json:"date_end"`
	GmtOffset           string `json:"gmt_offset"` // Format "HH:MM:SS"
	Year                int    `json:"meeting_year"`
}

type MeetingSession struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"` // e.g. "Practice 1", "Sprint Qualifying"
	SessionType string `json:"session_type"` // e.g. "Practice", "Qualifying", "Race"
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	GmtOffset   string `json:"gmt_offset"`
	MeetingKey  int    `json:"meeting_key"`
}

type TrackInfo struct {
	CircuitKey       int     `json:"circuit_key"`
	CircuitShortName string  `json:"circuit_short_name"`
	CircuitName      string  `json:"circuit_name"`
	CircuitLength    float64 `json:"circuit_length"`
	CountryKey       int     `json:"country_key"`
	CountryCode      string  `json:"country_code"`
	CountryName      string  `json:"country_name"`
	Location         string  `json:"location"`
	NumberOfTurns    int     `json:"number_of_turns"`
	YearFirstRace    int     `json:"year_first_race"`
}

type SessionResult struct {
	Position     int      `json:"position"`
	DriverNumber int      `json:"driver_number"`
	TimeGap      *float64 `json:"time_gap"` // null for the leader
	NumberOfLaps int      `json:"number_of_laps"`
	MeetingKey   int      `json:"meeting_key"`
	SessionKey   int      `json:"session_key"`
}

type SessionDriver struct {
	DriverNumber  int    `json:"driver_number"`
	BroadcastName string `json:"broadcast_name"`
	FullName      string `json:"full_name"`
	NameAcronym   string `json:"name_acronym"`
	TeamName      string `json:"team_name"`
	TeamColour    string `json:"team_colour"` // Hex color code without #
	CountryCode   string `json:"country_code"`
	HeadshotURL   string `json:"headshot_url,omitempty"`
}

// MeetingWithSessions is a meeting enriched with its sessions and circuit.
type MeetingWithSessions struct {
	Meeting
	Sessions   []MeetingSession `json:"sessions"`
	Circuit    *TrackInfo       `json:"circuit,omitempty"`
	IsUpcoming bool             `json:"isUpcoming"`
}
