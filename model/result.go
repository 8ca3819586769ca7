package model

// Result is a single classification row. Qualifying, race and sprint results
// share this shape; fields not used by a session type stay empty.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText,omitempty"`
	Points       string      `json:"points,omitempty"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid,omitempty"`
	Laps         string      `json:"laps,omitempty"`
	Status       string      `json:"status,omitempty"` // e.g. "Finished", "+1 Lap", "Engine"
	Time         *RaceTime   `json:"Time,omitempty"`
	FastestLap   *FastestLap `json:"FastestLap,omitempty"`
	Q1           string      `json:"Q1,omitempty"` // Format "M:SS.fff"
	Q2           string      `json:"Q2,omitempty"`
	Q3           string      `json:"Q3,omitempty"`
}

type RaceTime struct {
	Millis string `json:"millis,omitempty"`
	Time   string `json:"time"`
}

type FastestLap struct {
	Rank         string        `json:"rank,omitempty"`
	Lap          string        `json:"lap,omitempty"`
	Time         LapTime       `json:"Time"`
	AverageSpeed *AverageSpeed `json:"AverageSpeed,omitempty"`
}

type LapTime struct {
	Time string `json:"time"`
}

type AverageSpeed struct {
	Units string `json:"units"` // "kph"
	Speed string `json:"speed"`
}

type Lap struct {
	Number  string      `json:"number"`
	Timings []LapTiming `json:"Timings"`
}

type LapTiming struct {
	DriverID string `json:"driverId"`
	Position string `json:"position"`
	Time     string `json:"time"`
}

type PitStop struct {
	DriverID string `json:"driverId"`
	Lap      string `json:"lap"`
	Stop     string `json:"stop"`
	Time     string `json:"time"`     // local time of day
	Duration string `json:"duration"` // seconds, e.g. "22.817"
}

// FastestLapRecord is the fastest lap of a single race, flattened from the
// race's winning fastest lap result.
type FastestLapRecord struct {
	Race         Race          `json:"race"`
	Driver       Driver        `json:"Driver"`
	Constructor  Constructor   `json:"Constructor"`
	Time         LapTime       `json:"Time"`
	AverageSpeed *AverageSpeed `json:"AverageSpeed,omitempty"`
}
