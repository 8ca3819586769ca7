package model

type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

// SeasonResult summarizes the champions of a season.
type SeasonResult struct {
	Season              string       `json:"season"`
	ChampionDriver      *Driver      `json:"championDriver,omitempty"`
	ChampionConstructor *Constructor `json:"championConstructor,omitempty"`
	TotalRaces          int          `json:"totalRaces"`
}
