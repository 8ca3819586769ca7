package config

import "time"

// this holds the resolved configuration values from CLI, env and config file
//
//nolint:lll // readablity
var (
	ErgastBaseURL  string        // base URL of the historical results API (source A)
	OpenF1BaseURL  string        // base URL of the live timing API (source B)
	RequestTimeout time.Duration // timeout for a single upstream request
	RetryMax       int           // max retries for rate limited or failed upstream requests
	ThrottleDelay  time.Duration // delay before throttled source B requests
	ListenAddr     string        // listen addr for the HTTP server
	LogLevel       string        // sets the log level (zap log level values)
	LogFormat      string        // text vs json
	SeasonYear     int           // season to keep loaded; 0 means current year
	SeasonRefresh  time.Duration // interval for reloading the current season
	CacheTTL       time.Duration // expiration of cached seasons other than the current one
	AssetCatalog   string        // path to a yaml file with additional curated asset urls
	ProbeTimeout   time.Duration // timeout per probed asset tier
	ProbeCeiling   time.Duration // overall ceiling for a probed asset cascade
)

const (
	DefaultErgastBaseURL = "https://api.jolpi.ca/ergast/f1"
	DefaultOpenF1BaseURL = "https://api.openf1.org/v1"
)
