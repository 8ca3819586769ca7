// Package common holds the setup shared by the pitwall commands.
package common

import (
	"os"

	"pitwall/assets"
	"pitwall/config"
	"pitwall/ergast"
	"pitwall/log"
	"pitwall/openf1"
	"pitwall/upstream"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger installs the default logger according to the log flags.
// Must run before any client is created.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true))
	}
	log.ResetDefault(logger)
	return logger
}

func sourceOptions() []upstream.Option {
	return []upstream.Option{
		upstream.WithTimeout(config.RequestTimeout),
		upstream.WithRetry(config.RetryMax),
	}
}

func NewErgastClient() *ergast.Client {
	return ergast.New(ergast.NewSource(config.ErgastBaseURL, sourceOptions()...))
}

func NewOpenF1Client() *openf1.Client {
	var opts []openf1.Option
	if config.ThrottleDelay > 0 {
		opts = append(opts, openf1.WithThrottle(config.ThrottleDelay))
	}
	return openf1.New(openf1.NewSource(config.OpenF1BaseURL, sourceOptions()...), opts...)
}

// NewResolver creates the asset resolver, merging the curated catalog file
// if one is configured.
func NewResolver(seasonYear int) (*assets.Resolver, error) {
	opts := []assets.Option{
		assets.WithTimeouts(config.ProbeTimeout, config.ProbeCeiling),
	}
	if seasonYear > 0 {
		opts = append(opts, assets.WithSeasonYear(seasonYear))
	}
	if config.AssetCatalog != "" {
		catalog, err := assets.LoadCatalog(config.AssetCatalog)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assets.WithCatalog(catalog))
	}
	return assets.NewResolver(opts...), nil
}
