package util

import (
	"os"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/config"
	"github.com/mpapenbr/league-results/pkg/snapshot"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the config values and makes
// it the default logger.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	filter := []log.ConfigOption{log.WithFilter(config.LogFilter)}
	switch config.LogFormat {
	case "json":
		logger = log.NewWithConfig(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			filter,
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.NewDevWithConfig(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			filter,
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	return logger
}

// LoadLeague reads the configured data file
func LoadLeague() (*snapshot.League, error) {
	league, err := snapshot.Load(config.DataFile)
	if err != nil {
		log.Error("could not load league", log.String("file", config.DataFile), log.ErrorField(err))
		return nil, err
	}
	return league, nil
}

// SaveLeague writes the league back to the configured data file
func SaveLeague(league *snapshot.League) error {
	if err := snapshot.Save(config.DataFile, league); err != nil {
		log.Error("could not save league", log.String("file", config.DataFile), log.ErrorField(err))
		return err
	}
	return nil
}
