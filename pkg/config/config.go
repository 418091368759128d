package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DataFile      string        // path to the league data file
	LogLevel      string        // sets the log level (zap log level values)
	LogFormat     string        // text vs json
	LogFilter     string        // zapfilter rules, e.g. "debug:processing.* info:*"
	OutputFormat  string        // table, json or yaml
	WatchDebounce time.Duration // quiet period before recomputing after a file change
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)
