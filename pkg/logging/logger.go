// Package logging sets up the zerolog global logger for the snapshot tool.
//
// Progress lines ("Getting page N...", "N events found...") go out at info
// level, so the default console output reads like the tool's status log.
// Warnings mark upstream oddities that do not stop a run: a total that
// changes between pages, or an empty page before the total is reached.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a configured level name.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

var zerologLevels = map[LogLevel]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// Config holds logger configuration.
type Config struct {
	Level LogLevel

	// Pretty writes console lines instead of JSON.
	Pretty bool

	// Output defaults to stdout when nil.
	Output io.Writer
}

// DefaultConfig returns console lines on stdout at info level.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: true,
		Output: os.Stdout,
	}
}

// FromSettings builds a Config writing to stdout from the raw log_level and
// log_pretty settings. An unknown level is an error.
func FromSettings(level string, pretty bool) (Config, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return Config{}, err
	}
	return Config{Level: lvl, Pretty: pretty, Output: os.Stdout}, nil
}

// Setup installs the global logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(zerologLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel normalizes a level name. Empty means info; "warning" is
// accepted for warn.
func ParseLevel(s string) (LogLevel, error) {
	name := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	switch name {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	if _, ok := zerologLevels[name]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return name, nil
}

// zerologLevel maps a level to zerolog, falling back to info.
func zerologLevel(level LogLevel) zerolog.Level {
	if parsed, err := ParseLevel(string(level)); err == nil {
		return zerologLevels[parsed]
	}
	return zerolog.InfoLevel
}

// NewLogger returns a child of the global logger tagged with component
// (api-client, event-fetcher, accumulator, runner, mongo-store, redis-store).
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
