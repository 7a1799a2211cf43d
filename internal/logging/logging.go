// Package logging configures zerolog and adapts it to mqrelay.Logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/velmie/mqrelay"
)

// FormatConsole selects human readable output; anything else writes JSON.
const FormatConsole = "console"

// New builds a logger writing to w at the named level.
// Unknown or empty levels fall back to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Adapter forwards mqrelay log calls to zerolog.
type Adapter struct {
	Logger zerolog.Logger
}

var _ mqrelay.Logger = Adapter{}

// Debug implements mqrelay.Logger.
func (a Adapter) Debug(msg string, args ...any) {
	a.Logger.Debug().Fields(args).Msg(msg)
}

// Info implements mqrelay.Logger.
func (a Adapter) Info(msg string, args ...any) {
	a.Logger.Info().Fields(args).Msg(msg)
}

// Warn implements mqrelay.Logger.
func (a Adapter) Warn(msg string, args ...any) {
	a.Logger.Warn().Fields(args).Msg(msg)
}

// Error implements mqrelay.Logger.
func (a Adapter) Error(msg string, args ...any) {
	a.Logger.Error().Fields(args).Msg(msg)
}
