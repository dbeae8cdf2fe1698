// Package logging builds the run logger.
//
// Every line has the shape
//
//	<LEVEL> : <timestamp> : <message> [key=value ...]
//
// and is appended to the log file. Structured fields stay after the message so
// the prefix remains easy to grep.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Options configures the run logger
type Options struct {
	Path    string
	Level   string
	Console bool
}

// New opens the log file in append mode and returns a logger writing to it.
// The returned closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	writers := []io.Writer{NewLineWriter(f)}
	if opts.Console {
		writers = append(writers, NewLineWriter(os.Stderr))
	}

	return NewLogger(zerolog.MultiLevelWriter(writers...), opts.Level), f, nil
}

// NewLogger returns a logger writing to w at the given level
func NewLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// NewLineWriter wraps out with the "LEVEL : timestamp : message" layout
func NewLineWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel:     formatLevel,
		FormatTimestamp: formatTimestamp,
	}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func formatLevel(i any) string {
	s, _ := i.(string)
	switch s {
	case "":
		return "???? :"
	case zerolog.LevelWarnValue:
		return "WARNING :"
	default:
		return strings.ToUpper(s) + " :"
	}
}

func formatTimestamp(i any) string {
	s, ok := i.(string)
	if !ok {
		return fmt.Sprintf("%v :", i)
	}
	ts, err := time.Parse(zerolog.TimeFieldFormat, s)
	if err != nil {
		return s + " :"
	}
	return ts.Local().Format(timeFormat) + " :"
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
