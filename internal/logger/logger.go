package logger

import (
	"io"
	stdlog "log" // Standard Go log package, aliased to avoid conflict with zerolog field
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"filtersync/internal/config"
	"filtersync/internal/errorwrapper"
)

// New creates a new zerolog logger from the application log configuration.
// Console output always goes to stderr so the change log on stdout-adjacent
// streams is never interleaved with structured logs.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{consoleWriter(cfg.LogFormat, os.Stderr)}

	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	zerologInstance := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)
	stdlog.SetOutput(zerologInstance)
	stdlog.SetFlags(0)

	return zerologInstance, nil
}

// parseLevel parses a string log level to zerolog.Level
func parseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return level, nil
}

// consoleWriter creates the console-facing writer for the requested format
func consoleWriter(format string, out io.Writer) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return out
	case "text":
		return zerolog.ConsoleWriter{Out: out, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out}
	}
}

// newFileWriter creates a rotating file writer for the configured log file
func newFileWriter(cfg config.LogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create log directory")
	}

	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		LocalTime:  true,
		MaxBackups: cfg.MaxLogBackups,
	}, nil
}
