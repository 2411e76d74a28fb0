package logging

import (
	"fishbot/internal/config"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger. The returned closer flushes the
// log file, if one is configured.
func Setup(level string, cfg config.Log, stdout io.Writer) (io.Closer, error) {
	logLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(logLevel)

	writers := []io.Writer{zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	if cfg.File != "" {
		log.Info().Str("path", cfg.File).Int("maxSizeMb", cfg.MaxSizeMB).Msg("file logging enabled")
	}

	return closer, nil
}

func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
