package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the global zerolog logger from LOG_LEVEL and
// LOG_FILE. The returned closer flushes the log file, if any.
func SetupLogging(c map[string]string) io.Closer {
	level, err := zerolog.ParseLevel(GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	var closer io.Closer = nopCloser{}

	if file := GetString(c, "LOG_FILE", ""); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    GetInt(c, "LOG_MAX_SIZE_MB", 50),
			MaxBackups: GetInt(c, "LOG_MAX_BACKUPS", 5),
			MaxAge:     GetInt(c, "LOG_MAX_AGE_DAYS", 28),
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
		closer = rotator
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
