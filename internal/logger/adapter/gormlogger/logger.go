// Package gormlogger routes gorm's statement logging into the global zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
// Failed statements are logged at error level, statements slower than
// SlowThreshold at warn level and everything else at trace level.
type Logger struct {
	SlowThreshold time.Duration
	level         gormlog.LogLevel
}

// New returns a Logger that reports statements slower than slowThreshold.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{
		SlowThreshold: slowThreshold,
		level:         gormlog.Info,
	}
}

// LogMode implements gorm's logger.Interface.
func (l *Logger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	out := *l
	out.level = level

	return &out
}

// Info implements gorm's logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlog.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gorm's logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlog.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements gorm's logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlog.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gorm's logger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlog.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlog.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		event = log.Error().Err(err)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlog.Warn:
		event = log.Warn().Dur("threshold", l.SlowThreshold)
	case l.level >= gormlog.Info:
		event = log.Trace()
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("sql statement")
}
