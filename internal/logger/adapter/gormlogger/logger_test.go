package gormlogger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"github.com/splitledger/splitledger/internal/logger/adapter/gormlogger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	original := log.Logger
	level := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})

	return &buf
}

func statement() (string, int64) {
	return "SELECT * FROM `groups`", 2
}

func TestTrace(t *testing.T) {
	testCases := []struct {
		name      string
		slow      time.Duration
		begin     time.Time
		err       error
		level     gormlog.LogLevel
		wantLevel string
		wantEmpty bool
	}{
		{
			name:      "failed statement",
			begin:     time.Now(),
			err:       errors.New("connection refused"),
			level:     gormlog.Info,
			wantLevel: `"level":"error"`,
		},
		{
			name:      "record not found is not an error",
			begin:     time.Now(),
			err:       gorm.ErrRecordNotFound,
			level:     gormlog.Info,
			wantLevel: `"level":"trace"`,
		},
		{
			name:      "slow statement",
			slow:      time.Millisecond,
			begin:     time.Now().Add(-time.Second),
			level:     gormlog.Info,
			wantLevel: `"level":"warn"`,
		},
		{
			name:      "regular statement",
			begin:     time.Now(),
			level:     gormlog.Info,
			wantLevel: `"level":"trace"`,
		},
		{
			name:      "silent",
			begin:     time.Now(),
			err:       errors.New("connection refused"),
			level:     gormlog.Silent,
			wantEmpty: true,
		},
		{
			name:      "warn mode hides regular statements",
			begin:     time.Now(),
			level:     gormlog.Warn,
			wantEmpty: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)

			l := gormlogger.New(tc.slow).LogMode(tc.level)
			l.Trace(context.Background(), tc.begin, statement, tc.err)

			if tc.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.wantLevel)
			assert.Contains(t, buf.String(), `"rows":2`)
			assert.Contains(t, buf.String(), "SELECT * FROM `groups`")
		})
	}
}

func TestMessages(t *testing.T) {
	buf := captureLog(t)

	l := gormlogger.New(0).LogMode(gormlog.Warn)
	l.Info(context.Background(), "hidden %d", 1)
	l.Warn(context.Background(), "shown %s", "warn")
	l.Error(context.Background(), "shown %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
	assert.Contains(t, out, "shown error")
}
