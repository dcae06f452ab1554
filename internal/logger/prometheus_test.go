package logger

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusHook(t *testing.T) {
	l := zerolog.New(io.Discard).Hook(NewPrometheusHook("test"))

	before := testutil.ToFloat64(counter.WithLabelValues("warn"))

	l.Warn().Msg("one")
	l.Warn().Msg("two")
	l.Log().Msg("no level")

	assert.InDelta(t, before+2, testutil.ToFloat64(counter.WithLabelValues("warn")), 0)
}
