//go:build unit

package zap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/LerianStudio/lib-backoff/backoff/log"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(level)

	return &Logger{logger: zap.New(core)}, observed
}

func TestLogger_LogDispatchesLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    logpkg.Level
		expected zapcore.Level
	}{
		{"debug", logpkg.LevelDebug, zapcore.DebugLevel},
		{"info", logpkg.LevelInfo, zapcore.InfoLevel},
		{"warn", logpkg.LevelWarn, zapcore.WarnLevel},
		{"error", logpkg.LevelError, zapcore.ErrorLevel},
		{"unknown maps to info", logpkg.Level(99), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, observed := newObservedLogger(zapcore.DebugLevel)

			logger.Log(context.Background(), tt.level, "message")

			entries := observed.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expected, entries[0].Level)
			assert.Equal(t, "message", entries[0].Message)
		})
	}
}

func TestLogger_LogCarriesFields(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.DebugLevel)

	logger.Log(context.Background(), logpkg.LevelDebug, "backoff step",
		logpkg.Int("iteration", 2),
		logpkg.Duration("wait", 4*time.Second),
	)

	entries := observed.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["iteration"])
	assert.Equal(t, 4*time.Second, fields["wait"])
}

func TestLogger_LogAppendsTraceCorrelation(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.DebugLevel)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.Log(ctx, logpkg.LevelInfo, "with span")

	entries := observed.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestLogger_LogWithoutSpanHasNoCorrelation(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.DebugLevel)

	logger.Log(context.Background(), logpkg.LevelInfo, "no span")

	fields := observed.All()[0].ContextMap()
	assert.NotContains(t, fields, "trace_id")
	assert.NotContains(t, fields, "span_id")
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.DebugLevel)

	child := logger.With(logpkg.String("sequence_id", "abc"))
	child.Log(context.Background(), logpkg.LevelDebug, "step")

	fields := observed.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["sequence_id"])
}

func TestLogger_Enabled(t *testing.T) {
	t.Parallel()

	logger, _ := newObservedLogger(zapcore.InfoLevel)

	assert.False(t, logger.Enabled(logpkg.LevelDebug))
	assert.True(t, logger.Enabled(logpkg.LevelInfo))
	assert.True(t, logger.Enabled(logpkg.LevelError))
}

func TestLogger_NilSafety(t *testing.T) {
	t.Parallel()

	var logger *Logger

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), logpkg.LevelInfo, "dropped")
	})
	assert.NotNil(t, logger.Raw())
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing library name", Config{Environment: EnvironmentLocal}},
		{"invalid environment", Config{Environment: "qa", OTelLibraryName: "lib-backoff"}},
		{"invalid level", Config{Environment: EnvironmentLocal, OTelLibraryName: "lib-backoff", Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, _, err := New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, logger)
		})
	}
}

func TestNew_LevelResolution(t *testing.T) {
	t.Parallel()

	t.Run("development defaults to debug", func(t *testing.T) {
		t.Parallel()

		logger, level, err := New(Config{Environment: EnvironmentDevelopment, OTelLibraryName: "lib-backoff"})
		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, level.Level())
		assert.True(t, logger.Enabled(logpkg.LevelDebug))
	})

	t.Run("production defaults to info", func(t *testing.T) {
		t.Parallel()

		logger, level, err := New(Config{Environment: EnvironmentProduction, OTelLibraryName: "lib-backoff"})
		require.NoError(t, err)
		assert.Equal(t, zapcore.InfoLevel, level.Level())
		assert.False(t, logger.Enabled(logpkg.LevelDebug))
	})

	t.Run("explicit level wins", func(t *testing.T) {
		t.Parallel()

		_, level, err := New(Config{Environment: EnvironmentProduction, OTelLibraryName: "lib-backoff", Level: "error"})
		require.NoError(t, err)
		assert.Equal(t, zapcore.ErrorLevel, level.Level())
	})
}
