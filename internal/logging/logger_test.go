package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("stderr by default", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Level: "debug"})
		assert.False(t, result.UsingFile)
		assert.False(t, result.FallbackUsed)
		assert.Equal(t, zerolog.DebugLevel, result.Logger.GetLevel())
		require.NoError(t, result.Close())
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Level: "chatty"})
		assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
	})

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "poupa.log")
		result := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
		require.True(t, result.UsingFile)
		assert.Equal(t, path, result.FilePath)

		result.Logger.Info().Msg("hello")
		require.NoError(t, result.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
	})

	t.Run("falls back when file is missing", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Output: OutputFile})
		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := zerolog.New(&buf)
		ctx := l.WithContext(context.Background())

		FromContext(ctx).Info().Msg("stored")
		assert.Contains(t, buf.String(), "stored")
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	assert.Len(t, id, 26)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, TraceIDFromContext(ctx))
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Hook(traceHook{})
	ctx := ContextWithTraceID(context.Background(), "01TRACE")

	l.Info().Ctx(ctx).Msg("traced")
	assert.Contains(t, buf.String(), `"trace_id":"01TRACE"`)
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := ComponentLogger(zerolog.New(&buf), "server")
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"server"`)
}
