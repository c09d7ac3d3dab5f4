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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LogConfig{Level: "warn", Console: true}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("symbol", "SPY").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "SPY")
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "orcgreeks.log")
	logger := newLogger(LogConfig{Level: "info", File: true, FilePath: path, MaxSize: 1}, &bytes.Buffer{})

	logger.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	opLogger := WithOperation(WithSymbol(FromContext(ctx), "QQQ"), "skew")
	opLogger.Info().Msg("x")
	assert.Contains(t, buf.String(), `"symbol":"QQQ"`)
	assert.Contains(t, buf.String(), `"operation":"skew"`)

	// no logger stored
	noLogger := FromContext(context.Background())
	noLogger.Info().Msg("dropped")
}
