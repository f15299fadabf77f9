package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/LavaJover/shvark-price-etl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("Error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewStdoutRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := newLogger(config.LogConfig{LogLevel: "WARN", LogOutput: OutputStdout}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Info("hidden")
	log.Warn("using fallback exchange rate", "rate", 5.5)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "using fallback exchange rate")
	assert.Contains(t, out, "rate=5.5")
}

func TestNewBothWritesFileAndStdout(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := newLogger(config.LogConfig{
		LogLevel:  "INFO",
		LogFormat: "json",
		LogOutput: OutputBoth,
		LogFile:   logFile,
	}, &buf)
	require.NoError(t, err)

	log.Info("record saved", "price_usd", 50000.0)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"record saved"`)
	assert.Contains(t, buf.String(), `"msg":"record saved"`)
}

func TestNewBothWritesDebugToFileOnly(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "app.log")
	log, closer, err := newLogger(config.LogConfig{
		LogLevel:  "WARN",
		LogOutput: OutputBoth,
		LogFile:   logFile,
	}, &buf)
	require.NoError(t, err)

	log.With("component", "pipeline").Debug("rate response parsed")
	log.Warn("using fallback exchange rate")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rate response parsed")
	assert.Contains(t, string(data), "component=pipeline")
	assert.Contains(t, string(data), "using fallback exchange rate")

	assert.NotContains(t, buf.String(), "rate response parsed")
	assert.Contains(t, buf.String(), "using fallback exchange rate")
}

func TestNewFileOnlyRecordsDebug(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "app.log")
	log, closer, err := newLogger(config.LogConfig{
		LogLevel:  "ERROR",
		LogOutput: OutputFile,
		LogFile:   logFile,
	}, &buf)
	require.NoError(t, err)

	log.Debug("cycle started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cycle started")
	assert.Empty(t, buf.String())
}

func TestNewUnknownOutput(t *testing.T) {
	_, _, err := newLogger(config.LogConfig{LogOutput: "syslog"}, &bytes.Buffer{})
	assert.Error(t, err)
}
