package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := InitWriter(&buf, "info", "json")
	l.Info("planet discovered", "planet", "Vega")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "planet discovered", rec["msg"])
	assert.Equal(t, "Vega", rec["planet"])
}

func TestInitWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := InitWriter(&buf, "warn", "text")
	l.Info("hidden")
	assert.Empty(t, buf.String())
}
