package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Str("key", "comprobantes/1.png").Msg("cleanup failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "comprobantes/1.png", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}
