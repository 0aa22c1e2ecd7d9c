package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "debug")

	logger.Debug().Str("file", "a.jpg").Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "a.jpg", line["file"])
	assert.Equal(t, "smartcart-backend", line["service"])
}

func TestNewLogger_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "nonsense")

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len(), "debug must be filtered at the default info level")

	logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "console", "info")

	logger.Info().Msg("pretty")
	assert.Contains(t, buf.String(), "pretty")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
