package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/internal/config"
	"tubely/internal/logger"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, config.LogConfig{Level: "info", Format: "json"})

	log.Info().Str("video_id", "abc").Msg("ingest started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["video_id"])
	assert.Equal(t, "ingest started", entry["message"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, config.LogConfig{Level: "warn", Format: "json"})

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, config.LogConfig{Level: "loud", Format: "json"})

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
