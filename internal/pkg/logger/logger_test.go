package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", "", &buf)

	log.WithFields(map[string]any{"review_id": "abc", "status": "approved"}).Info("Review moderated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Review moderated", entry["message"])
	assert.Equal(t, "abc", entry["review_id"])
	assert.Equal(t, "approved", entry["status"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", "warn", &buf)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Error("kept", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestLogger_DebugInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", "", &buf)

	log.Debugf("cache miss for %d", 42)
	assert.Contains(t, buf.String(), "cache miss for 42")
}
