package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := Component("tasklist")
	logger.Info().Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "tasklist", entry["cmp"])
	assert.Equal(t, "loaded", entry["message"])
}

func TestComponentOf(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentOf(zerolog.New(&buf).With().Str("source", SourceCLI).Logger(), "jsonfile")
	logger.Warn().Msg("watch error")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "jsonfile", entry[ComponentKey])
	assert.Equal(t, "cli", entry["source"])
}
