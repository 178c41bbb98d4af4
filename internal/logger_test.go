package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "backup.log")

	var out bytes.Buffer
	log, closeLog, err := NewLogger(&out, logFile, false)
	require.NoError(t, err)

	log.Info().Msg("Notion Backup Automation Started")
	log.Debug().Msg("hidden")
	require.NoError(t, closeLog())

	assert.Contains(t, out.String(), "Notion Backup Automation Started")
	assert.NotContains(t, out.String(), "hidden")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INF Notion Backup Automation Started")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestNewLoggerAppends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "backup.log")

	for _, msg := range []string{"first run", "second run"} {
		log, closeLog, err := NewLogger(&bytes.Buffer{}, logFile, false)
		require.NoError(t, err)
		log.Info().Msg(msg)
		require.NoError(t, closeLog())
	}

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNewLoggerVerbose(t *testing.T) {
	var out bytes.Buffer
	log, _, err := NewLogger(&out, "", true)
	require.NoError(t, err)

	log.Debug().Msg("debug details")
	assert.Contains(t, out.String(), "debug details")
}

func TestNewLoggerBadPath(t *testing.T) {
	_, _, err := NewLogger(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing", "backup.log"), false)
	assert.Error(t, err)
}
