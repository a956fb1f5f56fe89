package jwtvalidator

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVFields(t *testing.T) {
	fields := kvFields([]any{"method", "GET", "status", 401, "dangling"})

	assert.Equal(t, map[string]any{"method": "GET", "status": 401}, fields)
}

func TestLogrusLoggerAdapter(t *testing.T) {
	logrusLogger, hook := logrustest.NewNullLogger()
	logrusLogger.SetLevel(logrus.DebugLevel)

	logger := NewLogrusLogger(logrusLogger)
	logger.Warn("JWT validation failed", "method", "GET", "path", "/private")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "JWT validation failed", entry.Message)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/private", entry.Data["path"])
}

func TestZerologLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Error("JWT validation failed", "path", "/private")

	assert.Contains(t, buf.String(), `"message":"JWT validation failed"`)
	assert.Contains(t, buf.String(), `"path":"/private"`)
}
