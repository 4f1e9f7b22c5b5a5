package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_WritesStructuredOutput(t *testing.T) {
	log := New(Config{Level: "info"})

	var buf bytes.Buffer
	log = log.Output(&buf)
	log.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestNew_LevelParsing(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		expectedLevel zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"info", "info", zerolog.InfoLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"uppercase is accepted", "INFO", zerolog.InfoLevel},
		{"unknown defaults to info", "loud", zerolog.InfoLevel},
		{"empty defaults to info", "", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			New(Config{Level: tc.level})
			assert.Equal(t, tc.expectedLevel, zerolog.GlobalLevel())
		})
	}
}
