package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		expectedLevel zerolog.Level
	}{
		{
			name:          "debug level json format",
			level:         "debug",
			format:        "json",
			expectedLevel: zerolog.DebugLevel,
		},
		{
			name:          "warn level console format",
			level:         "warn",
			format:        "console",
			expectedLevel: zerolog.WarnLevel,
		},
		{
			name:          "empty level defaults to info",
			level:         "",
			format:        "json",
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "unknown level defaults to info",
			level:         "loud",
			format:        "json",
			expectedLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.format)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())
		})
	}
}
