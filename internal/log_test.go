package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetFlags(0)
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetFlags(flags)
		log.SetOutput(out)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
		ok    bool
	}{
		{"debug", LogLevelDebug, true},
		{" WARN ", LogLevelWarn, true},
		{"Error", LogLevelError, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLogLevel(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger("Session", LogLevelInfo)

	logger.Debug("hidden %d", 1)
	logger.Info("swept %d sessions", 2)
	logger.Warn("slow sweep")

	assert.Equal(t, "[Session] swept 2 sessions\n[Session] WARN slow sweep\n", buf.String())
	assert.False(t, logger.Enabled(LogLevelDebug))
}

func TestComponentLoggerReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.True(t, NewComponentLogger("Chart").Enabled(LogLevelDebug))

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.False(t, NewComponentLogger("Chart").Enabled(LogLevelDebug))
}
