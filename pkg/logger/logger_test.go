package logger

import (
	"quiz_rating_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { level.SetLevel(zapcore.InfoLevel) })

	SetLevel(&config.Config{Log: config.LogConfig{Level: "warn"}})
	assert.Equal(t, zapcore.WarnLevel, Level())

	SetLevel(&config.Config{Log: config.LogConfig{Level: "bogus"}})
	assert.Equal(t, zapcore.InfoLevel, Level())

	SetLevel(&config.Config{Server: config.ServerConfig{Mode: "debug"}, Log: config.LogConfig{Level: "error"}})
	assert.Equal(t, zapcore.DebugLevel, Level())
}
