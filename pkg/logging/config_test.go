package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
	assert.NotNil(t, cfg.Fields)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(in))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("RFC3339"))
	assert.Equal(t, "", parseTimeFormat("unix"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, time.Kitchen, parseTimeFormat("nonsense"))
}

func TestParseFields(t *testing.T) {
	assert.Empty(t, parseFields(""))
	assert.Equal(t, map[string]any{"app": "hangar", "env": "ci"},
		parseFields("app=hangar, env = ci,broken"))
}

func TestEnvValuePrefersPrefixed(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", envValue("LOG_LEVEL"))

	t.Setenv("HANGAR_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", envValue("LOG_LEVEL"))
	assert.Equal(t, "debug", envOrDefault("LOG_LEVEL", "info"))
	assert.Equal(t, "fallback", envOrDefault("LOG_MISSING", "fallback"))
}

func TestNewLoggerFromConfig(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	logger := NewLoggerFromConfig(&Config{
		Level:  "warn",
		Format: "json",
		Output: "discard",
		Fields: map[string]any{"service": "hangar"},
	})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	var buf bytes.Buffer
	ctx := addField(zerolog.New(&buf).With(), "count", 4)
	ctx = addField(ctx, "err", assert.AnError)
	l := ctx.Logger()
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"count":4`)
	assert.Contains(t, buf.String(), `"error":"`)
}
