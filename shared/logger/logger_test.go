package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unires/config"
	"unires/shared/constant"
	"unires/shared/logger"
)

func restore(t *testing.T) {
	t.Helper()

	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("sweep failed"))

	assert.Contains(t, buf.String(), "sweep failed")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "debug", level: "debug", expected: zerolog.DebugLevel},
		{name: "warn", level: "warn", expected: zerolog.WarnLevel},
		{name: "invalid defaults to trace", level: "loud", expected: zerolog.TraceLevel},
		{name: "empty parses as no level", level: "", expected: zerolog.NoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestSetOutput_ProductionWritesJSON(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.App.Name = "unires"

	var buf bytes.Buffer
	logger.SetOutput(cfg, &buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Str("reservation_id", "r-1").Msg("swept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "unires", line["app"])
	assert.Equal(t, "r-1", line["reservation_id"])
	assert.Equal(t, "swept", line["message"])
}
