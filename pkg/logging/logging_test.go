package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"plataforma/pkg/config"
)

func TestWatermillAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := Watermill(zerolog.New(&buf).Level(zerolog.TraceLevel))

	adapter.With(watermill.LogFields{"topic": "servicos"}).
		Error("publish failed", errors.New("boom"), watermill.LogFields{"message_uuid": "01J"})

	out := buf.String()
	assert.Contains(t, out, `"topic":"servicos"`)
	assert.Contains(t, out, `"message_uuid":"01J"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestWatermillAdapterWithoutFieldsReturnsSelf(t *testing.T) {
	adapter := Watermill(zerolog.Nop())
	assert.Same(t, adapter, adapter.With(nil))
}

func TestNewFallsBackToInfo(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "verbose"}, "gateway-api")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger = New(config.LoggingConfig{Level: "DEBUG", Format: "console"}, "gateway-api")
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}
