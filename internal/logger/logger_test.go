package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.Info("prediction stored", "age_group", "children")
	log.With("request_id", "abc").Warn("slow upstream")
	log.Error("insert failed", errors.New("boom"), "table", "assessments")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "prediction stored", entries[0].Message)
	assert.Equal(t, "children", entries[0].ContextMap()["age_group"])

	assert.Equal(t, "abc", entries[1].ContextMap()["request_id"])

	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, "assessments", entries[2].ContextMap()["table"])
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New("debug", format)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zap.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("anything"))
}
