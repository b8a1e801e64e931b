package compiler

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaptureMode(t *testing.T) {
	for input, want := range map[string]CaptureMode{
		"":        CaptureChain,
		"chain":   CaptureChain,
		"Direct ": CaptureDirect,
	} {
		got, err := ParseCaptureMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseCaptureMode("nearest")
	assert.EqualError(t, err, `unknown capture mode "nearest" (want chain or direct)`)
	assert.Equal(t, "direct", CaptureDirect.String())
	assert.Equal(t, "CaptureMode(7)", CaptureMode(7).String())
}

func TestConfigDefaults(t *testing.T) {
	var cfg *Config
	assert.Equal(t, DefaultEntryPoint, cfg.entryPoint())
	assert.Equal(t, "start", (&Config{EntryPoint: "start"}).entryPoint())
}

func TestDebugTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	compileTest(t, &Config{Logger: &logger}, captureTree())

	out := buf.String()
	assert.Contains(t, out, `"message":"push builder"`)
	assert.Contains(t, out, `"message":"captured variable"`)
	assert.Contains(t, out, `"message":"entry point"`)
	assert.Contains(t, out, `"message":"program sealed"`)
}
