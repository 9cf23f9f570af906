package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	defer SetOutput(&bytes.Buffer{}, zerolog.Disabled)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown 2"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.DebugLevel)
	defer SetOutput(&bytes.Buffer{}, zerolog.Disabled)

	boom := errors.New("boom")
	err := Timed("load rows", func() error { return boom })
	assert.ErrorIs(t, err, boom)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"error":"boom"`)
	assert.Contains(t, lines[0], `"took"`)
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "opsgrid.log")
	require.NoError(t, Init(Options{File: path, Level: "info", MaxSizeMB: 1}))
	Infof("hello")
	require.NoError(t, Close())

	assert.FileExists(t, path)
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, Init(Options{Level: "nope"}))
}
