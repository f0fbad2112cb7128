package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"debug", zap.DebugLevel, false},
		{"INFO", zap.InfoLevel, false},
		{"", zap.InfoLevel, false},
		{" warn ", zap.WarnLevel, false},
		{"warning", zap.WarnLevel, false},
		{"Error", zap.ErrorLevel, false},
		{"verbose", zap.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.err {
				assert.ErrorContains(t, err, "unknown log level")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := NewWithConsole("negsel", Config{Level: "info", Console: true}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Debug("hidden")
	logger.Info("fit completed", zap.Int("detectors", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "negsel")
	assert.Contains(t, out, "logging/logging_test.go")
	assert.Contains(t, out, `{"detectors": 3}`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negsel.log")
	logger, closeLog, err := NewWithConsole("negsel", Config{Level: "debug", Path: path}, nil)
	require.NoError(t, err)

	logger.Debug("written to file")
	closeLog()

	// The file is closed, so later entries are dropped.
	logger.Info("after close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG]")
	assert.Contains(t, string(data), "written to file")
	assert.NotContains(t, string(data), "after close")
}

func TestRotatedFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "negsel.log")
	logger, closeLog, err := NewWithConsole("negsel", Config{Level: "info", Path: path, RotationHours: 24, MaxAgeDays: 1}, nil)
	require.NoError(t, err)

	logger.Info("rotated")
	closeLog()

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated")
}

func TestNoOutputs(t *testing.T) {
	logger, closeLog, err := NewWithConsole("negsel", Config{Level: "info"}, nil)
	require.NoError(t, err)
	defer closeLog()
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestBadConfig(t *testing.T) {
	_, _, err := New("negsel", Config{Level: "loud"})
	assert.Error(t, err)

	_, _, err = NewWithConsole("negsel", Config{Path: filepath.Join(t.TempDir(), "missing", "x.log")}, nil)
	assert.ErrorContains(t, err, "open log file")
}
