package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("shown", "edit_id", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "abc", rec["edit_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("undo", "operations", 2)
	assert.Contains(t, buf.String(), "msg=undo")
	assert.Contains(t, buf.String(), "operations=2")
}

func TestOpen(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		log, closeFn, err := Open("", "debug", "text")
		require.NoError(t, err)
		log.Info("nowhere")
		assert.NoError(t, closeFn())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geoedit.log")
		log, closeFn, err := Open(path, "info", "json")
		require.NoError(t, err)
		log.Info("started")
		require.NoError(t, closeFn())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"started"`)
	})

	t.Run("bad directory", func(t *testing.T) {
		_, _, err := Open(filepath.Join(t.TempDir(), "missing", "x.log"), "info", "json")
		assert.Error(t, err)
	})
}
