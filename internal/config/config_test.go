package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Log.File)
	assert.Zero(t, cfg.History.Limit)
	assert.InDelta(t, 0.02, cfg.Editor.Step, 1e-12)
	assert.Empty(t, cfg.Metrics.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geoedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: text
history:
  limit: 50
editor:
  step: 0.1
metrics:
  file: /tmp/geoedit.prom
`), 0o644))
	t.Setenv("GEOEDIT_HISTORY_LIMIT", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 7, cfg.History.Limit)
	assert.InDelta(t, 0.1, cfg.Editor.Step, 1e-12)
	assert.Equal(t, "/tmp/geoedit.prom", cfg.Metrics.File)
}

func TestLoadSearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geoedit.yaml"), []byte("log:\n  format: text\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:    LogConfig{Level: "info", Format: "json"},
			Editor: EditorConfig{Step: 0.05},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative limit", func(c *Config) { c.History.Limit = -1 }, "history.limit"},
		{"zero step", func(c *Config) { c.Editor.Step = 0 }, "editor.step"},
		{"negative tolerance", func(c *Config) { c.Editor.Tolerance = -1 }, "editor.tolerance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("collects every problem", func(t *testing.T) {
		c := valid()
		c.Log.Level = ""
		c.History.Limit = -3
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
		assert.Contains(t, err.Error(), "history.limit")
	})
}
