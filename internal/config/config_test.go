package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/scout/internal/config"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[wait]
timeout = "2s"

[output]
color = "off"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Wait.Timeout))
	assert.Equal(t, 50*time.Millisecond, time.Duration(cfg.Wait.PollInterval), "unset keys keep defaults")
	assert.Equal(t, config.ColorOff, cfg.Output.Color)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[wait\n", "failed to parse TOML"},
		{"bad duration", "[wait]\ntimeout = \"soon\"\n", "failed to parse TOML"},
		{"negative", "[wait]\npoll_interval = \"-1s\"\n", "[wait].poll_interval must not be negative"},
		{"zero timeout", "[wait]\ntimeout = \"0s\"\n", "[wait].timeout must be positive: 0s"},
		{"negative timeout", "[wait]\ntimeout = \"-2s\"\n", "[wait].timeout must be positive: -2s"},
		{"color", "[output]\ncolor = \"rainbow\"\n", `invalid [output].color "rainbow"`},
		{"unknown key", "[wait]\nretries = 3\n", "unknown keys: wait.retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := config.Load(path)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := config.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, found)
}

func TestDiscover(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		// A fresh temp dir has no scout.toml above it on a sane machine.
		dir := t.TempDir()
		if _, ok, _ := config.Find(dir); ok {
			t.Skip("a scout.toml exists above the temp directory")
		}
		cfg, err := config.Discover(dir, "")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "[output]\ncolor = \"on\"\n")
		other := writeConfig(t, t.TempDir(), "[output]\ncolor = \"off\"\n")

		cfg, err := config.Discover(dir, other)
		require.NoError(t, err)
		assert.Equal(t, config.ColorOff, cfg.Output.Color)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := config.Discover(t.TempDir(), filepath.Join(t.TempDir(), "none.toml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
