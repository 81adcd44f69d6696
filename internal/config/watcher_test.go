package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatcher_ReloadsValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan struct{})
	var got *Config
	w.SetReloadCallback(func(cfg *Config) {
		got = cfg
		close(reloaded)
	})
	require.NoError(t, w.Start())

	cfg := Default()
	cfg.Display.Margin = 99
	require.NoError(t, Save(cfg, path))

	waitFor(t, reloaded, "reload callback")
	assert.Equal(t, 99, got.Display.Margin)
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	failed := make(chan struct{})
	w.SetErrorCallback(func(err error) {
		assert.Error(t, err)
		close(failed)
	})
	w.SetReloadCallback(func(cfg *Config) {
		t.Error("invalid config must not trigger reload")
	})
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(path, []byte(`[display]`+"\n"+`width = 5`), 0o644))

	waitFor(t, failed, "error callback")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	w.SetReloadCallback(func(cfg *Config) {
		t.Error("unrelated file must not trigger reload")
	})
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(2 * debounceDelay)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
