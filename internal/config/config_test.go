package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/internal/config"
)

func writeYAML(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "prest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesPrecomputedPreordersAndRPCOptions(t *testing.T) {
	t.Parallel()

	path := writeYAML(t, t.TempDir(), `
precomputed_preorders: /var/lib/prest/preorders7.bin
rpc:
  listen_ws: ":9000"
  log_level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/prest/preorders7.bin", cfg.PrecomputedPreorders)
	require.Equal(t, ":9000", cfg.RPC.ListenWS)
	require.Equal(t, "debug", cfg.RPC.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingPrecomputedPreorders(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, config.Config{}.Validate(), config.ErrNoPrecomputedPreorders)
}

func TestWatcherPicksUpFileReplacement(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeYAML(t, dir, "precomputed_preorders: /a\n")

	w, err := config.NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, "/a", w.Current().PrecomputedPreorders)

	// Simulate an editor replacing the file outright (rename-over-write),
	// the common case fsnotify watchers need to tolerate.
	tmp := filepath.Join(dir, "prest.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("precomputed_preorders: /b\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		return w.Current().PrecomputedPreorders == "/b"
	}, 2*time.Second, 10*time.Millisecond)
}
