package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RegeneratesOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "preset.toml")
	require.NoError(t, os.WriteFile(target, []byte("marker_size = 3.0\n"), 0644))

	var calls atomic.Int32
	w, err := NewWatcher([]string{target}, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(target, []byte("marker_size = 5.0\n"), 0644))

	assert.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "regenerate should fire after a write")
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "config.yaml")
	other := filepath.Join(tmpDir, "other.txt")
	require.NoError(t, os.WriteFile(target, []byte("field:\n  limit: 10\n"), 0644))

	var calls atomic.Int32
	w, err := NewWatcher([]string{target}, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(other, []byte("noise"), 0644))

	time.Sleep(DefaultDebounce + 300*time.Millisecond)
	assert.Zero(t, calls.Load(), "unrelated file should not trigger regeneration")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte(""), 0644))

	w, err := NewWatcher([]string{target}, func() error { return nil })
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
}
