package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-ch:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestFileWatcherEmitsOnSave(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "today.txt")
	require.NoError(t, os.WriteFile(path, []byte("Wake up"), 0644))

	changes := make(chan string, 16)
	w, err := New(path, 20*time.Millisecond, zaptest.NewLogger(t), func(text string) {
		changes <- text
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, changes, "Wake up")

	require.NoError(t, os.WriteFile(path, []byte("Wake up\nBreakfast"), 0644))
	waitFor(t, changes, "Wake up\nBreakfast")

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	cancel()
	assert.NoError(t, <-done)
}

func TestFileWatcherMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "missing", "today.txt"), 0, nil, func(string) {})
	require.NoError(t, err)

	assert.Error(t, w.Run(context.Background()))
}
