package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// safeBuffer is a bytes.Buffer usable from several goroutines.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewWatcher_Targets(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w, targets, err := newWatcher([]string{a, b, "-"})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, map[string]string{a: a, b: b}, targets)
	assert.Equal(t, []string{dir}, w.WatchList())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, _, err := newWatcher([]string{filepath.Join(t.TempDir(), "gone", "a.toml")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestWatchLoop_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.toml")
	other := filepath.Join(dir, "b.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0600))

	w, targets, err := newWatcher([]string{path})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, targets, func(name string) { changed <- name })
	}()

	require.NoError(t, os.WriteFile(other, []byte("y = 1\n"), 0600))
	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0600))

	select {
	case name := <-changed:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	require.NoError(t, <-done)
}
