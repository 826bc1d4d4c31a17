package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReloadsOnChange(t *testing.T) {
	path := writeFile(t, "tags.txt", "Status.Debuff.Slow\n")
	r := newCountingReloader()

	w, err := NewFileWatcher(path, r,
		WithDebounce(20*time.Millisecond),
		WithWatchLogger(discardLogger()))
	require.NoError(t, err)
	defer w.Close()

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	// give Run time to register the directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("Status.Debuff.Slow\nStatus.Buff\n"), 0o644)
		select {
		case <-r.calls:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "tags.txt", "A\n")
	w, err := NewFileWatcher(path, newCountingReloader(), WithWatchLogger(discardLogger()))
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.isRelevantEvent(fsnotifyEvent(filepath.Join(filepath.Dir(path), "other.txt"), true)))
	assert.True(t, w.isRelevantEvent(fsnotifyEvent(path, true)))
	assert.False(t, w.isRelevantEvent(fsnotifyEvent(path, false)))
}

func TestFileWatcherStopsOnContext(t *testing.T) {
	path := writeFile(t, "tags.txt", "A\n")
	w, err := NewFileWatcher(path, newCountingReloader(), WithWatchLogger(discardLogger()))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))

	// closing twice is fine
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestFileWatcherMissingDirectory(t *testing.T) {
	w, err := NewFileWatcher("/nonexistent/dir/tags.txt", newCountingReloader(), WithWatchLogger(discardLogger()))
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Run(context.Background()))
}

func TestFileWatcherDrivesRegistry(t *testing.T) {
	path := writeFile(t, "tags.yaml", "tags: [Status.Debuff.Slow]\n")
	reg := gameplaytags.NewRegistry(
		gameplaytags.WithSource(NewFile(path, WithFileLogger(discardLogger()))),
		gameplaytags.WithLogger(discardLogger()),
	)
	_, err := reg.Reload(context.Background())
	require.NoError(t, err)

	w, err := NewFileWatcher(path, reg,
		WithDebounce(20*time.Millisecond),
		WithWatchLogger(discardLogger()))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	haste := gameplaytags.FromPath("Status.Buff.Haste")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("tags: [Status.Debuff.Slow, Status.Buff.Haste]\n"), 0o644)
		time.Sleep(50 * time.Millisecond)
		return reg.IsExplicit(haste)
	}, 3*time.Second, 10*time.Millisecond)

	assert.True(t, reg.IsDescendantOf(haste, gameplaytags.FromPath("Status.Buff")))
}

func fsnotifyEvent(name string, write bool) fsnotify.Event {
	if write {
		return fsnotify.Event{Name: name, Op: fsnotify.Write}
	}
	return fsnotify.Event{Name: name, Op: fsnotify.Chmod}
}
