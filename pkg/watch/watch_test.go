// pkg/watch/watch_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dir), fsnotify
// PURPOSE: Test that bursts of changes produce one callback, including in new subdirectories

package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/watch"
)

func start(t *testing.T, dirs ...string) <-chan struct{} {
	t.Helper()
	calls := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	w := watch.New(dirs, 200*time.Millisecond)
	go func() {
		done <- w.Run(ctx, func() error {
			calls <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// let the watcher register before the test writes
	time.Sleep(100 * time.Millisecond)
	return calls
}

func wait(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback")
	}
}

func TestRun_FoldsBurst(t *testing.T) {
	dir := t.TempDir()
	calls := start(t, dir)

	for _, name := range []string{"Foo.pak", "Foo.ucas", "Foo.utoc"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	wait(t, calls)

	select {
	case <-calls:
		t.Fatal("burst produced more than one callback")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestRun_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	calls := start(t, dir)

	sub := filepath.Join(dir, "armor")
	require.NoError(t, os.Mkdir(sub, 0755))
	wait(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "Plate.pak"), []byte("x"), 0644))
	wait(t, calls)
}

func TestRun_MissingDir(t *testing.T) {
	w := watch.New([]string{filepath.Join(t.TempDir(), "nope")}, 0)
	err := w.Run(context.Background(), func() error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}
