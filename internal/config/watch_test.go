package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datejust.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lighting: studio\n"), 0o644))

	errs := make(chan error, 8)
	updates, err := Watch(t.Context(), path, func(err error) { errs <- err })
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("lighting: jewelry\nenvironment: 40\n"), 0o644))

	// A save can arrive as several events, the first seeing a truncated file.
	deadline := time.After(3 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-updates:
			reloaded = c.Lighting == "jewelry"
			if reloaded {
				assert.InDelta(t, 40, c.Environment, 0)
			}
		case <-deadline:
			t.Fatal("no reload after write")
		}
	}

	require.NoError(t, os.WriteFile(path, []byte("lighting: disco\n"), 0o644))
	for reported := false; !reported; {
		select {
		case <-updates:
		case err := <-errs:
			reported = errors.Is(err, ErrInvalidConfig)
		case <-deadline:
			t.Fatal("invalid edit was not reported")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datejust.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(t.Context())
	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(t.Context(), filepath.Join(t.TempDir(), "nope", "c.yaml"), nil)
	assert.Error(t, err)
}
