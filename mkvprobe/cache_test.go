package mkvprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkvmux/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCachedProber_HitsCache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.mkv", "data")
	inner := &fakeProber{}
	prober := NewCachedProber(inner, time.Minute, nil)
	ctx := context.Background()

	first, err := prober.Identify(ctx, path)
	require.NoError(t, err)
	second, err := prober.Identify(ctx, path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, prober.Len())
}

func TestCachedProber_InvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mkv", "data")
	inner := &fakeProber{}
	prober := NewCachedProber(inner, 0, nil)
	ctx := context.Background()

	_, err := prober.Identify(ctx, path)
	require.NoError(t, err)

	writeFile(t, dir, "a.mkv", "different length data")
	_, err = prober.Identify(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedProber_MissingFile(t *testing.T) {
	prober := NewCachedProber(&fakeProber{}, time.Minute, nil)
	_, err := prober.Identify(context.Background(), filepath.Join(t.TempDir(), "missing.mkv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCachedProber_DoesNotCacheFailures(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.mkv", "data")
	inner := &fakeProber{failOn: path}
	prober := NewCachedProber(inner, time.Minute, nil)

	_, err := prober.Identify(context.Background(), path)
	assert.Error(t, err)
	_, err = prober.Identify(context.Background(), path)
	assert.Error(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, 0, prober.Len())
}
