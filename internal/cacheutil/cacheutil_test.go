// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useCache points the cache at a fresh temp dir with caching enabled.
func useCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)
	t.Setenv(EnvEnabled, "1")
	return dir
}

func TestDir_WithEnv(t *testing.T) {
	dir := useCache(t)

	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)
}

func TestDir_FallsBackToUserCacheDir(t *testing.T) {
	t.Setenv(EnvDir, "")

	got, ok := Dir()
	if ok {
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "kili", filepath.Base(got))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv(EnvEnabled, tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(useCache(t), "nested", "cache")
	t.Setenv(EnvDir, base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv(EnvEnabled, "0")
	got, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestWriteRead(t *testing.T) {
	useCache(t)
	subdirs := []string{"cloud.kili-technology.com", "projects"}

	_, ok := Read(subdirs, "list", 0)
	assert.False(t, ok)

	require.NoError(t, Write(subdirs, "list", []byte(`{"data":[]}`)))

	e, ok := Read(subdirs, "list", 0)
	require.True(t, ok)
	assert.Equal(t, "list", e.Key)
	assert.Equal(t, encodeKey("list"), e.EncodedKey)
	assert.Equal(t, `{"data":[]}`, string(e.Data))
	assert.Less(t, e.Age(), time.Minute)

	info, err := os.Stat(e.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRead_StaleEntry(t *testing.T) {
	useCache(t)
	require.NoError(t, Write(nil, "k", []byte("v")))

	p, ok := EntryPath(nil, "k")
	require.True(t, ok)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	_, ok = Read(nil, "k", time.Hour)
	assert.False(t, ok)

	_, ok = Read(nil, "k", 0)
	assert.True(t, ok)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	dir := useCache(t)
	t.Setenv(EnvEnabled, "false")

	require.NoError(t, Write([]string{"x"}, "k", []byte("v")))
	_, ok := Read([]string{"x"}, "k", 0)
	assert.False(t, ok)
	assert.NoDirExists(t, filepath.Join(dir, "x"))
}

func TestPurge(t *testing.T) {
	useCache(t)
	require.NoError(t, Write([]string{"a"}, "old", []byte("1")))
	require.NoError(t, Write([]string{"a", "b"}, "older", []byte("2")))
	require.NoError(t, Write([]string{"a"}, "new", []byte("3")))

	for _, k := range []struct {
		sub []string
		key string
	}{{[]string{"a"}, "old"}, {[]string{"a", "b"}, "older"}} {
		p, ok := EntryPath(k.sub, k.key)
		require.True(t, ok)
		past := time.Now().Add(-48 * time.Hour)
		require.NoError(t, os.Chtimes(p, past, past))
	}

	require.NoError(t, Purge(0))
	_, ok := EntryPath([]string{"a"}, "old")
	assert.True(t, ok, "zero hours must not purge")

	require.NoError(t, Purge(24))
	_, ok = EntryPath([]string{"a"}, "old")
	assert.False(t, ok)
	_, ok = EntryPath([]string{"a", "b"}, "older")
	assert.False(t, ok)
	_, ok = EntryPath([]string{"a"}, "new")
	assert.True(t, ok)
}

func TestInvalidate(t *testing.T) {
	useCache(t)
	require.NoError(t, Write([]string{"host", "p1"}, "k", []byte("1")))
	require.NoError(t, Write([]string{"host", "p2"}, "k", []byte("2")))

	require.NoError(t, Invalidate("host", "p1"))

	_, ok := Read([]string{"host", "p1"}, "k", 0)
	assert.False(t, ok)
	_, ok = Read([]string{"host", "p2"}, "k", 0)
	assert.True(t, ok)

	assert.NoError(t, Invalidate())
}

func TestEncodeKey(t *testing.T) {
	a := encodeKey("query { projects }")
	assert.Equal(t, a, encodeKey("query { projects }"))
	assert.NotEqual(t, a, encodeKey("query { users }"))
	assert.Len(t, a, 64)
}
