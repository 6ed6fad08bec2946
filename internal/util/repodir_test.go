// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestParseRepoDir(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T) (spec, wantDir string)
		wantRemote string
		errIs      error
	}{
		{
			name: "absolute",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				return d, d
			},
		},
		{
			name: "absolute with remote",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				return d + "::upstream", d
			},
			wantRemote: "upstream",
		},
		{
			name: "relative with padded remote",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				chdir(t, filepath.Dir(d))
				return filepath.Base(d) + ":: origin ", d
			},
			wantRemote: "origin",
		},
		{
			name: "dot",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				chdir(t, d)
				wd, err := os.Getwd()
				require.NoError(t, err)
				return ".", wd
			},
		},
		{
			name: "extra separators ignored",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				return d + "::fork::extra", d
			},
			wantRemote: "fork",
		},
		{
			name: "empty remote",
			setup: func(t *testing.T) (string, string) {
				d := t.TempDir()
				return d + "::", d
			},
		},
		{
			name: "missing",
			setup: func(t *testing.T) (string, string) {
				return "/nonexistent/kili/repo", ""
			},
			errIs: os.ErrNotExist,
		},
		{
			name: "file",
			setup: func(t *testing.T) (string, string) {
				f := filepath.Join(t.TempDir(), "pyproject.toml")
				require.NoError(t, os.WriteFile(f, []byte("[project]\n"), 0o600))
				return f, ""
			},
			errIs: os.ErrInvalid,
		},
		{
			name: "empty",
			setup: func(t *testing.T) (string, string) {
				return "", ""
			},
			errIs: os.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, wantDir := tt.setup(t)
			dir, remote, err := ParseRepoDir(spec)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, wantDir, dir)
			assert.Equal(t, tt.wantRemote, remote)
		})
	}
}

func TestLooksLikeRepoDir(t *testing.T) {
	assert.True(t, LooksLikeRepoDir(t.TempDir()))
	assert.False(t, LooksLikeRepoDir("--dry-run"))
	assert.False(t, LooksLikeRepoDir("minor"))
}
