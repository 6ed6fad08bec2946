// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points KILI_CFG_FILE at a testdata file and resets the
// global Config. Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv(EnvFile, absPath)
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

// withConfig sets up a test config, loads it and executes fn.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()
	cleanup := setupTestConfig(t, testFile)
	defer cleanup()
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "key-from-file", cfg.Data["api_key"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				release, ok := cfg.Data["release"].(map[string]interface{})
				require.True(t, ok, "release should be a map")
				assert.Equal(t, "pyproject.toml", release["manifest"])
				assert.Equal(t, "v", release["prefix"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "labeling", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "")
	defer func() { Config = Type{} }()

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "key-from-file", cfg.Data["api_key"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/path/kili.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_EnvIsDirectory(t *testing.T) {
	t.Setenv(EnvFile, "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kili.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unterminated"), 0o600))
	t.Setenv(EnvFile, path)
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "api_key",
			want:     "key-from-file",
		},
		{
			name:     "nested string value",
			testFile: "nested.yaml",
			key:      "release.manifest",
			want:     "pyproject.toml",
		},
		{
			name:      "namespaced value preferred",
			testFile:  "nested.yaml",
			namespace: "project",
			key:       "api_endpoint",
			want:      "https://project.example.com/graphql",
		},
		{
			name:      "namespace falls back to top level",
			testFile:  "nested.yaml",
			namespace: "release",
			key:       "api_endpoint",
			want:      "https://default.example.com/graphql",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				Config.Namespace = tt.namespace

				got, err := GetString(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}

				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetString_MissingIsErrNotFound(t *testing.T) {
	withConfig(t, "simple.yaml", func(t *testing.T) {
		_, err := GetString("nope.nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "version", want: 1},
		{name: "float value converted to int", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "nested int value", testFile: "nested.yaml", key: "cache.clean", want: 24},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "multiple defaults error", testFile: "simple.yaml", key: "missing", defaultValue: []int{10, 20}, wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "api_key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				got, err := GetInt(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetBool(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		v, err := GetBool("release.push")
		assert.NoError(t, err)
		assert.True(t, v)

		v, err = GetBool("release.missing", false)
		assert.NoError(t, err)
		assert.False(t, v)

		_, err = GetBool("release.prefix")
		assert.Error(t, err)
	})
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "string-slice.yaml", func(t *testing.T) {
		vals, err := GetStringSlice("list_top")
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, vals)

		vals, err = GetStringSlice("nested.inner.list")
		assert.NoError(t, err)
		assert.Equal(t, []string{"one", "two three"}, vals)

		Config.Namespace = "project"
		vals, err = GetStringSlice("wide")
		assert.NoError(t, err)
		assert.Equal(t, []string{"--output json", "--sort title,id"}, vals)
		Config.Namespace = ""

		_, err = GetStringSlice("nonstring_list")
		assert.Error(t, err)

		_, err = GetStringSlice("not_a_list")
		assert.Error(t, err)

		def := []string{"x", "y"}
		vals, err = GetStringSlice("does.not.exist", def)
		assert.NoError(t, err)
		assert.Equal(t, def, vals)
	})
}

func TestLazyLoadKeepsNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	Config.Namespace = "project"
	val, err := GetInt("page_size")
	assert.NoError(t, err)
	assert.Equal(t, 50, val)
	assert.Equal(t, "project", Config.Namespace)
}
