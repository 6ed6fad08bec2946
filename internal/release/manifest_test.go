// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package release

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kili-technology/kili-cli/internal/semver"
)

const pyproject = `[build-system]
requires = ["setuptools>=61"]
version = "9.9.9"

[project]
name = "kili"
version = "2.117.4"
dependencies = ["requests>=2.0"]

[tool.bumpversion]
current_version = "2.117.4"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, KindPyproject, DetectKind("/a/pyproject.toml"))
	assert.Equal(t, KindSetupPy, DetectKind("setup.py"))
	assert.Equal(t, KindPackageJSON, DetectKind("web/package.json"))
	assert.Equal(t, KindPlain, DetectKind("VERSION"))
	assert.Equal(t, KindLiteral, DetectKind("src/kili/__init__.py"))
}

func TestReadManifest(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "pyproject project table", file: "pyproject.toml", content: pyproject, want: "2.117.4"},
		{name: "pyproject poetry table", file: "pyproject.toml", content: "[tool.poetry]\nname = \"kili\"\nversion = '1.0.2'\n", want: "1.0.2"},
		{name: "setup.py", file: "setup.py", content: "setup(\n    name=\"kili\",\n    version=\"0.4.1\",\n)\n", want: "0.4.1"},
		{name: "package.json", file: "package.json", content: "{\n  \"name\": \"kili\",\n  \"version\": \"3.2.1\"\n}\n", want: "3.2.1"},
		{name: "plain VERSION", file: "VERSION", content: "1.2.3\n", want: "1.2.3"},
		{name: "plain VERSION prefixed", file: "VERSION", content: "v1.2.3", want: "1.2.3"},
		{name: "literal", file: "__init__.py", content: "__version__ = \"5.6.7\"\n", want: "5.6.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)
			m, err := ReadManifest(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Version.String())
		})
	}
}

func TestReadManifest_NotFound(t *testing.T) {
	dir := t.TempDir()

	p := writeFile(t, dir, "pyproject.toml", "[build-system]\nversion = \"1.0.0\"\n")
	_, err := ReadManifest(p)
	assert.True(t, errors.Is(err, ErrVersionNotFound))

	_, err = ReadManifest(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestManifestWrite_PreservesRestOfFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "pyproject.toml", pyproject)

	m, err := ReadManifest(p)
	require.NoError(t, err)
	require.NoError(t, m.Write(semver.MustParse("2.118.0")))

	got, err := os.ReadFile(p)
	require.NoError(t, err)

	want := `[build-system]
requires = ["setuptools>=61"]
version = "9.9.9"

[project]
name = "kili"
version = "2.118.0"
dependencies = ["requests>=2.0"]

[tool.bumpversion]
current_version = "2.117.4"
`
	assert.Equal(t, want, string(got))

	// A second write on the same Manifest must still target the literal.
	require.NoError(t, m.Write(semver.MustParse("10.0.0")))
	again, err := ReadManifest(p)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0", again.Version.String())
}

func TestReadLiteral(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "docs/install.md", "Pin 1.0.0 of the parser.\nInstall kili 2.3.4 with pip.\n")

	m, err := ReadLiteral(p, semver.MustParse("2.3.4"))
	require.NoError(t, err)
	require.NoError(t, m.Write(semver.MustParse("2.4.0")))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "Pin 1.0.0 of the parser.\nInstall kili 2.4.0 with pip.\n", string(got))

	_, err = ReadLiteral(p, semver.MustParse("9.9.9"))
	assert.True(t, errors.Is(err, ErrVersionNotFound))
}
