// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/semver"
)

// Kind identifies the packaging file format holding a version.
type Kind string

const (
	KindPyproject   Kind = "pyproject"
	KindSetupPy     Kind = "setup.py"
	KindPackageJSON Kind = "package.json"
	KindPlain       Kind = "plain"
	KindLiteral     Kind = "literal"
)

// ErrVersionNotFound is returned when a manifest holds no recognizable version.
var ErrVersionNotFound = errors.New("version not found in manifest")

var (
	tripleRe      = `\d+\.\d+\.\d+`
	pyVersionRe   = regexp.MustCompile(`^\s*version\s*=\s*["'](` + tripleRe + `)["']`)
	pySectionRe   = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	setupPyRe     = regexp.MustCompile(`\bversion\s*=\s*["'](` + tripleRe + `)["']`)
	packageJSONRe = regexp.MustCompile(`"version"\s*:\s*"(` + tripleRe + `)"`)
	plainRe       = regexp.MustCompile(`^\s*v?(` + tripleRe + `)\s*$`)
)

// pyprojectSections are the tables in which a pyproject version is honored.
var pyprojectSections = map[string]bool{
	"project":     true,
	"tool.poetry": true,
}

// Manifest is a packaging file carrying a version literal. The location of the
// literal is remembered so Write can replace it without disturbing the rest of
// the file.
type Manifest struct {
	Path    string
	Kind    Kind
	Version semver.Version

	content []byte
	start   int
	end     int
	mode    os.FileMode
}

// DetectKind picks a manifest kind from the file name.
func DetectKind(path string) Kind {
	switch strings.ToLower(filepath.Base(path)) {
	case "pyproject.toml":
		return KindPyproject
	case "setup.py":
		return KindSetupPy
	case "package.json":
		return KindPackageJSON
	case "version", "version.txt":
		return KindPlain
	default:
		return KindLiteral
	}
}

// ReadManifest loads path and locates its version literal.
func ReadManifest(path string) (*Manifest, error) {
	return readManifest(path, DetectKind(path), nil)
}

// ReadLiteral loads an arbitrary file expected to contain want verbatim. It is
// used for auxiliary files (docs, __init__.py) that mirror the manifest.
func ReadLiteral(path string, want semver.Version) (*Manifest, error) {
	return readManifest(path, KindLiteral, &want)
}

func readManifest(path string, kind Kind, want *semver.Version) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{Path: path, Kind: kind, content: content, mode: info.Mode().Perm()}

	var loc []int
	switch kind {
	case KindPyproject:
		loc = locatePyproject(content)
	case KindSetupPy:
		loc = submatch(setupPyRe, content)
	case KindPackageJSON:
		loc = submatch(packageJSONRe, content)
	case KindPlain:
		loc = submatch(plainRe, bytes.TrimRight(content, "\r\n"))
	case KindLiteral:
		if want == nil {
			loc = submatch(regexp.MustCompile(tripleRe), content)
		} else if i := bytes.Index(content, []byte(want.String())); i >= 0 {
			loc = []int{i, i + len(want.String())}
		}
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, path)
	}

	v, err := semver.Parse(string(content[loc[0]:loc[1]]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse version in %s: %w", path, err)
	}

	m.start, m.end, m.Version = loc[0], loc[1], v
	log.Debugf("manifest %s (%s): version=%s at %d", path, kind, v, m.start)
	return m, nil
}

// Write replaces the version literal with v and rewrites the file in place.
func (m *Manifest) Write(v semver.Version) error {
	if err := os.WriteFile(m.Path, m.Render(v), m.mode); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Keep the Manifest usable for a subsequent Write.
	m.content = m.Render(v)
	m.end = m.start + len(v.String())
	m.Version = v
	return nil
}

// Render returns the file content with the version literal replaced by v.
func (m *Manifest) Render(v semver.Version) []byte {
	var buf bytes.Buffer
	buf.Grow(len(m.content) + 8)
	buf.Write(m.content[:m.start])
	buf.WriteString(v.String())
	buf.Write(m.content[m.end:])
	return buf.Bytes()
}

// locatePyproject finds the version line inside [project] or [tool.poetry] and
// returns the byte offsets of the literal.
func locatePyproject(content []byte) []int {
	section := ""
	offset := 0
	for _, line := range bytes.SplitAfter(content, []byte("\n")) {
		if m := pySectionRe.FindSubmatch(line); m != nil {
			section = strings.TrimSpace(string(m[1]))
		} else if pyprojectSections[section] {
			if loc := pyVersionRe.FindSubmatchIndex(line); loc != nil {
				return []int{offset + loc[2], offset + loc[3]}
			}
		}
		offset += len(line)
	}
	return nil
}

// submatch returns the offsets of the first capture group of re in b.
func submatch(re *regexp.Regexp, b []byte) []int {
	loc := re.FindSubmatchIndex(b)
	if loc == nil {
		return nil
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		return []int{loc[2], loc[3]}
	}
	return []int{loc[0], loc[1]}
}
