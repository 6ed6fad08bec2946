// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package semver

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	msemver "github.com/Masterminds/semver/v3"
)

// ComponentWidth is the number of digits each component occupies in the
// padded ordinal form.
const ComponentWidth = 3

// maxComponent is the largest component that fits in ComponentWidth digits.
const maxComponent = 999

var (
	// ErrMalformed reports a string that is not a dotted numeric triple.
	ErrMalformed = errors.New("malformed version")
	// ErrComponentOverflow reports a component too wide for the padded form.
	ErrComponentOverflow = errors.New("version component exceeds padded width")
	// ErrUnknownPart reports an unsupported bump part.
	ErrUnknownPart = errors.New("unknown version part")
)

// Version is a major.minor.patch triple.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// Part names a version component for Bump.
type Part string

const (
	PartMajor Part = "major"
	PartMinor Part = "minor"
	PartPatch Part = "patch"
)

// Parse parses "X.Y.Z" with an optional leading "v". Pre-release and build
// suffixes are rejected; only release triples carry tags here.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	sv, err := msemver.StrictNewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("%w: %q carries a pre-release or build suffix", ErrMalformed, s)
	}

	for _, c := range []uint64{sv.Major(), sv.Minor(), sv.Patch()} {
		if c > math.MaxInt {
			return Version{}, fmt.Errorf("%w: %q has a component larger than %d", ErrMalformed, s, math.MaxInt)
		}
	}

	return Version{
		Major: int(sv.Major()),
		Minor: int(sv.Minor()),
		Patch: int(sv.Patch()),
	}, nil
}

// MustParse is Parse that panics. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the version as a release tag with the given prefix.
func (v Version) Tag(prefix string) string {
	return prefix + v.String()
}

// Padded returns the zero-padded concatenation of the three components, e.g.
// 1.2.3 becomes "001002003".
func (v Version) Padded() (string, error) {
	for _, c := range []int{v.Major, v.Minor, v.Patch} {
		if c < 0 || c > maxComponent {
			return "", fmt.Errorf("%w: %s", ErrComponentOverflow, v)
		}
	}
	return fmt.Sprintf("%0*d%0*d%0*d",
		ComponentWidth, v.Major,
		ComponentWidth, v.Minor,
		ComponentWidth, v.Patch), nil
}

// Ordinal returns the padded form as an integer suitable for numeric
// ordering.
func (v Version) Ordinal() (int64, error) {
	p, err := v.Padded()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(p, 10, 64)
}

// Compare returns -1, 0 or 1 ordering a against b by major, minor, patch.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp.Compare(a.Patch, b.Patch)
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

// ParsePart validates a bump part name.
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(strings.TrimSpace(s))); p {
	case PartMajor, PartMinor, PartPatch:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (want major, minor or patch)", ErrUnknownPart, s)
	}
}

// Bump returns v with part incremented and lower components reset.
func (v Version) Bump(part Part) (Version, error) {
	var c int
	switch part {
	case PartMajor:
		c = v.Major
	case PartMinor:
		c = v.Minor
	case PartPatch:
		c = v.Patch
	}
	if c == math.MaxInt {
		return v, fmt.Errorf("%w: %s %s", ErrComponentOverflow, part, v)
	}

	switch part {
	case PartMajor:
		return Version{Major: v.Major + 1}, nil
	case PartMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case PartPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return v, fmt.Errorf("%w: %q", ErrUnknownPart, part)
	}
}
