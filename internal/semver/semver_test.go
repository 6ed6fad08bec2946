// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package semver

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr bool
	}{
		{name: "plain", in: "1.2.3", want: Version{1, 2, 3}},
		{name: "v prefix", in: "v2.0.10", want: Version{2, 0, 10}},
		{name: "surrounding space", in: " 0.0.1\n", want: Version{0, 0, 1}},
		{name: "zeros", in: "0.0.0", want: Version{}},
		{name: "empty", in: "", wantErr: true},
		{name: "two components", in: "1.2", wantErr: true},
		{name: "four components", in: "1.2.3.4", wantErr: true},
		{name: "non numeric", in: "1.x.3", wantErr: true},
		{name: "negative", in: "-1.2.3", wantErr: true},
		{name: "pre-release", in: "1.2.3-rc.1", wantErr: true},
		{name: "build metadata", in: "1.2.3+abc", wantErr: true},
		{name: "largest int", in: "9223372036854775807.0.0", want: Version{Major: math.MaxInt}},
		{name: "major past int range", in: "9223372036854775808.0.0", wantErr: true},
		{name: "minor past int range", in: "1.18446744073709551615.0", wantErr: true},
		{name: "patch past int range", in: "v1.2.18446744073709551615", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0.0.0", "1.2.3", "10.20.30", "2.117.4", "9223372036854775807.1.2"} {
		v := MustParse(s)
		assert.Equal(t, s, v.String())
		assert.Equal(t, v, MustParse(v.String()))
	}
}

func TestTag(t *testing.T) {
	v := MustParse("2.3.4")
	assert.Equal(t, "v2.3.4", v.Tag("v"))
	assert.Equal(t, "2.3.4", v.Tag(""))
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		in         string
		wantPadded string
		want       int64
	}{
		{"0.0.0", "000000000", 0},
		{"0.0.1", "000000001", 1},
		{"1.2.3", "001002003", 1002003},
		{"2.117.4", "002117004", 2117004},
		{"999.999.999", "999999999", 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := MustParse(tt.in)
			p, err := v.Padded()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPadded, p)

			o, err := v.Ordinal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, o)
		})
	}
}

func TestOrdinal_Overflow(t *testing.T) {
	_, err := Version{Major: 1000}.Ordinal()
	assert.True(t, errors.Is(err, ErrComponentOverflow))

	_, err = Version{Patch: -1}.Padded()
	assert.True(t, errors.Is(err, ErrComponentOverflow))
}

// The ordinal must order exactly like Compare, and the padded strings must
// order lexicographically the same way.
func TestOrdinalOrderingAgreesWithCompare(t *testing.T) {
	inputs := []string{
		"1.10.0", "1.2.0", "0.9.9", "1.2.10", "1.2.9", "10.0.0", "2.0.0", "0.10.0", "0.1.100",
	}

	byCompare := make([]Version, 0, len(inputs))
	for _, s := range inputs {
		byCompare = append(byCompare, MustParse(s))
	}
	byOrdinal := append([]Version(nil), byCompare...)
	byPadded := append([]Version(nil), byCompare...)

	sort.Slice(byCompare, func(i, j int) bool { return byCompare[i].Less(byCompare[j]) })
	sort.Slice(byOrdinal, func(i, j int) bool {
		oi, _ := byOrdinal[i].Ordinal()
		oj, _ := byOrdinal[j].Ordinal()
		return oi < oj
	})
	sort.Slice(byPadded, func(i, j int) bool {
		pi, _ := byPadded[i].Padded()
		pj, _ := byPadded[j].Padded()
		return pi < pj
	})

	assert.Equal(t, byCompare, byOrdinal)
	assert.Equal(t, byCompare, byPadded)
	assert.Equal(t, "0.1.100", byCompare[0].String())
	assert.Equal(t, "10.0.0", byCompare[len(byCompare)-1].String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.3.0", "1.2.9", 1},
		{"2.0.0", "1.99.99", 1},
		{"0.9.0", "0.10.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(MustParse(tt.a), MustParse(tt.b)))
			assert.Equal(t, -tt.want, Compare(MustParse(tt.b), MustParse(tt.a)))
		})
	}
}

func TestCompare_Extremes(t *testing.T) {
	hi := Version{Major: math.MaxInt}
	lo := Version{Major: math.MinInt}
	assert.Equal(t, 1, Compare(hi, lo))
	assert.Equal(t, -1, Compare(lo, hi))
	assert.Equal(t, 1, Compare(Version{Patch: math.MaxInt}, Version{Patch: -1}))
}

func TestBump_Overflow(t *testing.T) {
	v := Version{Major: 1, Minor: math.MaxInt, Patch: 3}

	_, err := v.Bump(PartMinor)
	assert.True(t, errors.Is(err, ErrComponentOverflow))

	got, err := v.Bump(PartPatch)
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: math.MaxInt, Patch: 4}, got)
}

func TestBump(t *testing.T) {
	v := MustParse("1.4.7")

	tests := []struct {
		part    string
		want    string
		wantErr bool
	}{
		{part: "major", want: "2.0.0"},
		{part: "minor", want: "1.5.0"},
		{part: "patch", want: "1.4.8"},
		{part: "PATCH", want: "1.4.8"},
		{part: "build", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			p, err := ParsePart(tt.part)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownPart))
				return
			}
			require.NoError(t, err)

			got, err := v.Bump(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := v.Bump(Part("nope"))
	assert.Error(t, err)
}
