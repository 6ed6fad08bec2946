// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/kili-technology/kili-cli/internal/attrs"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
}

type testMatchCase struct {
	Name   string `yaml:"name"`
	Value  any    `yaml:"value"`
	Filter Filter `yaml:"filter"`
	Want   bool   `yaml:"want"`
}

func loadTestData(t *testing.T, filename string, v any) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

// normalize converts YAML-decoded values to what gjson hands Match.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case map[string]any:
		return x
	case []any:
		return x
	}
	return v
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	loadTestData(t, "build_cases.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv(EnvDelim, tt.Delimiter)
			}
			got := BuildFilters(tt.Spec)
			assert.Equal(t, len(tt.Want), len(got))
			for i := range tt.Want {
				assert.Equal(t, tt.Want[i], got[i])
			}
		})
	}
}

func TestFilter_Match(t *testing.T) {
	var tests []testMatchCase
	loadTestData(t, "match_cases.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, tt.Filter.Match(normalize(tt.Value)))
		})
	}
}

func TestServerSide(t *testing.T) {
	got := ServerSide("_search=cats,title^C,_archived=false")
	assert.Equal(t, map[string]string{"search": "cats", "archived": "false"}, got)
	assert.Empty(t, ServerSide(""))
}

func TestFilterDataset(t *testing.T) {
	rows := gjson.Parse(`[
		{"id":"p1","title":"Cats","inputType":"IMAGE","numberOfAssets":120,"user":{"email":"ada@example.com"}},
		{"id":"p2","title":"Dogs","inputType":"IMAGE","numberOfAssets":12,"user":{"email":"bob@example.org"}},
		{"id":"p3","title":"Reviews","inputType":"TEXT","numberOfAssets":500}
	]`)

	var al attrs.AttrList
	require.NoError(t, al.Set("id,title,numberOfAssets:assets,user.email,!inputType"))

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"no filter", "", []string{"p1", "p2", "p3"}},
		{"equality on hidden attr", "inputType=IMAGE", []string{"p1", "p2"}},
		{"numeric", "assets>100", []string{"p1", "p3"}},
		{"combined", "inputType=IMAGE,assets>100", []string{"p1"}},
		{"nested attr, missing value fails", "email@example", []string{"p1", "p2"}},
		{"unknown key ignored", "nope=1", []string{"p1", "p2", "p3"}},
		{"server side ignored", "_search=zzz", []string{"p1", "p2", "p3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(rows, al, tt.spec)
			var ids []string
			for _, r := range got {
				ids = append(ids, r["id"].(string))
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	got := FilterDataset(rows, al, "title=Cats")
	require.Len(t, got, 1)
	assert.Equal(t, float64(120), got[0]["assets"])
	assert.Equal(t, "ada@example.com", got[0]["email"])
	assert.Equal(t, "IMAGE", got[0]["inputType"])
}
