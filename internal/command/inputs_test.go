// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kili-technology/kili-cli/internal/kili"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestReadAssetInputs_PlainArgs(t *testing.T) {
	got, err := readAssetInputs([]string{"https://cdn.example.com/a.jpg", "b.txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []kili.AssetInput{
		{Content: "https://cdn.example.com/a.jpg"},
		{Content: "b.txt"},
	}, got)

	got, err = readAssetInputs([]string{"a.txt", "b.txt"}, []string{"one", " two "})
	require.NoError(t, err)
	assert.Equal(t, []kili.AssetInput{
		{ExternalID: "one", Content: "a.txt"},
		{ExternalID: "two", Content: "b.txt"},
	}, got)

	_, err = readAssetInputs([]string{"a.txt"}, []string{"one", "two"})
	assert.Error(t, err)
}

func TestReadAssetInputs_CSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeInput(t, dir, "batch/assets.csv", `external_id,content
# comment rows are ignored
cat-1, images/cat-1.jpg
cat-2,https://cdn.example.com/cat-2.jpg
cat-3,/srv/cat-3.jpg
`)

	got, err := readAssetInputs([]string{csvPath, "extra.txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []kili.AssetInput{
		{ExternalID: "cat-1", Content: filepath.Join(dir, "batch", "images", "cat-1.jpg")},
		{ExternalID: "cat-2", Content: "https://cdn.example.com/cat-2.jpg"},
		{ExternalID: "cat-3", Content: "/srv/cat-3.jpg"},
		{Content: "extra.txt"},
	}, got)
}

func TestReadAssetInputs_CSVBadRow(t *testing.T) {
	csvPath := writeInput(t, t.TempDir(), "assets.csv", "cat-1,a.jpg,extra\n")

	_, err := readAssetInputs([]string{csvPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestReadAssetInputs_MissingCSV(t *testing.T) {
	_, err := readAssetInputs([]string{filepath.Join(t.TempDir(), "nope.csv")}, nil)
	assert.Error(t, err)
}

func TestReadLabelInputs(t *testing.T) {
	dir := t.TempDir()
	single := writeInput(t, dir, "cat-1.json", `{"JOB_0":{"categories":[{"name":"CAT"}]}}`)
	writeInput(t, dir, "labels/cat-2.json", `{"JOB_0":{"categories":[{"name":"DOG"}]}}`)
	csvPath := writeInput(t, dir, "labels.csv", "external_id,json_path\ncat-2,labels/cat-2.json\n")

	got, err := readLabelInputs([]string{single, csvPath})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cat-1", got[0].ExternalID)
	assert.JSONEq(t, `{"JOB_0":{"categories":[{"name":"CAT"}]}}`, string(got[0].JSONResponse))
	assert.Equal(t, "cat-2", got[1].ExternalID)
	assert.JSONEq(t, `{"JOB_0":{"categories":[{"name":"DOG"}]}}`, string(got[1].JSONResponse))
}

func TestReadLabelInputs_InvalidJSON(t *testing.T) {
	p := writeInput(t, t.TempDir(), "broken.json", `{"JOB_0":`)

	_, err := readLabelInputs([]string{p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		csv, in, want string
	}{
		{"/data/in.csv", "a.jpg", "/data/a.jpg"},
		{"/data/in.csv", "/abs/a.jpg", "/abs/a.jpg"},
		{"/data/in.csv", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"/data/in.csv", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTo(tt.csv, tt.in), tt.in)
	}
}

func TestIsCSV(t *testing.T) {
	assert.True(t, isCSV("assets.csv"))
	assert.True(t, isCSV("ASSETS.CSV"))
	assert.False(t, isCSV("assets.json"))
	assert.False(t, isCSV("https://cdn.example.com/assets.csv"))
}
