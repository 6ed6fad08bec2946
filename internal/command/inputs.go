// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/log"
)

// readAssetInputs turns import arguments into assets. A .csv argument holds
// external_id,content rows. Other arguments are paths or URLs, paired in
// order with externalIDs when any are given.
func readAssetInputs(args []string, externalIDs []string) ([]kili.AssetInput, error) {
	var plain []string
	var out []kili.AssetInput

	for _, arg := range args {
		if !isCSV(arg) {
			plain = append(plain, arg)
			continue
		}
		rows, err := readCSV(arg, "external_id")
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			if len(row) != 2 {
				return nil, fmt.Errorf("%s row %d: want external_id,content", arg, i+1)
			}
			out = append(out, kili.AssetInput{
				ExternalID: strings.TrimSpace(row[0]),
				Content:    relativeTo(arg, strings.TrimSpace(row[1])),
			})
		}
	}

	if len(externalIDs) > 0 && len(externalIDs) != len(plain) {
		return nil, fmt.Errorf("got %d external ids for %d assets", len(externalIDs), len(plain))
	}
	for i, p := range plain {
		in := kili.AssetInput{Content: p}
		if len(externalIDs) > 0 {
			in.ExternalID = strings.TrimSpace(externalIDs[i])
		}
		out = append(out, in)
	}

	log.Debugf("read %d assets from %d arguments", len(out), len(args))
	return out, nil
}

// readLabelInputs turns label arguments into labels. A .json argument is one
// label for the asset named by its base name. A .csv argument holds
// external_id,json_path rows.
func readLabelInputs(args []string) ([]kili.LabelInput, error) {
	var out []kili.LabelInput

	for _, arg := range args {
		if !isCSV(arg) {
			in, err := readLabel(arg, strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)))
			if err != nil {
				return nil, err
			}
			out = append(out, in)
			continue
		}

		rows, err := readCSV(arg, "external_id")
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			if len(row) != 2 {
				return nil, fmt.Errorf("%s row %d: want external_id,json_path", arg, i+1)
			}
			in, err := readLabel(relativeTo(arg, strings.TrimSpace(row[1])), strings.TrimSpace(row[0]))
			if err != nil {
				return nil, err
			}
			out = append(out, in)
		}
	}

	return out, nil
}

func readLabel(path, externalID string) (kili.LabelInput, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return kili.LabelInput{}, fmt.Errorf("failed to read label: %w", err)
	}
	if !json.Valid(b) {
		return kili.LabelInput{}, fmt.Errorf("%s: label is not valid JSON", path)
	}
	return kili.LabelInput{ExternalID: externalID, JSONResponse: json.RawMessage(b)}, nil
}

// readCSV returns the rows of path, dropping a first row whose first cell is
// header.
func readCSV(path, header string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(rows) == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv") && !kili.IsURL(path)
}

// relativeTo resolves a path found in csvPath against the CSV's directory.
// URLs and absolute paths are returned unchanged.
func relativeTo(csvPath, p string) string {
	if p == "" || kili.IsURL(p) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(csvPath), p)
}
