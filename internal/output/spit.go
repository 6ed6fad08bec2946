// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/kili-technology/kili-cli/internal/attrs"
	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/filters"
)

// Options are the rendering switches shared by every listing command.
type Options struct {
	Format  string // text, json, yaml or raw
	Filter  string
	Sort    string
	Local   bool
	Color   bool
	Titles  bool
	Padding int
	Header  string
	Footer  string
}

// OptionsFrom reads Options from the global flags and the command's
// header/footer metadata.
func OptionsFrom(cmd *cli.Command) Options {
	o := Options{
		Format:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Local:   cmd.Bool("local"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: int(cmd.Int("padding")),
	}
	if h, ok := cmd.Metadata["header"].(string); ok {
		o.Header = h
	}
	if f, ok := cmd.Metadata["footer"].(string); ok {
		o.Footer = f
	}
	return o
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value any, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return empty
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// Emit marshals v (a slice or a single struct) to JSON and renders it.
func Emit(v any, al attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return SliceDiceSpit(raw, al, cmd, "", w, nil)
}

// SliceDiceSpit renders raw per the command's flags. parent selects the
// member of raw holding the rows; empty means raw itself. A single object is
// treated as one row.
func SliceDiceSpit(raw []byte,
	al attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer,
	postProcess func([]map[string]any) error) error {

	return Render(raw, al, OptionsFrom(cmd), parent, w, postProcess)
}

// Render is SliceDiceSpit with explicit Options.
func Render(raw []byte,
	al attrs.AttrList,
	opts Options,
	parent string,
	w io.Writer,
	postProcess func([]map[string]any) error) error {

	if w == nil {
		w = os.Stdout
	}

	if opts.Format == "raw" {
		_, err := w.Write(raw)
		return err
	}

	doc := gjson.ParseBytes(raw)
	if parent != "" {
		doc = doc.Get(parent)
	}
	if doc.IsObject() {
		doc = gjson.Parse("[" + doc.Raw + "]")
	}

	rows := filters.FilterDataset(doc, al, opts.Filter)

	if opts.Local {
		for i := range al {
			al[i].TransformSpec += "t"
		}
	}
	for _, row := range rows {
		for _, a := range al {
			if a.TransformSpec != "" {
				row[a.OutputKey] = a.Transform(row[a.OutputKey])
			}
		}
	}

	SortDataset(rows, opts.Sort)

	switch opts.Format {
	case "json":
		// Hidden attrs only exist for filtering and sorting.
		b, err := json.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(b)
		return err
	}

	if postProcess != nil {
		if err := postProcess(rows); err != nil {
			log.Errorf("postProcess: %v", err)
		}
	}
	TableWriter(rows, al, opts, w)
	return nil
}

// visible drops the columns of attrs that are not included. It always
// returns a non-nil slice so empty results encode as [].
func visible(rows []map[string]any, al attrs.AttrList) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		r := make(map[string]any, len(row))
		for _, a := range al {
			if a.Include {
				r[a.OutputKey] = row[a.OutputKey]
			}
		}
		out = append(out, r)
	}
	return out
}

// TableWriter renders rows as an aligned, borderless table.
func TableWriter(rows []map[string]any, al attrs.AttrList, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)
	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")
		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var cells [][]string
	for _, row := range rows {
		line := make([]string, 0, len(al))
		for _, a := range al {
			if a.Include {
				line = append(line, InterfaceToString(row[a.OutputKey], "-"))
			}
		}
		cells = append(cells, line)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := oddRowStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(opts.Padding)
			}
			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		var headers []string
		for _, a := range al {
			if a.Include {
				headers = append(headers, a.OutputKey)
			}
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// getColors returns the table colors. Config values under key win, otherwise
// a palette is picked for the terminal's background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolve := func(k, light, dark string) color.Color {
		if c, err := config.GetString(k); err == nil {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolve(key+".title", "#b08800", "#f6be00")
	even = resolve(key+".even", "#333333", "#ffffff")
	odd = resolve(key+".odd", "#0088a0", "#00c8f0")
	return
}
