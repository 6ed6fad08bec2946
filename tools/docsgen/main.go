// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes a markdown reference page for every kili leaf
// command. Usage, flags and defaults come from the live command tree.
// Examples and notes come from docs/templates/kili.yaml when present.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/kili-technology/kili-cli/internal/command"
	"github.com/kili-technology/kili-cli/internal/release"
)

// Extras holds the hand-written parts of the reference, keyed by page id.
type Extras struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID       string    `yaml:"id"`
	Examples []Example `yaml:"examples"`
	Notes    []string  `yaml:"notes,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	Names   string
	Usage   string
	Default string
}

type Page struct {
	ID        string
	Name      string
	Usage     string
	UsageText string
	Flags     []Flag
	Examples  []Example
	Notes     []string
	Date      string
	Version   string
}

const pageTemplate = `# {{ .Name }}

{{ .Usage }}

` + "```" + `
{{ .UsageText }}
` + "```" + `
{{ if .Flags }}
## Flags

| Flag | Description | Default |
|------|-------------|---------|
{{- range .Flags }}
| ` + "`{{ .Names }}`" + ` | {{ .Usage }} | {{ .Default }} |
{{- end }}
{{ end }}
{{- if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}
{{- end }}
{{- if .Notes }}
## Notes
{{ range .Notes }}
- {{ . }}
{{- end }}
{{ end }}
_kili {{ .Version }}, generated {{ .Date }}_
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(2)
	}
	docs := os.Args[1]

	extras := map[string]Subcommand{}
	if data, err := os.ReadFile(filepath.Join(docs, "templates", "kili.yaml")); err == nil {
		var e Extras
		if err := yaml.Unmarshal(data, &e); err != nil {
			panic(err)
		}
		for _, s := range e.Subcommands {
			extras[s.ID] = s
		}
	}

	app, err := command.InitApp(context.Background(), []string{"kili"})
	if err != nil {
		panic(err)
	}

	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		panic(err)
	}

	version := getVersion()
	date := time.Now().Format("January 2, 2006")

	for _, lf := range leaves(app.Commands, nil) {
		id := strings.Join(lf.path, "-")
		page := Page{
			ID:        id,
			Name:      "kili " + strings.Join(lf.path, " "),
			Usage:     lf.cmd.Usage,
			UsageText: lf.cmd.UsageText,
			Flags:     flagsOf(lf.cmd),
			Examples:  extras[id].Examples,
			Notes:     extras[id].Notes,
			Date:      date,
			Version:   version,
		}

		name := filepath.Join(folder, id+".md")
		fmt.Println("Generating", name)
		f, err := os.Create(name)
		if err != nil {
			panic(err)
		}
		if err := tmpl.Execute(f, page); err != nil {
			panic(err)
		}
		f.Close()
	}
}

type leaf struct {
	path []string
	cmd  *cli.Command
}

// leaves walks the tree depth first and returns every command without
// subcommands, with the names leading to it.
func leaves(cmds []*cli.Command, parent []string) []leaf {
	var out []leaf
	for _, c := range cmds {
		if c.Hidden {
			continue
		}
		path := append(append([]string{}, parent...), c.Name)
		if len(c.Commands) == 0 {
			out = append(out, leaf{path: path, cmd: c})
			continue
		}
		out = append(out, leaves(c.Commands, path)...)
	}
	return out
}

func flagsOf(cmd *cli.Command) []Flag {
	var out []Flag
	for _, f := range cmd.Flags {
		df, ok := f.(cli.DocGenerationFlag)
		if !ok {
			continue
		}
		if vf, ok := f.(cli.VisibleFlag); ok && !vf.IsVisible() {
			continue
		}

		names := make([]string, 0, len(f.Names()))
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "-"+n)
			} else {
				names = append(names, "--"+n)
			}
		}

		def := df.GetValue()
		if def == "false" {
			def = ""
		}
		out = append(out, Flag{
			Names:   strings.Join(names, ", "),
			Usage:   strings.ReplaceAll(df.GetUsage(), "|", "\\|"),
			Default: def,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Names < out[j].Names })
	return out
}

// getVersion returns the latest release tag of the working directory's
// repository without its "v" prefix. Falls back to "dev".
func getVersion() string {
	g, err := release.NewGit(".")
	if err != nil {
		return "dev"
	}
	tags, err := g.Tags(context.Background())
	if err != nil {
		return "dev"
	}
	if latest := release.LatestTag(tags); latest != "" {
		return strings.TrimPrefix(latest, "v")
	}
	return "dev"
}
