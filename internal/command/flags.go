// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/graphql"
)

// EnvProjectID feeds --project-id.
const EnvProjectID = "KILI_PROJECT_ID"

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newDryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "show what would be done without changing anything",
	}
}

// NewGlobalFlags returns the output shaping flags every listing command
// carries.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text output columns",
			Value: 2,
			Validator: func(value int) error {
				return FlagValidators(value, NonNegativeValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewEndpointFlag constructs the --endpoint flag. params are the config
// namespace and the config file; when both are given the file is consulted
// after the environment.
func NewEndpointFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "endpoint",
		Usage: "GraphQL endpoint of the labeling platform",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(graphql.EnvEndpoint),
		),
		Value: graphql.DefaultEndpoint,
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag, "api_endpoint")
	}

	return
}

// NewAPIKeyFlag constructs the --api-key flag. When nothing supplies a key
// the client prompts for one on a terminal.
func NewAPIKeyFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "api-key",
		Aliases: []string{"k"},
		Usage:   "API key. Prompted for when unset and stdin is a terminal",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(graphql.EnvAPIKey),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag, "api_key")
	}

	return
}

// NewProjectIDFlag constructs the --project-id flag. It is checked by the
// actions rather than marked required so --schema and --tldr work without it.
func NewProjectIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "project-id",
		Aliases: []string{"p"},
		Usage:   "project to operate on",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(EnvProjectID),
		),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. key overrides the flag name as
// the config key. Without a config file the flag is returned unchanged.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag, key ...string) *cli.StringFlag {
	if path == "" {
		return flag
	}

	name := flag.Name
	if len(key) > 0 && key[0] != "" {
		name = key[0]
	}

	src := yaml.YAML(ns+"."+name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
