// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/meta"
	"github.com/kili-technology/kili-cli/internal/util"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the kili command
	// group and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load() //nolint
	cfg.Namespace = ns
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}
	meta.RepoDir = sd

	// Release commands take an optional RepoDir[::remote] right after the
	// subcommand. Anything that is not an existing directory is left for the
	// command, e.g. a VERSION argument.
	if ns == "release" && len(args) > 3 && util.LooksLikeRepoDir(args[3]) {
		dir, remote, err := util.ParseRepoDir(args[3])
		if err != nil {
			return nil, fmt.Errorf("failed to parse RepoDir (%s): %w", args[3], err)
		}
		meta.RepoDir = dir
		meta.Remote = remote
		meta.Spec = args[3]
	}

	app := &cli.Command{
		Name:  "kili",
		Usage: "Kili labeling platform and release tooling",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "kili version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		projectCommandBuilder(meta),
		releaseCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
