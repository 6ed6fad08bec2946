// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/meta"
)

// QueryCommandBuilder constructs a cli.Command for the project subcommands
// using a consistent pattern. The builder wires metadata, adds the tldr and
// schema flags, the global output flags and, for commands that talk to the
// platform, the endpoint and api-key flags.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	// Local commands never reach the platform.
	Local bool
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, newTldrFlag(), newSchemaFlag())
	flags = append(flags, NewGlobalFlags(qcb.Name)...)
	if !qcb.Local {
		flags = append(flags,
			NewEndpointFlag("project", qcb.Meta.Config.Source),
			NewAPIKeyFlag("project", qcb.Meta.Config.Source),
		)
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
