// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/filters"
	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/meta"
)

var (
	projectDefaultAttrs  = []string{"id", "title", "inputType:type", "numberOfAssets:assets", "createdAt:created"}
	describeDefaultAttrs = []string{"id", "title", "inputType:type", "assetCount:assets",
		"labelCount:labels", "memberCount:members", "archived"}
)

// projectCommandBuilder constructs the "project" command group.
func projectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "manage labeling projects",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			projectCreateCommandBuilder(meta),
			projectListCommandBuilder(meta),
			projectDescribeCommandBuilder(meta),
			projectImportCommandBuilder(meta),
			projectLabelCommandBuilder(meta),
			projectMemberCommandBuilder(meta),
		},
	}
}

// projectCreateCommandAction creates a project from a JSON interface file.
func projectCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"project create",
		reflect.TypeOf(kili.Project{}),
		[]string{"id", "title", "inputType:type"},
		func(ctx context.Context, cmd *cli.Command) ([]kili.Project, error) {
			if cmd.String("interface") == "" {
				return nil, fmt.Errorf("--interface is required")
			}
			iface, err := kili.ReadInterface(cmd.String("interface"))
			if err != nil {
				return nil, err
			}
			it, err := kili.ParseInputType(cmd.String("input-type"))
			if err != nil {
				return nil, err
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			p, err := svc.CreateProject(ctx, kili.ProjectInput{
				Title:       cmd.String("title"),
				Description: cmd.String("description"),
				InputType:   it,
				Interface:   iface,
			})
			if err != nil {
				return nil, err
			}
			return []kili.Project{p}, nil
		},
	).Run(ctx, cmd)
}

func projectCreateCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "create",
		Usage:     "create a project",
		UsageText: "kili project create --title TITLE --input-type TYPE --interface FILE [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "project title",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "project description",
			},
			&cli.StringFlag{
				Name:  "input-type",
				Usage: fmt.Sprintf("asset type, one of %v", kili.InputTypes),
				Value: string(kili.InputImage),
				Validator: func(value string) error {
					return FlagValidators(value, InputTypeValidator)
				},
			},
			&cli.StringFlag{
				Name:      "interface",
				Aliases:   []string{"i"},
				Usage:     "JSON file describing the labeling interface",
				TakesFile: true,
			},
		},
		Action: projectCreateCommandAction,
		Meta:   meta,
	}).Build()
}

// projectListCommandAction lists the projects visible to the API key.
func projectListCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "project"

	return NewQueryActionRunner(
		"project list",
		reflect.TypeOf(kili.Project{}),
		projectDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]kili.Project, error) {
			var filter kili.ProjectFilter
			if err := Augment(ctx, cmd, &filter, projectServerSideFilterAugmenter); err != nil {
				return nil, err
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			return svc.ListProjects(ctx, filter, cmd.Int("max"))
		},
	).Run(ctx, cmd)
}

// projectServerSideFilterAugmenter moves --query and the _-prefixed filters
// into the project query itself.
func projectServerSideFilterAugmenter(
	_ context.Context,
	cmd *cli.Command,
	filter *kili.ProjectFilter,
) error {
	filter.Search = cmd.String("query")

	for key, value := range filters.ServerSide(cmd.String("filter")) {
		switch key {
		case "id":
			filter.ID = value
		case "search", "title":
			filter.Search = value
		case "archived":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid _archived filter %q: %w", value, err)
			}
			filter.Archived = &b
		default:
			return fmt.Errorf("unsupported server-side filter _%s", key)
		}
	}

	log.Debugf("filter after augmentation: %+v", filter)
	return nil
}

func projectListCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "list",
		Usage:     "list projects",
		UsageText: "kili project list [--max N] [--query TEXT] [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max",
				Aliases: []string{"m"},
				Usage:   "maximum number of projects to return, 0 for all",
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "only projects whose title matches",
			},
		},
		Action: projectListCommandAction,
		Meta:   meta,
	}).Build()
}

// projectDescribeCommandAction shows one project with its counts.
func projectDescribeCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"project describe",
		reflect.TypeOf(kili.ProjectDescription{}),
		describeDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]kili.ProjectDescription, error) {
			id := cmd.Args().First()
			if id == "" {
				var err error
				if id, err = requireProjectID(cmd); err != nil {
					return nil, err
				}
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			d, err := svc.DescribeProject(ctx, id)
			if err != nil {
				return nil, err
			}
			return []kili.ProjectDescription{d}, nil
		},
	).Run(ctx, cmd)
}

func projectDescribeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "describe",
		Usage:     "describe a project",
		UsageText: "kili project describe PROJECT_ID [options]",
		Flags:     []cli.Flag{NewProjectIDFlag()},
		Action:    projectDescribeCommandAction,
		Meta:      meta,
	}).Build()
}
