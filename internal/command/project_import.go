// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/aws"
	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/meta"
)

// importResult reports what an import sent to a project.
type importResult struct {
	ProjectID string `json:"projectId"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
}

var importDefaultAttrs = []string{"projectId:project", "imported", "skipped"}

// projectImportCommandAction imports assets from files, URLs or CSV lists.
func projectImportCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"project import",
		reflect.TypeOf(importResult{}),
		importDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]importResult, error) {
			projectID, err := requireProjectID(cmd)
			if err != nil {
				return nil, err
			}
			if cmd.Args().Len() == 0 {
				return nil, fmt.Errorf("nothing to import")
			}

			inputs, err := readAssetInputs(cmd.Args().Slice(), cmd.StringSlice("external-id-array"))
			if err != nil {
				return nil, err
			}
			if inputs, err = expandS3Inputs(ctx, cmd, inputs); err != nil {
				return nil, err
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			n, err := svc.ImportAssets(ctx, projectID, inputs, kili.ImportOptions{
				BatchSize: cmd.Int("batch-size"),
				Force:     cmd.Bool("force"),
			})
			if err != nil {
				return nil, err
			}
			return []importResult{{ProjectID: projectID, Imported: n, Skipped: len(inputs) - n}}, nil
		},
	).Run(ctx, cmd)
}

func projectImportCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "import",
		Usage:     "import assets into a project",
		UsageText: "kili project import --project-id ID [--external-id-array IDS] [--force] FILES|URLS|CSV [options]",
		Flags: []cli.Flag{
			NewProjectIDFlag(),
			&cli.StringSliceFlag{
				Name:  "external-id-array",
				Usage: "external ids, in the order of the file or URL arguments",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "import assets whose external id already exists",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "assets per request",
				Value: kili.DefaultBatchSize,
				Validator: func(value int) error {
					return FlagValidators(value, PositiveValidator)
				},
			},
			NameSpacedValueChainFlagFromConfigFile("project", meta.Config.Source, &cli.StringFlag{
				Name:  "aws-profile",
				Usage: "shared config profile used to presign s3:// assets",
			}, "aws_profile"),
			NameSpacedValueChainFlagFromConfigFile("project", meta.Config.Source, &cli.StringFlag{
				Name:  "aws-region",
				Usage: "region of the s3:// asset buckets",
			}, "aws_region"),
			NameSpacedValueChainFlagFromConfigFile("project", meta.Config.Source, &cli.StringFlag{
				Name:  "s3-endpoint",
				Usage: "S3-compatible endpoint for s3:// assets",
			}, "s3_endpoint"),
			&cli.DurationFlag{
				Name:  "presign-ttl",
				Usage: "validity of presigned s3:// asset URLs",
				Value: aws.DefaultPresignTTL,
			},
		},
		Action: projectImportCommandAction,
		Meta:   meta,
	}).Build()
}

// s3Expander resolves s3:// asset locations to fetchable URLs.
type s3Expander interface {
	Expand(ctx context.Context, uri string) ([]aws.Object, error)
}

// newS3Expander is swapped out by tests.
var newS3Expander = func(ctx context.Context, cmd *cli.Command) (s3Expander, error) {
	var opts []aws.Option
	if p := cmd.String("aws-profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("aws-region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	if e := cmd.String("s3-endpoint"); e != "" {
		opts = append(opts, aws.WithEndpoint(e))
	}
	return aws.NewExpander(ctx, cmd.Duration("presign-ttl"), opts...)
}

// expandS3Inputs replaces s3:// inputs with presigned URLs. A prefix becomes
// one asset per object, named by its key below the prefix.
func expandS3Inputs(ctx context.Context, cmd *cli.Command, inputs []kili.AssetInput) ([]kili.AssetInput, error) {
	var exp s3Expander
	out := make([]kili.AssetInput, 0, len(inputs))

	for _, in := range inputs {
		if !aws.IsS3URL(in.Content) {
			out = append(out, in)
			continue
		}

		if exp == nil {
			var err error
			if exp, err = newS3Expander(ctx, cmd); err != nil {
				return nil, err
			}
		}

		objects, err := exp.Expand(ctx, in.Content)
		if err != nil {
			return nil, err
		}
		if in.ExternalID != "" && len(objects) > 1 {
			return nil, fmt.Errorf("external id %s given for %s, which holds %d objects",
				in.ExternalID, in.Content, len(objects))
		}
		for _, o := range objects {
			id := in.ExternalID
			if id == "" {
				id = o.Name
			}
			out = append(out, kili.AssetInput{ExternalID: id, Content: o.URL})
		}
		log.Debugf("%s expanded to %d assets", in.Content, len(objects))
	}

	return out, nil
}
