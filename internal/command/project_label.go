// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/meta"
)

// projectLabelCommandAction imports labels or predictions for existing
// assets.
func projectLabelCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"project label",
		reflect.TypeOf(importResult{}),
		[]string{"projectId:project", "imported"},
		func(ctx context.Context, cmd *cli.Command) ([]importResult, error) {
			projectID, err := requireProjectID(cmd)
			if err != nil {
				return nil, err
			}
			if cmd.Args().Len() == 0 {
				return nil, fmt.Errorf("no label files given")
			}

			labelType, err := kili.ParseLabelType(cmd.String("label-type"))
			if err != nil {
				return nil, err
			}
			if cmd.Bool("prediction") {
				labelType = kili.LabelPrediction
			}

			inputs, err := readLabelInputs(cmd.Args().Slice())
			if err != nil {
				return nil, err
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			n, err := svc.ImportLabels(ctx, projectID, inputs, labelType, cmd.String("model-name"))
			if err != nil {
				return nil, err
			}
			return []importResult{{ProjectID: projectID, Imported: n}}, nil
		},
	).Run(ctx, cmd)
}

func projectLabelCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "label",
		Usage:     "import labels for existing assets",
		UsageText: "kili project label --project-id ID [--prediction --model-name NAME] FILES|CSV [options]",
		Flags: []cli.Flag{
			NewProjectIDFlag(),
			&cli.StringFlag{
				Name:  "label-type",
				Usage: fmt.Sprintf("one of %v", kili.LabelTypes),
				Value: string(kili.LabelDefault),
				Validator: func(value string) error {
					return FlagValidators(value, LabelTypeValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "prediction",
				Usage: "import as predictions, same as --label-type PREDICTION",
			},
			&cli.StringFlag{
				Name:  "model-name",
				Usage: "model that produced the labels, required for predictions",
			},
		},
		Action: projectLabelCommandAction,
		Meta:   meta,
	}).Build()
}
