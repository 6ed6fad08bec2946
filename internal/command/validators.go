// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/filters"
	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/semver"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects global flag combinations no command can honor.
// Server-side (_) filters need a remote query to narrow.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("schema") && c.Bool("tldr") {
		return fmt.Errorf("--schema and --tldr are mutually exclusive")
	}
	if len(filters.ServerSide(c.String("filter"))) > 0 && !slices.ContainsFunc(c.Flags, func(f cli.Flag) bool {
		return slices.Contains(f.Names(), "endpoint")
	}) {
		return fmt.Errorf("%s does not support server-side (_) filters", c.FullName())
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if s, ok := value.(string); !ok || !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if n, ok := value.(int); !ok || n < 0 {
		return fmt.Errorf("must be zero or more")
	}
	return nil
}

func PositiveValidator(value any) error {
	if n, ok := value.(int); !ok || n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func RoleValidator(value any) error {
	s, _ := value.(string)
	_, err := kili.ParseRole(s)
	return err
}

func InputTypeValidator(value any) error {
	s, _ := value.(string)
	_, err := kili.ParseInputType(s)
	return err
}

func LabelTypeValidator(value any) error {
	s, _ := value.(string)
	_, err := kili.ParseLabelType(s)
	return err
}

func PartValidator(value any) error {
	s, _ := value.(string)
	_, err := semver.ParsePart(s)
	return err
}
