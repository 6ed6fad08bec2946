// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Augmenter[T] customizes query options from command flags before the
// platform is called. Return an error to abort the query.
type Augmenter[T any] func(
	context.Context,
	*cli.Command,
	*T,
) error

// Augment applies each augmenter to opts in order.
func Augment[T any](ctx context.Context, cmd *cli.Command, opts *T, augmenters ...Augmenter[T]) error {
	for _, a := range augmenters {
		if a == nil {
			continue
		}
		if err := a(ctx, cmd, opts); err != nil {
			return err
		}
	}
	return nil
}
