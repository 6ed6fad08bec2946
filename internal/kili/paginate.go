// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"

	"github.com/kili-technology/kili-cli/internal/log"
)

// PageSize is the number of rows requested per page.
const PageSize = 100

// Paginate drives a first/skip API until a short page comes back or limit
// rows are collected. A limit <= 0 means no limit.
func Paginate[T any](
	ctx context.Context,
	limit int,
	fetch func(ctx context.Context, first, skip int) ([]T, error),
) ([]T, error) {
	var results []T

	for skip := 0; ; {
		first := PageSize
		if limit > 0 && limit-len(results) < first {
			first = limit - len(results)
		}

		items, err := fetch(ctx, first, skip)
		if err != nil {
			return nil, err
		}
		log.Tracef("page: first=%d skip=%d got=%d", first, skip, len(items))

		results = append(results, items...)
		skip += len(items)

		if len(items) < first || (limit > 0 && len(results) >= limit) {
			break
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
