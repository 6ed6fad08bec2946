// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kili-technology/kili-cli/internal/log"
)

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// sendBatches runs send for each chunk with at most s.Concurrency in flight
// and returns the number of items sent. The first error cancels the rest.
func sendBatches[T any](ctx context.Context, s *Service, items []T, size int,
	send func(ctx context.Context, batch []T) error) (int, error) {

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var sent atomic.Int64
	for i, batch := range Chunk(items, size) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := send(gctx, batch); err != nil {
				return err
			}
			sent.Add(int64(len(batch)))
			log.Debugf("batch %d: sent %d", i, len(batch))
			return nil
		})
	}

	err := g.Wait()
	return int(sent.Load()), err
}
