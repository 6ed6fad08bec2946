// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/kili-technology/kili-cli/internal/graphql"
)

// Transport is the subset of *graphql.Client the service needs.
type Transport interface {
	Do(ctx context.Context, query string, variables map[string]any) (gjson.Result, error)
	Cached(ctx context.Context, query string, variables map[string]any) (gjson.Result, error)
	Invalidate()
	Host() string
}

const (
	// DefaultBatchSize is the number of assets or labels per mutation.
	DefaultBatchSize = 100
	// DefaultConcurrency bounds how many batches are in flight.
	DefaultConcurrency = 4
)

// Service runs platform operations over a Transport.
type Service struct {
	gql         Transport
	Concurrency int
}

// New returns a Service using t.
func New(t Transport) *Service {
	return &Service{gql: t, Concurrency: DefaultConcurrency}
}

func (s *Service) errCtx(projectID, operation, resource string) graphql.ErrorContext {
	return graphql.ErrorContext{
		Host:      s.gql.Host(),
		ProjectID: projectID,
		Operation: operation,
		Resource:  resource,
	}
}

// decodeInto unmarshals a gjson value into out.
func decodeInto(r gjson.Result, out any) error {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if err := json.Unmarshal([]byte(r.Raw), out); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}
