// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNoAPIKey     = errors.New("no API key")
)

// StatusError is returned for non-200 responses. Body is truncated.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// Is lets errors.Is match 401/403 against ErrUnauthorized and 404 against
// ErrNotFound.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// Error carries every message of a GraphQL errors[] array.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// Is maps well-known server messages onto the package sentinels.
func (e *Error) Is(target error) bool {
	for _, m := range e.Messages {
		lm := strings.ToLower(m)
		switch target {
		case ErrUnauthorized:
			if strings.Contains(lm, "unauthorized") || strings.Contains(lm, "api key") ||
				strings.Contains(lm, "not authenticated") {
				return true
			}
		case ErrNotFound:
			if strings.Contains(lm, "not found") || strings.Contains(lm, "does not exist") {
				return true
			}
		}
	}
	return false
}

// ErrorContext carries input context for improving API error messages.
type ErrorContext struct {
	Host      string
	ProjectID string
	Operation string // e.g., "list projects", "import assets"
	Resource  string // e.g., "project", "member"
}

// Friendly wraps an API error with a contextual, user-friendly message while
// preserving the original error for errors.Is/As.
func Friendly(err error, ctx ErrorContext) error {
	if err == nil {
		return nil
	}

	op := nonEmpty(ctx.Operation, "request")
	host := nonEmpty(ctx.Host, "<unknown>")

	switch {
	case errors.Is(err, ErrNoAPIKey):
		return fmt.Errorf("%s: no API key. Set %s, api_key in the config file or pass --api-key: %w",
			op, EnvAPIKey, err)

	case errors.Is(err, ErrUnauthorized):
		return fmt.Errorf("%s on %s: authentication failed. Check %s: %w",
			op, host, EnvAPIKey, err)

	case errors.Is(err, ErrNotFound):
		if ctx.ProjectID != "" {
			return fmt.Errorf("%s: %s not found in project %q on %s: %w",
				op, nonEmpty(ctx.Resource, "project"), ctx.ProjectID, host, err)
		}
		return fmt.Errorf("%s: %s not found on %s: %w",
			op, nonEmpty(ctx.Resource, "resource"), host, err)
	}

	if ctx.ProjectID != "" {
		return fmt.Errorf("%s on %s for project=%q: %w", op, host, ctx.ProjectID, err)
	}
	return fmt.Errorf("%s on %s: %w", op, host, err)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
