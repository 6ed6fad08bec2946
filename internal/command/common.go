// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/attrs"
	"github.com/kili-technology/kili-cli/internal/graphql"
	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/meta"
	"github.com/kili-technology/kili-cli/internal/output"
)

// promptAPIKey is swapped out by tests.
var promptAPIKey = func() (string, error) {
	return graphql.PromptAPIKey(os.Stdin, os.Stderr)
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, err
		}
	}
	al.SetGlobalTransformSpec()
	return al, nil
}

// DumpSchemaIfRequested writes the attr paths of t when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t, writer(cmd))
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewService builds a platform service from --endpoint and --api-key,
// prompting for the key when none was supplied.
func NewService(cmd *cli.Command) (*kili.Service, error) {
	key := cmd.String("api-key")
	if key == "" {
		log.Debug("no api key supplied, prompting")
		k, err := promptAPIKey()
		if err != nil && !errors.Is(err, graphql.ErrNoAPIKey) {
			return nil, err
		}
		key = k
	}

	client, err := graphql.NewClient(cmd.String("endpoint"), key)
	if errors.Is(err, graphql.ErrNoAPIKey) {
		return nil, graphql.Friendly(err, graphql.ErrorContext{Operation: cmd.FullName()})
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("endpoint: %s", client.Endpoint)
	return kili.New(client), nil
}

// requireProjectID returns --project-id or an error naming how to set it.
func requireProjectID(cmd *cli.Command) (string, error) {
	if id := cmd.String("project-id"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("a project id is required. Pass --project-id or set %s", EnvProjectID)
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr kili <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "kili", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// writer is where command output goes. It is the root command's Writer so
// tests can capture it.
func writer(cmd *cli.Command) io.Writer {
	if r := cmd.Root(); r != nil && r.Writer != nil {
		return r.Writer
	}
	return os.Stdout
}
