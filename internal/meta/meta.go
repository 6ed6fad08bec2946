// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/kili-technology/kili-cli/internal/config"
)

// RepoDirSpec is the repository the release commands operate on and the
// remote they push to when one was given as dir::remote.
type RepoDirSpec struct {
	RepoDir string
	Remote  string
	// Spec is the argument both were parsed from, empty when RepoDir is the
	// starting directory.
	Spec string
}

// Meta contains runtime metadata shared by commands: the CLI arguments, the
// loaded configuration, the resolved repository and the starting working
// directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RepoDirSpec
	StartingDir string
}
