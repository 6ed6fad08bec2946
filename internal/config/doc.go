// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for kili's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/kili.yaml or $HOME/.config/kili.yaml
//   - macOS: $HOME/Library/Application Support/kili.yaml
//   - Windows: %APPDATA%/kili.yaml
//
// KILI_CFG_FILE overrides the location.
package config
