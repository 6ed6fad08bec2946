// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output shapes API results for the terminal: it filters rows,
// applies attr transforms, sorts, and renders text tables, JSON, YAML or the
// raw document.
package output
