// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package kili models the labeling platform's projects, assets, labels and
// project members, and implements the operations behind "kili project".
// Every operation goes through a Transport, normally an
// *internal/graphql.Client, and reports failures through graphql.Friendly.
package kili
