// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves the dotted attribute paths used by --attrs and
// --filter against API result rows.
package driller
