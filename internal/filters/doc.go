// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters implements --filter, the client-side row selection applied
// to API results before they are rendered.
//
// A spec is a comma-delimited list (KILI_FILTER_DELIM overrides the
// delimiter) of key, operator and target. Keys match an attr's output key.
// Operators, each negatable with a leading !:
//
//   - = : equality (numeric when both sides are numbers)
//   - ~ : case-insensitive equality
//   - ^ : prefix
//   - < and > : ordering (numeric when both sides are numbers)
//   - @ : substring, or membership for arrays and objects
//   - / : regular expression
//
// Keys prefixed with _ are server-side filters. They are skipped here and
// handed to the command through ServerSide so it can put them in the query.
//
// Examples:
//
//   - "inputType=IMAGE"
//   - "title~cats"
//   - "assets>100"
//   - "email!@example.com"
//   - "_search=cats"
package filters
