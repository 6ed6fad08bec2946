// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package graphql is the HTTP transport to the labeling platform's GraphQL
// API. Requests are POSTed as {"query","variables"} JSON and the "data" member
// of the response is handed back as a gjson.Result so callers can pick fields
// without declaring a struct for every query shape.
//
// Read-only queries can go through Cached, a read-through layer on top of
// internal/cacheutil keyed by endpoint, query and variables.
package graphql
