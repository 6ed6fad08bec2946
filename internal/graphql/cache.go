// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kili-technology/kili-cli/internal/cacheutil"
	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/log"
)

// CacheTTL bounds how old a cached response may be before Cached refetches.
var CacheTTL = 10 * time.Minute

// Cached is Do with a read-through disk cache. Use it only for queries. The
// cache is organized by endpoint host and the key covers the endpoint, the
// query text and the variables.
func (c *Client) Cached(ctx context.Context, query string, variables map[string]any) (gjson.Result, error) {
	PurgeCache()

	key := c.cacheKey(query, variables)
	if e, ok := cacheutil.Read(c.cacheDirs(), key, CacheTTL); ok {
		if r, err := decode(e.Data); err == nil {
			return r, nil
		}
	}

	body, err := c.post(ctx, query, variables)
	if err != nil {
		return gjson.Result{}, err
	}
	r, err := decode(body)
	if err != nil {
		return gjson.Result{}, err
	}

	if err := cacheutil.Write(c.cacheDirs(), key, body); err != nil {
		log.WithError(err).Warnf("failed to write response to cache")
	}
	return r, nil
}

// Invalidate drops every cached response for this endpoint. Mutations call it.
func (c *Client) Invalidate() {
	if err := cacheutil.Invalidate(c.cacheDirs()...); err != nil {
		log.WithError(err).Warnf("failed to invalidate cache")
	}
}

// PurgeCache removes entries older than cache.clean hours.
func PurgeCache() {
	hours, _ := config.GetInt("cache.clean")
	if err := cacheutil.Purge(hours); err != nil {
		log.WithError(err).Warnf("failed to purge cache")
	}
}

func (c *Client) cacheDirs() []string {
	return []string{c.Host()}
}

func (c *Client) cacheKey(query string, variables map[string]any) string {
	// Map keys marshal sorted, so equal variables give equal keys.
	v, _ := json.Marshal(variables)
	return c.Endpoint + "\n" + query + "\n" + string(v)
}
