// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer answers every request with handler and records the decoded body.
func newServer(t *testing.T, handler func(w http.ResponseWriter, req request)) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "X-API-Key: secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api/label/v2/graphql", "secret")
	require.NoError(t, err)
	return c, &hits
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("", "  key ")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, "key", c.APIKey)
	assert.Equal(t, "cloud.kili-technology.com", c.Host())

	_, err = NewClient("", "")
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	_, err = NewClient("not a url", "key")
	assert.Error(t, err)
}

func TestDo_ReturnsData(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, req request) {
		assert.Contains(t, req.Query, "projects")
		assert.Equal(t, float64(10), req.Variables["first"])
		_, _ = w.Write([]byte(`{"data":{"data":[{"id":"p1","title":"Cats"}]}}`))
	})

	r, err := c.Do(context.Background(), "query($first:Int){ projects }", map[string]any{"first": 10})
	require.NoError(t, err)
	assert.Equal(t, "Cats", r.Get("data.0.title").String())
}

func TestDo_GraphQLErrors(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, _ request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Project not found"},{"message":"second"}]}`))
	})

	_, err := c.Do(context.Background(), "query { x }", nil)
	require.Error(t, err)

	var gqlErr *Error
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, []string{"Project not found", "second"}, gqlErr.Messages)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestDo_StatusErrors(t *testing.T) {
	big := make([]byte, 3*maxErrorBodySize)
	for i := range big {
		big[i] = 'x'
	}

	tests := []struct {
		name   string
		code   int
		body   []byte
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, []byte("bad key"), ErrUnauthorized},
		{"forbidden", http.StatusForbidden, []byte("nope"), ErrUnauthorized},
		{"not found", http.StatusNotFound, []byte("gone"), ErrNotFound},
		{"server error truncated", http.StatusInternalServerError, big, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, func(w http.ResponseWriter, _ request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write(tt.body)
			})

			_, err := c.Do(context.Background(), "query { x }", nil)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.LessOrEqual(t, len(se.Body), maxErrorBodySize)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
		})
	}
}

func TestDo_InvalidJSON(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, _ request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Do(context.Background(), "query { x }", nil)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestCached(t *testing.T) {
	t.Setenv("KILI_CACHE_DIR", t.TempDir())
	t.Setenv("KILI_CACHE", "1")

	c, hits := newServer(t, func(w http.ResponseWriter, _ request) {
		_, _ = w.Write([]byte(`{"data":{"count":3}}`))
	})
	ctx := context.Background()

	for range 3 {
		r, err := c.Cached(ctx, "query { count }", map[string]any{"id": "p1"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), r.Get("count").Int())
	}
	assert.Equal(t, int32(1), hits.Load())

	_, err := c.Cached(ctx, "query { count }", map[string]any{"id": "p2"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	c.Invalidate()
	_, err = c.Cached(ctx, "query { count }", map[string]any{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	t.Setenv("KILI_CACHE_DIR", t.TempDir())
	t.Setenv("KILI_CACHE", "1")

	c, hits := newServer(t, func(w http.ResponseWriter, _ request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
	})

	for range 2 {
		_, err := c.Cached(context.Background(), "query { x }", nil)
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}
