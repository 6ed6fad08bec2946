// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kili-technology/kili-cli/internal/log"
)

const (
	// DefaultEndpoint is used when no flag, env var or config value names one.
	DefaultEndpoint = "https://cloud.kili-technology.com/api/label/v2/graphql"

	// EnvAPIKey and EnvEndpoint feed the --api-key and --endpoint flags.
	EnvAPIKey   = "KILI_API_KEY"
	EnvEndpoint = "KILI_API_ENDPOINT"

	// maxErrorBodySize limits how much of a failed response ends up in the
	// error text.
	maxErrorBodySize = 4096

	defaultTimeout = 60 * time.Second
)

// Client talks to one GraphQL endpoint with one API key.
type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

// NewClient returns a client for endpoint, falling back to DefaultEndpoint.
// An empty apiKey is rejected with ErrNoAPIKey.
func NewClient(endpoint, apiKey string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}

	return &Client{
		Endpoint: endpoint,
		APIKey:   strings.TrimSpace(apiKey),
		HTTP:     &http.Client{Timeout: defaultTimeout},
	}, nil
}

// Host returns the endpoint host. It names the cache subdirectory and shows
// up in error messages.
func (c *Client) Host() string {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return c.Endpoint
	}
	return u.Host
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Do executes query with variables and returns the "data" member.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any) (gjson.Result, error) {
	body, err := c.post(ctx, query, variables)
	if err != nil {
		return gjson.Result{}, err
	}
	return decode(body)
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "X-API-Key: "+c.APIKey)

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}

	log.Debugf("graphql POST %s (%d bytes)", c.Endpoint, len(payload))
	start := time.Now()
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	log.Debugf("graphql %d in %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return b, nil
}

// decode validates a response document and returns its data member.
func decode(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("decode response: invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if errs := doc.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		e := &Error{}
		for _, m := range errs.Array() {
			e.Messages = append(e.Messages, m.Get("message").String())
		}
		return gjson.Result{}, e
	}

	return doc.Get("data"), nil
}
