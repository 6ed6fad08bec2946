// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package kili

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

var opName = regexp.MustCompile(`^\s*(?:query|mutation)\s+(\w+)`)

type call struct {
	op   string
	vars map[string]any
}

// fakeTransport answers GraphQL operations by name. Handlers return the JSON
// of the data member.
type fakeTransport struct {
	t           *testing.T
	mu          sync.Mutex
	handlers    map[string]func(vars map[string]any) (string, error)
	calls       []call
	invalidated int
}

func newFake(t *testing.T) *fakeTransport {
	return &fakeTransport{t: t, handlers: map[string]func(map[string]any) (string, error){}}
}

func (f *fakeTransport) on(op string, h func(vars map[string]any) (string, error)) *fakeTransport {
	f.handlers[op] = h
	return f
}

func (f *fakeTransport) Do(_ context.Context, query string, vars map[string]any) (gjson.Result, error) {
	m := opName.FindStringSubmatch(query)
	if m == nil {
		f.t.Fatalf("unnamed operation: %s", query)
	}

	// Round-trip the variables so handlers see what the server would.
	b, err := json.Marshal(vars)
	if err != nil {
		return gjson.Result{}, err
	}
	var decoded map[string]any
	_ = json.Unmarshal(b, &decoded)

	f.mu.Lock()
	f.calls = append(f.calls, call{op: m[1], vars: decoded})
	h, ok := f.handlers[m[1]]
	f.mu.Unlock()
	if !ok {
		return gjson.Result{}, fmt.Errorf("no handler for %s", m[1])
	}

	data, err := h(decoded)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.Parse(data), nil
}

func (f *fakeTransport) Cached(ctx context.Context, query string, vars map[string]any) (gjson.Result, error) {
	return f.Do(ctx, query, vars)
}

func (f *fakeTransport) Invalidate() {
	f.mu.Lock()
	f.invalidated++
	f.mu.Unlock()
}

func (f *fakeTransport) Host() string { return "kili.test" }

func (f *fakeTransport) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeTransport) callsTo(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// projectOf answers the projects query with one project of the given type.
func projectOf(inputType InputType) func(map[string]any) (string, error) {
	return func(map[string]any) (string, error) {
		return mustJSON(map[string]any{"data": []Project{{ID: "p1", Title: "Cats", InputType: inputType}}}), nil
	}
}

// assetsOf pages through the given external ids.
func assetsOf(externalIDs ...string) func(map[string]any) (string, error) {
	return func(vars map[string]any) (string, error) {
		first := int(vars["first"].(float64))
		skip := int(vars["skip"].(float64))
		var page []Asset
		for i := skip; i < len(externalIDs) && i < skip+first; i++ {
			page = append(page, Asset{ID: "a-" + externalIDs[i], ExternalID: externalIDs[i]})
		}
		return mustJSON(map[string]any{"data": page}), nil
	}
}
