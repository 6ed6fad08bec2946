// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// sortKey is one comma-separated entry of a --sort spec. A leading - sorts
// descending and a leading ! compares strings case-sensitively.
type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		k := sortKey{}
		if strings.HasPrefix(f, "-") {
			k.descending = true
			f = f[1:]
		}
		if strings.HasPrefix(f, "!") {
			k.caseSensitive = true
			f = f[1:]
		}
		if f == "" {
			continue
		}
		k.field = f
		keys = append(keys, k)
	}
	return keys
}

// SortDataset stably sorts rows by the output keys named in spec. Numbers
// compare numerically, everything else as strings.
func SortDataset(rows []map[string]any, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.field], rows[j][k.field], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b any, caseSensitive bool) int {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	sa, sb := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	return strings.Compare(sa, sb)
}
