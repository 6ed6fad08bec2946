// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key with an optional [n] or [*].
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// Driller navigates JSON along a dotted path. A segment naming an array
// without an index unwraps single-element arrays and otherwise yields the
// whole array, as does [*]. [n] selects one element. Invalid segments and
// out-of-range indexes yield an empty result.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)
	if path == "" {
		return current
	}

	for _, seg := range strings.Split(path, ".") {
		m := segmentRegex.FindStringSubmatch(seg)
		if m == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(m[1]))
		if !val.IsArray() {
			current = val
			continue
		}

		arr := val.Array()
		switch idx := m[3]; idx {
		case "":
			if len(arr) == 1 {
				val = arr[0]
			}
		case "*":
		default:
			i, err := strconv.Atoi(idx)
			if err != nil || i >= len(arr) {
				return gjson.Result{}
			}
			val = arr[i]
		}
		current = val
	}

	return current
}
