// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/kili-technology/kili-cli/internal/attrs"
	"github.com/kili-technology/kili-cli/internal/driller"
)

// EnvDelim overrides the "," between filter expressions.
const EnvDelim = "KILI_FILTER_DELIM"

// filterRegex splits an expression into server-side marker, key, operator
// (with optional negation) and target.
var filterRegex = regexp.MustCompile(`^(_)?([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key        string `yaml:"key" json:"Key"`
	Negate     bool   `yaml:"negate" json:"Negate"`
	Operand    string `yaml:"operand" json:"Operand"`
	ServerSide bool   `yaml:"serverSide" json:"ServerSide"`
	Value      string `yaml:"value" json:"Value"`
}

// BuildFilters parses spec. Expressions with an empty key are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	var filters []Filter
	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		key := ""
		if parts != nil {
			key = strings.TrimSpace(parts[2])
		}
		if key == "" {
			log.Errorf("invalid filter: %s", expr)
			continue
		}

		op := parts[3]
		negate := strings.HasPrefix(op, "!")
		filters = append(filters, Filter{
			Key:        key,
			Negate:     negate,
			Operand:    strings.TrimPrefix(op, "!"),
			ServerSide: parts[1] == "_",
			Value:      parts[4],
		})
	}

	return filters
}

// ServerSide returns the _-prefixed filters of spec as key/value pairs for
// the command to translate into query variables.
func ServerSide(spec string) map[string]string {
	out := map[string]string{}
	for _, f := range BuildFilters(spec) {
		if f.ServerSide {
			out[f.Key] = f.Value
		}
	}
	return out
}

// FilterDataset returns the rows of candidates matching every client-side
// filter in spec, each reduced to the attrs in al keyed by output key.
// Transforms are left to the caller.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]any {
	filters := BuildFilters(spec)
	keys := resolveKeys(filters, al)

	var rows []map[string]any
	for _, candidate := range candidates.Array() {
		if !matchAll(candidate, filters, keys) {
			continue
		}
		row := make(map[string]any, len(al))
		for _, a := range al {
			row[a.OutputKey] = driller.Driller(candidate.Raw, a.Key).Value()
		}
		rows = append(rows, row)
	}
	return rows
}

// resolveKeys maps each filter's output key to the attr path it reads.
// Unknown keys are reported once and ignored.
func resolveKeys(filters []Filter, al attrs.AttrList) map[string]string {
	keys := map[string]string{}
	for _, f := range filters {
		if f.ServerSide {
			continue
		}
		for _, a := range al {
			if a.OutputKey == f.Key {
				keys[f.Key] = a.Key
				break
			}
		}
		if _, ok := keys[f.Key]; !ok {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
	}
	return keys
}

func matchAll(candidate gjson.Result, filters []Filter, keys map[string]string) bool {
	for _, f := range filters {
		path, ok := keys[f.Key]
		if f.ServerSide || !ok {
			continue
		}
		value := driller.Driller(candidate.Raw, path).Value()
		if value == nil || !f.Match(value) {
			return false
		}
	}
	return true
}

// Match reports whether value satisfies the filter.
func (f Filter) Match(value any) bool {
	switch v := value.(type) {
	case string:
		return f.matchString(v)
	case bool:
		return f.matchString(strconv.FormatBool(v))
	case float64:
		return f.matchNumber(v)
	case []any, map[string]any:
		return f.matchContains(v)
	}
	log.Errorf("unsupported type for filtering: %T", value)
	return false
}

// matchContains handles @ against arrays (element equality) and objects
// (key presence).
func (f Filter) matchContains(value any) bool {
	if f.Operand != "@" {
		log.Errorf("operand %q not supported on collections", f.Operand)
		return false
	}
	found := false
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if fmt.Sprint(item) == f.Value {
				found = true
				break
			}
		}
	case map[string]any:
		_, found = v[f.Value]
	}
	return found != f.Negate
}

// matchNumber compares numerically when the target parses as a number and
// falls back to string semantics otherwise.
func (f Filter) matchNumber(value float64) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return f.matchString(strconv.FormatFloat(value, 'f', -1, 64))
	}

	var ok bool
	switch f.Operand {
	case "=", "~":
		ok = value == tgt
	case ">":
		ok = value > tgt
	case "<":
		ok = value < tgt
	default:
		return f.matchString(strconv.FormatFloat(value, 'f', -1, 64))
	}
	return ok != f.Negate
}

func (f Filter) matchString(value string) bool {
	var ok bool
	switch f.Operand {
	case "=":
		ok = value == f.Value
	case "~":
		ok = strings.EqualFold(value, f.Value)
	case "^":
		ok = strings.HasPrefix(value, f.Value)
	case ">":
		ok = value > f.Value
	case "<":
		ok = value < f.Value
	case "@":
		ok = strings.Contains(value, f.Value)
	case "/":
		re, err := regexp.Compile(f.Value)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Value)
			return false
		}
		ok = re.MatchString(value)
	case "":
		// A bare key keeps rows where the value is present.
		ok = value != ""
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
	return ok != f.Negate
}
