// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kili-technology/kili-cli/internal/log"
)

// Attr is one column of output. Key is a dotted path into each result row
// (see internal/driller); OutputKey names the column.
type Attr struct {
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that only exist for filtering and sorting.
	Include   bool   `yaml:"include" json:"Include"`
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec letters: t local time, T time ago, c thousands separators,
	// l/u case, and a signed width (negative elides the middle).
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

var widthRegex = regexp.MustCompile(`-?\d+`)

// Transform applies the attribute's transform spec to a value.
func (a *Attr) Transform(value any) any {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	if n, ok := value.(float64); ok {
		if strings.Contains(spec, "c") {
			log.Tracef("comma: value=%v", n)
			return humanize.Comma(int64(n))
		}
		return value
	}

	s, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(spec, "tT") {
		s = transformTime(s, strings.Contains(spec, "T"))
	}
	s = transformCase(s, spec)
	return transformWidth(s, spec)
}

// transformTime renders an RFC3339 timestamp in local time or as time ago.
// Values that do not parse are returned unchanged.
func transformTime(s string, ago bool) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	if ago {
		return humanize.Time(t)
	}
	return t.In(time.Local).Format("2006-01-02T15:04:05MST")
}

// transformCase applies whichever of l or u appears last in spec, so an
// attr's own spec overrides a global one prepended to it.
func transformCase(s, spec string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

// transformWidth truncates s to the last width in spec. A negative width
// keeps both ends and joins them with "..".
func transformWidth(s, spec string) string {
	m := widthRegex.FindAllString(spec, -1)
	if len(m) == 0 {
		return s
	}
	w, _ := strconv.Atoi(m[len(m)-1])
	abs := w
	if abs < 0 {
		abs = -abs
	}
	if len(s) <= abs {
		return s
	}
	if w >= 0 {
		return s[:w]
	}
	side := max(abs/2-1, 0)
	return s[:side] + ".." + s[len(s)-side:]
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma-separated --attrs spec. Each entry is
// key[:outputKey[:transform]]. A leading ! keeps the attr out of the output
// and * carries a global transform. Entries naming an existing attr update it.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q", spec)
		}

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		// A leading dot is accepted for compatibility with gjson-style paths.
		attr.Key = strings.TrimPrefix(attr.Key, ".")
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}
		log.Tracef("attr parsed: %+v", attr)

		if i := a.index(attr.Key); i >= 0 {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			continue
		}
		*a = append(*a, attr)
	}

	return nil
}

func (a AttrList) index(key string) int {
	for i := range a {
		if a[i].Key == key || a[i].OutputKey == key {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the * attr's transform to every attr.
func (a *AttrList) SetGlobalTransformSpec() {
	i := a.index("*")
	if i < 0 || (*a)[i].TransformSpec == "" {
		return
	}
	spec := (*a)[i].TransformSpec
	log.Debugf("global transform: %s", spec)
	for j := range *a {
		(*a)[j].TransformSpec = spec + "," + (*a)[j].TransformSpec
	}
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	parts := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != "*" {
			key = "!" + key
		}
		parts = append(parts, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(parts, ",")
}
