// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// maxSchemaDepth limits how far nested structs are expanded.
const maxSchemaDepth = 1

// DumpSchema writes the sorted attr paths available for typ, which must be a
// struct or a pointer or slice of one. If w is nil, os.Stdout is used.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w, `Attributes available to the --attrs, --filter and --sort flags. Nested
attributes use dotted paths. For the full document use --output=raw.`)
	fmt.Fprintln(w, "")

	for _, p := range SchemaPaths(typ) {
		fmt.Fprintln(w, p)
	}
}

// SchemaPaths returns the sorted attr paths of typ derived from its json
// tags.
func SchemaPaths(typ reflect.Type) []string {
	for typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		log.Debugf("no schema for %s", typ)
		return nil
	}
	paths := schemaWalker("", typ, 0)
	sort.Strings(paths)
	return paths
}

func schemaWalker(holder string, typ reflect.Type, depth int) []string {
	var paths []string

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		// Exported fields of an unexported embedded struct are still promoted.
		if !field.IsExported() && (!field.Anonymous || ft.Kind() != reflect.Struct) {
			continue
		}

		// Embedded structs without a tag are promoted by encoding/json.
		tag, hasTag := field.Tag.Lookup("json")
		if field.Anonymous && !hasTag && ft.Kind() == reflect.Struct {
			paths = append(paths, schemaWalker(holder, ft, depth)...)
			continue
		}

		name := strings.Split(tag, ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		if holder != "" {
			name = holder + "." + name
		}
		paths = append(paths, name)

		if ft.Kind() == reflect.Struct && depth < maxSchemaDepth && ft.PkgPath() != "time" {
			paths = append(paths, schemaWalker(name, ft, depth+1)...)
		}
	}

	return paths
}
