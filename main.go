// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kili-technology/kili-cli/internal/cacheutil"
	"github.com/kili-technology/kili-cli/internal/command"
	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/version"
)

var ctx = context.Background()

// boolFlags never take a separate value, so a positional argument after one
// of them is left alone by deduplicateFlags.
var boolFlags = map[string]bool{
	"c": true, "color": true,
	"commit":  true,
	"dry-run": true,
	"force":   true,
	"h":       true, "help": true,
	"l": true, "local": true,
	"prediction": true,
	"push":       true,
	"schema":     true,
	"t":          true, "titles": true,
	"tag":  true,
	"tldr": true,
	"v":    true, "version": true,
}

// sliceFlags accumulate one value per occurrence and are never de-duplicated.
var sliceFlags = map[string]bool{
	"external-id-array": true,
	"file":              true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = deduplicateFlags(args)
		log.Debugf("args after dedup: args=%v", args)
		return args
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument in place with the entries of the
// <group>.<set> string slice in the config.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	// Look for an explicit @set argument starting from index 2.
	idx := 2
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			removeIdx := idx + i
			key := args[1] + "." + a[1:]
			args = append(args[:removeIdx:removeIdx], args[removeIdx+1:]...)
			return injectConfigSet(args, key, removeIdx)
		}
	}
	return args
}

// injectConfigSet splices the whitespace-split entries of the config string
// slice key into args at insertIdx.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key)
	if err != nil {
		log.Debugf("no config set %s: %v", key, err)
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}
	if len(expanded) == 0 {
		return args
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags drops every occurrence of a repeated flag but the last,
// together with its value. Slice flags keep every occurrence. A flag followed by a token that is not a flag
// takes that token as its value unless it is a known boolean. --a=x and
// --a x name the same flag. Everything after "--" is kept verbatim.
func deduplicateFlags(args []string) []string {
	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			groups = append(groups, group{tokens: args[i:]})
			break
		}
		if len(a) < 2 || !strings.HasPrefix(a, "-") || i == 0 {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		g := group{name: name, tokens: []string{a}}
		if !hasValue && !boolFlags[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			g.tokens = append(g.tokens, args[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := make([]string, 0, len(args))
	for i, g := range groups {
		if g.name != "" && !sliceFlags[g.name] && last[g.name] != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
