// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseRepoDir parses a "dir[::remote]" argument as taken by the release
// commands. dir may be relative to the working directory and must be an
// existing directory. remote is trimmed and may be empty.
func ParseRepoDir(spec string) (dir, remote string, err error) {
	if spec == "" {
		return "", "", os.ErrInvalid
	}

	path, remote, _ := strings.Cut(spec, "::")
	remote, _, _ = strings.Cut(strings.TrimSpace(remote), "::")

	dir, err = filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%s: %w", dir, os.ErrInvalid)
	}

	return dir, remote, nil
}

// LooksLikeRepoDir reports whether arg can be passed to ParseRepoDir
// successfully. Flags never can.
func LooksLikeRepoDir(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	_, _, err := ParseRepoDir(arg)
	return err == nil
}
