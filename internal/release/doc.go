// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package release implements release plumbing: reading and rewriting the
// version literal in packaging manifests, ordering release tags, locating the
// previous release, collecting release notes and creating release tags through
// the git binary.
package release
