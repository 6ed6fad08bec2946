// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package semver models release versions as major.minor.patch triples. Besides
// parsing and comparison it provides the padded ordinal form used by release
// tooling, where each component is printed with three digits and the result
// concatenated (1.12.3 becomes 001012003), so that integer and lexicographic
// ordering of ordinals both agree with version ordering.
package semver
