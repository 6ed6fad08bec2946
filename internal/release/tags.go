// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"fmt"
	"sort"

	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/semver"
)

// taggedVersion pairs a tag as it appears in the repository with its parsed
// version.
type taggedVersion struct {
	tag     string
	version semver.Version
}

// SortTags returns the release tags in ascending version order, the way
// `sort -V` orders them. Tags that do not parse as a release version are
// dropped. When several tags name the same version (e.g. "1.2.0" and
// "v1.2.0"), the first one seen is kept.
func SortTags(tags []string) []string {
	sorted := sortTagged(tags)
	out := make([]string, 0, len(sorted))
	for _, tv := range sorted {
		out = append(out, tv.tag)
	}
	return out
}

// LatestTag returns the highest release tag, or "" when there is none.
func LatestTag(tags []string) string {
	sorted := SortTags(tags)
	if len(sorted) == 0 {
		return ""
	}
	return sorted[len(sorted)-1]
}

// PreviousTag merges current into the existing tags and returns the tag
// immediately preceding it in version order. It returns "" when current is the
// oldest version. current may or may not already be tagged.
func PreviousTag(current string, tags []string) (string, error) {
	cv, err := semver.Parse(current)
	if err != nil {
		return "", fmt.Errorf("failed to parse current version: %w", err)
	}

	merged := sortTagged(append(append([]string(nil), tags...), current))

	for i, tv := range merged {
		if semver.Compare(tv.version, cv) != 0 {
			continue
		}
		if i == 0 {
			log.Debugf("no tag precedes %s", current)
			return "", nil
		}
		return merged[i-1].tag, nil
	}

	// current is always part of merged, so this is unreachable.
	return "", nil
}

// sortTagged parses, de-duplicates and sorts tags.
func sortTagged(tags []string) []taggedVersion {
	seen := make(map[semver.Version]bool, len(tags))
	parsed := make([]taggedVersion, 0, len(tags))
	for _, tag := range tags {
		v, err := semver.Parse(tag)
		if err != nil {
			log.Tracef("skipping non-release tag: tag=%s", tag)
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		parsed = append(parsed, taggedVersion{tag: tag, version: v})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].version.Less(parsed[j].version)
	})
	return parsed
}
