// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/semver"
)

// ErrDirtyTree is returned when a release step needs a clean working tree.
var ErrDirtyTree = errors.New("working tree has uncommitted changes")

// BumpOptions drives Bump.
type BumpOptions struct {
	Manifest string
	Files    []string
	Part     semver.Part
	// Set overrides Part with an explicit version.
	Set    string
	Prefix string
	Commit bool
	Tag    bool
	Push   bool
	Remote string
	DryRun bool
}

// BumpResult describes what Bump did (or would do, on a dry run).
type BumpResult struct {
	Old    string   `json:"old"`
	New    string   `json:"new"`
	Tag    string   `json:"tag,omitempty"`
	Files  []string `json:"files"`
	DryRun bool     `json:"dry_run"`
}

// Bump reads the manifest version, computes the next version, rewrites the
// manifest and any mirror files, and optionally commits, tags and pushes.
// repo may be nil when none of Commit, Tag or Push is requested.
func Bump(ctx context.Context, repo Repo, opts BumpOptions) (*BumpResult, error) {
	if (opts.Commit || opts.Tag || opts.Push) && repo == nil {
		return nil, errors.New("a git repository is required to commit, tag or push")
	}
	if opts.Push && !opts.Tag {
		return nil, errors.New("push requires tag")
	}

	m, err := ReadManifest(opts.Manifest)
	if err != nil {
		return nil, err
	}

	next, err := nextVersion(m.Version, opts)
	if err != nil {
		return nil, err
	}

	// Resolve mirror files up front so a missing literal aborts before any
	// file is written.
	mirrors := make([]*Manifest, 0, len(opts.Files))
	for _, f := range opts.Files {
		mm, err := ReadLiteral(f, m.Version)
		if err != nil {
			return nil, fmt.Errorf("mirror file %s: %w", f, err)
		}
		mirrors = append(mirrors, mm)
	}

	res := &BumpResult{
		Old:    m.Version.String(),
		New:    next.String(),
		Files:  append([]string{opts.Manifest}, opts.Files...),
		DryRun: opts.DryRun,
	}
	if opts.Tag {
		res.Tag = next.Tag(opts.Prefix)
	}

	if opts.DryRun {
		log.Infof("dry run: %s -> %s", res.Old, res.New)
		return res, nil
	}

	if opts.Commit {
		clean, err := repo.IsClean(ctx)
		if err != nil {
			return nil, err
		}
		if !clean {
			return nil, ErrDirtyTree
		}
	}

	if err := writeAll(append([]*Manifest{m}, mirrors...), next); err != nil {
		return nil, err
	}

	if opts.Commit {
		if err := repo.Commit(ctx, next.String(), res.Files...); err != nil {
			return nil, fmt.Errorf("failed to commit release: %w", err)
		}
	}

	if opts.Tag {
		if err := repo.CreateTag(ctx, res.Tag, "Release "+next.String()); err != nil {
			return nil, fmt.Errorf("failed to tag release: %w", err)
		}
	}

	if opts.Push {
		remote := opts.Remote
		if remote == "" {
			remote = "origin"
		}
		if err := repo.PushTag(ctx, remote, res.Tag); err != nil {
			return nil, fmt.Errorf("failed to push tag: %w", err)
		}
	}

	return res, nil
}

// writeAll writes v into every file in order. On a failed write the files
// already written get their previous content back.
func writeAll(files []*Manifest, v semver.Version) error {
	previous := make([][]byte, len(files))
	for i, f := range files {
		previous[i] = f.content
		if err := f.Write(v); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := os.WriteFile(files[j].Path, previous[j], files[j].mode); rerr != nil {
					log.Errorf("failed to restore %s: %v", files[j].Path, rerr)
				}
			}
			return fmt.Errorf("%s: %w", f.Path, err)
		}
	}
	return nil
}

func nextVersion(cur semver.Version, opts BumpOptions) (semver.Version, error) {
	if opts.Set != "" {
		v, err := semver.Parse(opts.Set)
		if err != nil {
			return semver.Version{}, err
		}
		if !cur.Less(v) {
			return semver.Version{}, fmt.Errorf("new version %s must be greater than %s", v, cur)
		}
		return v, nil
	}
	if opts.Part == "" {
		return semver.Version{}, errors.New("either a part or an explicit version is required")
	}
	return cur.Bump(opts.Part)
}

// Notes summarizes the commits that went into a release.
type Notes struct {
	Version  string   `json:"version"`
	Previous string   `json:"previous"`
	Commits  []string `json:"commits"`
}

// BuildNotes collects commit subjects between the previous release tag and to.
func BuildNotes(ctx context.Context, repo Repo, current, to string) (*Notes, error) {
	tags, err := repo.Tags(ctx)
	if err != nil {
		return nil, err
	}

	prev, err := PreviousTag(current, tags)
	if err != nil {
		return nil, err
	}

	commits, err := repo.Log(ctx, prev, to)
	if err != nil {
		return nil, err
	}

	return &Notes{Version: current, Previous: prev, Commits: commits}, nil
}

// WriteMarkdown renders n as a markdown section.
func (n *Notes) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", n.Version)
	if n.Previous != "" {
		fmt.Fprintf(&b, "Changes since %s:\n\n", n.Previous)
	}
	if len(n.Commits) == 0 {
		b.WriteString("- No changes\n")
	}
	for _, c := range n.Commits {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
