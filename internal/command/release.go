// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/config"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/meta"
	"github.com/kili-technology/kili-cli/internal/output"
	"github.com/kili-technology/kili-cli/internal/release"
	"github.com/kili-technology/kili-cli/internal/semver"
)

const (
	defaultManifest = "pyproject.toml"
	defaultPrefix   = "v"
	defaultRemote   = "origin"
)

// versionInfo is one version in every form the release scripts consume.
type versionInfo struct {
	Version  string `json:"version"`
	Tag      string `json:"tag"`
	Padded   string `json:"padded"`
	Ordinal  int64  `json:"ordinal"`
	Manifest string `json:"manifest,omitempty"`
}

// tagInfo pairs a version with the release tag preceding it.
type tagInfo struct {
	Version  string `json:"version"`
	Previous string `json:"previous"`
}

func releaseCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "release",
		Usage:     "version and release tag plumbing",
		UsageText: "kili release COMMAND [RepoDir[::remote]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			releaseVersionCommandBuilder(meta),
			releaseOrdinalCommandBuilder(meta),
			releaseBumpCommandBuilder(meta),
			releasePreviousTagCommandBuilder(meta),
			releaseNotesCommandBuilder(meta),
			releaseTagCommandBuilder(meta),
		},
	}
}

// newReleaseFlags returns the flags shared by release commands. Manifest
// and prefix fall back to release.manifest and release.prefix in the config.
func newReleaseFlags(m meta.Meta) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile("release", m.Config.Source, &cli.StringFlag{
			Name:      "manifest",
			Usage:     "packaging file holding the version, relative to RepoDir",
			Value:     defaultManifest,
			TakesFile: true,
		}),
		NameSpacedValueChainFlagFromConfigFile("release", m.Config.Source, &cli.StringFlag{
			Name:  "prefix",
			Usage: "release tag prefix",
			Value: defaultPrefix,
		}),
	}
}

func releaseVersionCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"release version",
		reflect.TypeOf(versionInfo{}),
		[]string{"version"},
		func(ctx context.Context, cmd *cli.Command) ([]versionInfo, error) {
			m, err := readReleaseManifest(cmd)
			if err != nil {
				return nil, err
			}
			vi, err := newVersionInfo(m.Version, cmd.String("prefix"))
			if err != nil {
				return nil, err
			}
			vi.Manifest = m.Path
			return []versionInfo{vi}, nil
		},
	).Run(ctx, cmd)
}

func releaseVersionCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "version",
		Usage:     "print the version held by the manifest",
		UsageText: "kili release version [RepoDir] [options]",
		Flags:     newReleaseFlags(meta),
		Action:    releaseVersionCommandAction,
		Meta:      meta,
		Local:     true,
	}).Build()
}

// releaseOrdinalCommandAction prints the zero-padded ordinal used to order
// versions numerically. It reads the manifest unless a version is given.
func releaseOrdinalCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"release ordinal",
		reflect.TypeOf(versionInfo{}),
		[]string{"padded"},
		func(ctx context.Context, cmd *cli.Command) ([]versionInfo, error) {
			v, err := releaseVersionArg(cmd)
			if err != nil {
				return nil, err
			}
			vi, err := newVersionInfo(v, cmd.String("prefix"))
			if err != nil {
				return nil, err
			}
			return []versionInfo{vi}, nil
		},
	).Run(ctx, cmd)
}

func releaseOrdinalCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "ordinal",
		Usage:     "print the zero-padded version ordinal",
		UsageText: "kili release ordinal [RepoDir] [VERSION] [options]",
		Flags:     newReleaseFlags(meta),
		Action:    releaseOrdinalCommandAction,
		Meta:      meta,
		Local:     true,
	}).Build()
}

func releaseBumpCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"release bump",
		reflect.TypeOf(release.BumpResult{}),
		[]string{"old", "new", "tag", "dry_run:dry-run"},
		func(ctx context.Context, cmd *cli.Command) ([]release.BumpResult, error) {
			m := GetMeta(cmd)

			var part semver.Part
			if p := cmd.String("part"); p != "" {
				var err error
				if part, err = semver.ParsePart(p); err != nil {
					return nil, err
				}
			}

			opts := release.BumpOptions{
				Manifest: manifestPath(cmd),
				Files:    mirrorFiles(cmd),
				Part:     part,
				Set:      cmd.String("set"),
				Prefix:   cmd.String("prefix"),
				Commit:   cmd.Bool("commit"),
				Tag:      cmd.Bool("tag"),
				Push:     cmd.Bool("push"),
				Remote:   releaseRemote(cmd),
				DryRun:   cmd.Bool("dry-run"),
			}

			var repo release.Repo
			if opts.Commit || opts.Tag || opts.Push {
				g, err := release.NewGit(m.RepoDir)
				if err != nil {
					return nil, err
				}
				repo = g
			}

			res, err := release.Bump(ctx, repo, opts)
			if err != nil {
				return nil, err
			}
			return []release.BumpResult{*res}, nil
		},
	).Run(ctx, cmd)
}

func releaseBumpCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "bump",
		Usage:     "bump the manifest version and optionally commit, tag and push",
		UsageText: "kili release bump [RepoDir[::remote]] --part major|minor|patch [options]",
		Flags: append(newReleaseFlags(meta),
			&cli.StringFlag{
				Name:  "part",
				Usage: "version part to bump: major, minor or patch",
				Validator: func(value string) error {
					return FlagValidators(value, PartValidator)
				},
			},
			&cli.StringFlag{
				Name:  "set",
				Usage: "explicit new version instead of --part",
			},
			&cli.StringSliceFlag{
				Name:  "file",
				Usage: "additional file carrying the version literal, relative to RepoDir",
			},
			&cli.BoolFlag{
				Name:  "commit",
				Usage: "commit the bumped files",
			},
			&cli.BoolFlag{
				Name:  "tag",
				Usage: "create the release tag",
			},
			&cli.BoolFlag{
				Name:  "push",
				Usage: "push the release tag, requires --tag",
			},
			newRemoteFlag(),
			newDryRunFlag(),
		),
		Action: releaseBumpCommandAction,
		Meta:   meta,
		Local:  true,
	}).Build()
}

func releasePreviousTagCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"release previous-tag",
		reflect.TypeOf(tagInfo{}),
		[]string{"previous"},
		func(ctx context.Context, cmd *cli.Command) ([]tagInfo, error) {
			v, err := releaseVersionArg(cmd)
			if err != nil {
				return nil, err
			}

			g, err := release.NewGit(GetMeta(cmd).RepoDir)
			if err != nil {
				return nil, err
			}
			tags, err := g.Tags(ctx)
			if err != nil {
				return nil, err
			}

			prev, err := release.PreviousTag(v.String(), tags)
			if err != nil {
				return nil, err
			}
			log.Debugf("previous tag of %s: %q", v, prev)
			return []tagInfo{{Version: v.String(), Previous: prev}}, nil
		},
	).Run(ctx, cmd)
}

func releasePreviousTagCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "previous-tag",
		Usage:     "print the release tag preceding a version",
		UsageText: "kili release previous-tag [RepoDir] [VERSION] [options]",
		Flags:     newReleaseFlags(meta),
		Action:    releasePreviousTagCommandAction,
		Meta:      meta,
		Local:     true,
	}).Build()
}

// releaseNotesCommandAction prints the commits since the previous release.
// Text output is markdown.
func releaseNotesCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "release notes") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(release.Notes{})) {
		return nil
	}

	v, err := releaseVersionArg(cmd)
	if err != nil {
		return err
	}
	g, err := release.NewGit(GetMeta(cmd).RepoDir)
	if err != nil {
		return err
	}
	notes, err := release.BuildNotes(ctx, g, v.String(), cmd.String("to"))
	if err != nil {
		return err
	}

	if cmd.String("output") == "text" {
		return notes.WriteMarkdown(writer(cmd))
	}
	al, err := BuildAttrs(cmd, "version", "previous", "commits")
	if err != nil {
		return err
	}
	return output.Emit(notes, al, cmd, writer(cmd))
}

func releaseNotesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "notes",
		Usage:     "print release notes since the previous tag",
		UsageText: "kili release notes [RepoDir] [VERSION] [--to REF] [options]",
		Flags: append(newReleaseFlags(meta),
			&cli.StringFlag{
				Name:  "to",
				Usage: "last commit included in the notes",
				Value: "HEAD",
			},
		),
		Action: releaseNotesCommandAction,
		Meta:   meta,
		Local:  true,
	}).Build()
}

// releaseTagCommandAction tags HEAD with the manifest version.
func releaseTagCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"release tag",
		reflect.TypeOf(versionInfo{}),
		[]string{"tag"},
		func(ctx context.Context, cmd *cli.Command) ([]versionInfo, error) {
			m, err := readReleaseManifest(cmd)
			if err != nil {
				return nil, err
			}
			vi, err := newVersionInfo(m.Version, cmd.String("prefix"))
			if err != nil {
				return nil, err
			}
			vi.Manifest = m.Path

			if cmd.Bool("dry-run") {
				log.Infof("dry run: would tag %s", vi.Tag)
				return []versionInfo{vi}, nil
			}

			g, err := release.NewGit(GetMeta(cmd).RepoDir)
			if err != nil {
				return nil, err
			}
			msg := cmd.String("message")
			if msg == "" {
				msg = "Release " + vi.Version
			}
			if err := g.CreateTag(ctx, vi.Tag, msg); err != nil {
				return nil, fmt.Errorf("failed to tag release: %w", err)
			}
			if cmd.Bool("push") {
				if err := g.PushTag(ctx, releaseRemote(cmd), vi.Tag); err != nil {
					return nil, fmt.Errorf("failed to push tag: %w", err)
				}
			}
			return []versionInfo{vi}, nil
		},
	).Run(ctx, cmd)
}

func releaseTagCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tag",
		Usage:     "tag HEAD with the manifest version",
		UsageText: "kili release tag [RepoDir[::remote]] [--push] [options]",
		Flags: append(newReleaseFlags(meta),
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "tag annotation, defaults to \"Release VERSION\"",
			},
			&cli.BoolFlag{
				Name:  "push",
				Usage: "push the tag",
			},
			newRemoteFlag(),
			newDryRunFlag(),
		),
		Action: releaseTagCommandAction,
		Meta:   meta,
		Local:  true,
	}).Build()
}

func newRemoteFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "remote",
		Usage: "remote to push to, defaults to release.remote or " + defaultRemote,
	}
}

func newVersionInfo(v semver.Version, prefix string) (versionInfo, error) {
	padded, err := v.Padded()
	if err != nil {
		return versionInfo{}, err
	}
	ordinal, err := v.Ordinal()
	if err != nil {
		return versionInfo{}, err
	}
	return versionInfo{Version: v.String(), Tag: v.Tag(prefix), Padded: padded, Ordinal: ordinal}, nil
}

// releaseArgs returns the positional arguments without the RepoDir spec
// InitApp already consumed.
func releaseArgs(cmd *cli.Command) []string {
	args := cmd.Args().Slice()
	if spec := GetMeta(cmd).Spec; spec != "" && len(args) > 0 && args[0] == spec {
		return args[1:]
	}
	return args
}

// releaseVersionArg parses the VERSION argument, or reads the manifest when
// there is none.
func releaseVersionArg(cmd *cli.Command) (semver.Version, error) {
	if args := releaseArgs(cmd); len(args) > 0 {
		return semver.Parse(args[0])
	}
	m, err := readReleaseManifest(cmd)
	if err != nil {
		return semver.Version{}, err
	}
	return m.Version, nil
}

func readReleaseManifest(cmd *cli.Command) (*release.Manifest, error) {
	return release.ReadManifest(manifestPath(cmd))
}

func manifestPath(cmd *cli.Command) string {
	return inRepoDir(cmd, cmd.String("manifest"))
}

// mirrorFiles returns --file, or release.files from the config.
func mirrorFiles(cmd *cli.Command) []string {
	files := cmd.StringSlice("file")
	if len(files) == 0 {
		files, _ = config.GetStringSlice("release.files", []string{})
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, inRepoDir(cmd, f))
	}
	return out
}

// releaseRemote resolves the push remote: --remote, then RepoDir::remote,
// then release.remote, then origin.
func releaseRemote(cmd *cli.Command) string {
	if r := cmd.String("remote"); r != "" {
		return r
	}
	if r := GetMeta(cmd).Remote; r != "" {
		return r
	}
	r, _ := config.GetString("release.remote", defaultRemote)
	return r
}

func inRepoDir(cmd *cli.Command, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GetMeta(cmd).RepoDir, p)
}
