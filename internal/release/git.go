// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/kili-technology/kili-cli/internal/log"
)

// validRefPattern matches branch names, tags, remotes, HEAD and HEAD~N.
var validRefPattern = regexp.MustCompile(`^(HEAD(~\d+)?|[a-zA-Z0-9][a-zA-Z0-9_./-]*)$`)

// ErrGitNotFound is returned when the git binary cannot be located.
var ErrGitNotFound = errors.New("git executable not found in PATH")

// Repo is the subset of version control operations release tooling needs.
type Repo interface {
	Tags(ctx context.Context) ([]string, error)
	CreateTag(ctx context.Context, tag, message string) error
	PushTag(ctx context.Context, remote, tag string) error
	Log(ctx context.Context, from, to string) ([]string, error)
	IsClean(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string, files ...string) error
}

// Git runs the git binary inside Dir.
type Git struct {
	Dir string
	Bin string
}

// NewGit returns a Git rooted at dir, failing early when git is unavailable.
func NewGit(dir string) (*Git, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, ErrGitNotFound
	}
	return &Git{Dir: dir, Bin: bin}, nil
}

// ValidateRef rejects refs that could be interpreted as options or that carry
// control characters.
func ValidateRef(ref string) error {
	for _, c := range ref {
		if c < 32 || c == 127 {
			return fmt.Errorf("git ref contains invalid control character")
		}
	}
	if !validRefPattern.MatchString(ref) || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid git ref format: %q", ref)
	}
	return nil
}

// Tags lists all tags in the repository.
func (g *Git) Tags(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// CreateTag creates an annotated tag on HEAD.
func (g *Git) CreateTag(ctx context.Context, tag, message string) error {
	if err := ValidateRef(tag); err != nil {
		return err
	}
	_, err := g.run(ctx, "tag", "-a", tag, "-m", message)
	return err
}

// PushTag pushes a single tag to remote.
func (g *Git) PushTag(ctx context.Context, remote, tag string) error {
	if err := ValidateRef(remote); err != nil {
		return err
	}
	if err := ValidateRef(tag); err != nil {
		return err
	}
	_, err := g.run(ctx, "push", remote, "refs/tags/"+tag)
	return err
}

// Log returns commit subjects reachable from to but not from from, newest
// first. An empty from walks the whole history of to.
func (g *Git) Log(ctx context.Context, from, to string) ([]string, error) {
	if to == "" {
		to = "HEAD"
	}
	if err := ValidateRef(to); err != nil {
		return nil, err
	}

	rng := to
	if from != "" {
		if err := ValidateRef(from); err != nil {
			return nil, err
		}
		rng = from + ".." + to
	}

	out, err := g.run(ctx, "log", "--no-merges", "--format=%s", rng)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (g *Git) IsClean(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// Commit stages files and commits them with message.
func (g *Git) Commit(ctx context.Context, message string, files ...string) error {
	if len(files) > 0 {
		args := append([]string{"add", "--"}, files...)
		if _, err := g.run(ctx, args...); err != nil {
			return err
		}
	}
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// run executes git and returns stdout. stderr is folded into the error.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Bin
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("git %v (dir=%s)", args, g.Dir)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
