// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kili-technology/kili-cli/internal/graphql"
	"github.com/kili-technology/kili-cli/internal/log"
)

const projectFields = `id title description inputType createdAt updatedAt archived
	numberOfAssets numberOfRemainingAssets numberOfReviewedAssets`

const createProjectMutation = `mutation createProject($data: CreateProjectData!) {
	data: createProject(data: $data) { ` + projectFields + ` }
}`

const projectsQuery = `query projects($where: ProjectWhere!, $first: PageSize!, $skip: Int!) {
	data: projects(where: $where, first: $first, skip: $skip) { ` + projectFields + ` }
}`

const describeProjectQuery = `query describeProject($id: ID!) {
	data: projects(where: {id: $id}, first: 1, skip: 0) { ` + projectFields + ` }
	assets: countAssets(where: {project: {id: $id}})
	labels: countLabels(where: {project: {id: $id}})
	members: countProjectUsers(where: {project: {id: $id}, activated: true})
}`

// ProjectInput describes a project to create.
type ProjectInput struct {
	Title       string
	Description string
	InputType   InputType
	Interface   json.RawMessage
}

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	ID       string
	Search   string
	Archived *bool
}

func (f ProjectFilter) where() map[string]any {
	w := map[string]any{}
	if f.ID != "" {
		w["id"] = f.ID
	}
	if f.Search != "" {
		w["searchQuery"] = f.Search
	}
	if f.Archived != nil {
		w["archived"] = *f.Archived
	}
	return w
}

// ReadInterface loads a project interface document and checks that it is a
// JSON object.
func ReadInterface(path string) (json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface: %w", err)
	}
	return ValidateInterface(b)
}

// ValidateInterface checks that b is a JSON object.
func ValidateInterface(b []byte) (json.RawMessage, error) {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("interface is not a JSON object: %w", err)
	}
	return json.RawMessage(b), nil
}

// CreateProject creates a project and returns it.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Project{}, errors.New("project title is required")
	}
	if _, err := ParseInputType(string(in.InputType)); err != nil {
		return Project{}, err
	}
	if len(in.Interface) == 0 {
		return Project{}, errors.New("project interface is required")
	}
	if _, err := ValidateInterface(in.Interface); err != nil {
		return Project{}, err
	}

	data := map[string]any{
		"title":         in.Title,
		"description":   in.Description,
		"inputType":     in.InputType,
		"jsonInterface": string(in.Interface),
	}

	r, err := s.gql.Do(ctx, createProjectMutation, map[string]any{"data": data})
	if err != nil {
		return Project{}, graphql.Friendly(err, s.errCtx("", "create project", "project"))
	}
	s.gql.Invalidate()

	var p Project
	if err := decodeInto(r.Get("data"), &p); err != nil {
		return Project{}, err
	}
	log.Debugf("created project %s", p.ID)
	return p, nil
}

// ListProjects returns up to limit projects matching filter.
func (s *Service) ListProjects(ctx context.Context, filter ProjectFilter, limit int) ([]Project, error) {
	where := filter.where()
	return Paginate(ctx, limit, func(ctx context.Context, first, skip int) ([]Project, error) {
		r, err := s.gql.Cached(ctx, projectsQuery, map[string]any{
			"where": where,
			"first": first,
			"skip":  skip,
		})
		if err != nil {
			return nil, graphql.Friendly(err, s.errCtx(filter.ID, "list projects", "project"))
		}
		var page []Project
		if err := decodeInto(r.Get("data"), &page); err != nil {
			return nil, err
		}
		return page, nil
	})
}

// DescribeProject returns a project with its asset, label and active member
// counts.
func (s *Service) DescribeProject(ctx context.Context, id string) (ProjectDescription, error) {
	if id == "" {
		return ProjectDescription{}, errors.New("project id is required")
	}

	ectx := s.errCtx(id, "describe project", "project")
	r, err := s.gql.Cached(ctx, describeProjectQuery, map[string]any{"id": id})
	if err != nil {
		return ProjectDescription{}, graphql.Friendly(err, ectx)
	}

	var page []Project
	if err := decodeInto(r.Get("data"), &page); err != nil {
		return ProjectDescription{}, err
	}
	if len(page) == 0 {
		return ProjectDescription{}, graphql.Friendly(graphql.ErrNotFound, ectx)
	}

	return ProjectDescription{
		Project:     page[0],
		AssetCount:  int(r.Get("assets").Int()),
		LabelCount:  int(r.Get("labels").Int()),
		MemberCount: int(r.Get("members").Int()),
	}, nil
}

// inputType fetches only what the import paths need to know about a project.
func (s *Service) inputType(ctx context.Context, projectID, operation string) (InputType, error) {
	r, err := s.gql.Cached(ctx, projectsQuery, map[string]any{
		"where": map[string]any{"id": projectID},
		"first": 1,
		"skip":  0,
	})
	if err != nil {
		return "", graphql.Friendly(err, s.errCtx(projectID, operation, "project"))
	}
	p := r.Get("data.0")
	if !p.Exists() {
		return "", graphql.Friendly(graphql.ErrNotFound, s.errCtx(projectID, operation, "project"))
	}
	return InputType(p.Get("inputType").String()), nil
}
