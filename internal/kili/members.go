// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kili-technology/kili-cli/internal/graphql"
	"github.com/kili-technology/kili-cli/internal/log"
)

const projectUserFields = `id role activated user { id email firstname lastname }`

const projectUsersQuery = `query projectUsers($where: ProjectUserWhere!, $first: PageSize!, $skip: Int!) {
	data: projectUsers(where: $where, first: $first, skip: $skip) { ` + projectUserFields + ` }
}`

const appendToRolesMutation = `mutation appendToRoles($projectID: ID!, $email: String!, $role: ProjectRole!) {
	data: appendToRoles(projectID: $projectID, userEmail: $email, role: $role) { ` + projectUserFields + ` }
}`

const updateProjectUserMutation = `mutation updateProjectUser($id: ID!, $role: ProjectRole!) {
	data: updatePropertiesInProjectUser(where: {id: $id}, data: {role: $role}) { ` + projectUserFields + ` }
}`

const deleteFromRolesMutation = `mutation deleteFromRoles($id: ID!) {
	data: deleteFromRoles(where: {id: $id}) { id }
}`

// ListMembers returns every member of a project.
func (s *Service) ListMembers(ctx context.Context, projectID string) ([]ProjectUser, error) {
	if projectID == "" {
		return nil, errors.New("project id is required")
	}
	where := map[string]any{"project": map[string]any{"id": projectID}}
	return Paginate(ctx, 0, func(ctx context.Context, first, skip int) ([]ProjectUser, error) {
		r, err := s.gql.Cached(ctx, projectUsersQuery, map[string]any{"where": where, "first": first, "skip": skip})
		if err != nil {
			return nil, graphql.Friendly(err, s.errCtx(projectID, "list members", "project"))
		}
		var page []ProjectUser
		if err := decodeInto(r.Get("data"), &page); err != nil {
			return nil, err
		}
		return page, nil
	})
}

// AddMember grants role on a project to the user with email.
func (s *Service) AddMember(ctx context.Context, projectID, email string, role Role) (ProjectUser, error) {
	email, role, err := checkMember(projectID, email, role)
	if err != nil {
		return ProjectUser{}, err
	}

	r, err := s.gql.Do(ctx, appendToRolesMutation, map[string]any{
		"projectID": projectID,
		"email":     email,
		"role":      role,
	})
	if err != nil {
		return ProjectUser{}, graphql.Friendly(err, s.errCtx(projectID, "add member "+email, "member"))
	}
	s.gql.Invalidate()

	var pu ProjectUser
	if err := decodeInto(r.Get("data"), &pu); err != nil {
		return ProjectUser{}, err
	}
	log.Debugf("added %s as %s to %s", email, role, projectID)
	return pu, nil
}

// UpdateMember changes the role of an existing member.
func (s *Service) UpdateMember(ctx context.Context, projectID, email string, role Role) (ProjectUser, error) {
	email, role, err := checkMember(projectID, email, role)
	if err != nil {
		return ProjectUser{}, err
	}

	member, err := s.findMember(ctx, projectID, email, "update member")
	if err != nil {
		return ProjectUser{}, err
	}

	r, err := s.gql.Do(ctx, updateProjectUserMutation, map[string]any{"id": member.ID, "role": role})
	if err != nil {
		return ProjectUser{}, graphql.Friendly(err, s.errCtx(projectID, "update member "+email, "member"))
	}
	s.gql.Invalidate()

	var pu ProjectUser
	if err := decodeInto(r.Get("data"), &pu); err != nil {
		return ProjectUser{}, err
	}
	return pu, nil
}

// RemoveMember revokes a member's access to a project.
func (s *Service) RemoveMember(ctx context.Context, projectID, email string) error {
	if projectID == "" {
		return errors.New("project id is required")
	}
	member, err := s.findMember(ctx, projectID, email, "remove member")
	if err != nil {
		return err
	}

	if _, err := s.gql.Do(ctx, deleteFromRolesMutation, map[string]any{"id": member.ID}); err != nil {
		return graphql.Friendly(err, s.errCtx(projectID, "remove member "+email, "member"))
	}
	s.gql.Invalidate()
	return nil
}

// CopyMembers adds every active member of from to to with the same role.
// Users already in to are left alone. It returns the members added.
func (s *Service) CopyMembers(ctx context.Context, from, to string) ([]ProjectUser, error) {
	source, err := s.ListMembers(ctx, from)
	if err != nil {
		return nil, err
	}
	target, err := s.ListMembers(ctx, to)
	if err != nil {
		return nil, err
	}

	present := map[string]bool{}
	for _, m := range target {
		if m.Activated {
			present[strings.ToLower(m.User.Email)] = true
		}
	}

	var added []ProjectUser
	for _, m := range source {
		if !m.Activated || present[strings.ToLower(m.User.Email)] {
			continue
		}
		pu, err := s.AddMember(ctx, to, m.User.Email, m.Role)
		if err != nil {
			return added, err
		}
		added = append(added, pu)
	}
	return added, nil
}

func (s *Service) findMember(ctx context.Context, projectID, email, operation string) (ProjectUser, error) {
	members, err := s.ListMembers(ctx, projectID)
	if err != nil {
		return ProjectUser{}, err
	}
	for _, m := range members {
		if m.Activated && strings.EqualFold(m.User.Email, strings.TrimSpace(email)) {
			return m, nil
		}
	}
	return ProjectUser{}, graphql.Friendly(
		fmt.Errorf("%w: %s", graphql.ErrNotFound, email),
		s.errCtx(projectID, operation, "member"))
}

func checkMember(projectID, email string, role Role) (string, Role, error) {
	if projectID == "" {
		return "", "", errors.New("project id is required")
	}
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", "", fmt.Errorf("invalid email %q", email)
	}
	r, err := ParseRole(string(role))
	if err != nil {
		return "", "", err
	}
	return email, r, nil
}
