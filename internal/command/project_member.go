// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/kili"
	"github.com/kili-technology/kili-cli/internal/log"
	"github.com/kili-technology/kili-cli/internal/meta"
)

// memberChange is one row of add, update or remove output.
type memberChange struct {
	Email  string    `json:"email"`
	Role   kili.Role `json:"role,omitempty"`
	Action string    `json:"action"`
}

var (
	memberDefaultAttrs = []string{"user.email:email", "role", "activated", "!id"}
	changeDefaultAttrs = []string{"email", "role", "action"}
)

func projectMemberCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "member",
		Usage: "manage project members",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			memberListCommandBuilder(meta),
			memberAddCommandBuilder(meta),
			memberUpdateCommandBuilder(meta),
			memberRemoveCommandBuilder(meta),
		},
	}
}

func memberListCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"project member list",
		reflect.TypeOf(kili.ProjectUser{}),
		memberDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]kili.ProjectUser, error) {
			projectID, err := requireProjectID(cmd)
			if err != nil {
				return nil, err
			}
			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			return svc.ListMembers(ctx, projectID)
		},
	).Run(ctx, cmd)
}

func memberListCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "list",
		Usage:     "list project members",
		UsageText: "kili project member list --project-id ID [options]",
		Flags:     []cli.Flag{NewProjectIDFlag()},
		Action:    memberListCommandAction,
		Meta:      meta,
	}).Build()
}

// memberAddCommandAction adds members by email, or copies every member of
// --from-project.
func memberAddCommandAction(ctx context.Context, cmd *cli.Command) error {
	return memberChangeRunner(ctx, cmd, "project member add",
		func(ctx context.Context, svc *kili.Service, projectID string, role kili.Role) ([]memberChange, error) {
			var out []memberChange

			if from := cmd.String("from-project"); from != "" {
				added, err := svc.CopyMembers(ctx, from, projectID)
				for _, pu := range added {
					out = append(out, memberChange{Email: pu.User.Email, Role: pu.Role, Action: "added"})
				}
				if err != nil {
					return out, err
				}
			}

			for _, email := range cmd.Args().Slice() {
				pu, err := svc.AddMember(ctx, projectID, email, role)
				if err != nil {
					return out, err
				}
				out = append(out, memberChange{Email: pu.User.Email, Role: pu.Role, Action: "added"})
			}
			return out, nil
		})
}

func memberAddCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "add",
		Usage:     "add members to a project",
		UsageText: "kili project member add --project-id ID [--role ROLE] [--from-project ID] [EMAILS...] [options]",
		Flags: []cli.Flag{
			NewProjectIDFlag(),
			newRoleFlag(string(kili.RoleLabeler)),
			&cli.StringFlag{
				Name:  "from-project",
				Usage: "copy every active member of this project, keeping their roles",
			},
		},
		Action: memberAddCommandAction,
		Meta:   meta,
	}).Build()
}

func memberUpdateCommandAction(ctx context.Context, cmd *cli.Command) error {
	return memberChangeRunner(ctx, cmd, "project member update",
		func(ctx context.Context, svc *kili.Service, projectID string, role kili.Role) ([]memberChange, error) {
			if !cmd.IsSet("role") {
				return nil, fmt.Errorf("--role is required")
			}
			var out []memberChange
			for _, email := range cmd.Args().Slice() {
				pu, err := svc.UpdateMember(ctx, projectID, email, role)
				if err != nil {
					return out, err
				}
				out = append(out, memberChange{Email: pu.User.Email, Role: pu.Role, Action: "updated"})
			}
			return out, nil
		})
}

func memberUpdateCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "update",
		Usage:     "change the role of project members",
		UsageText: "kili project member update --project-id ID --role ROLE EMAILS... [options]",
		Flags: []cli.Flag{
			NewProjectIDFlag(),
			newRoleFlag(""),
		},
		Action: memberUpdateCommandAction,
		Meta:   meta,
	}).Build()
}

func memberRemoveCommandAction(ctx context.Context, cmd *cli.Command) error {
	return memberChangeRunner(ctx, cmd, "project member remove",
		func(ctx context.Context, svc *kili.Service, projectID string, _ kili.Role) ([]memberChange, error) {
			var out []memberChange
			for _, email := range cmd.Args().Slice() {
				if err := svc.RemoveMember(ctx, projectID, email); err != nil {
					return out, err
				}
				out = append(out, memberChange{Email: email, Action: "removed"})
			}
			return out, nil
		})
}

func memberRemoveCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "remove",
		Usage:     "remove members from a project",
		UsageText: "kili project member remove --project-id ID EMAILS... [options]",
		Flags:     []cli.Flag{NewProjectIDFlag()},
		Action:    memberRemoveCommandAction,
		Meta:      meta,
	}).Build()
}

// memberChangeRunner runs change with the project id, role and service
// resolved. Changes made before a failure are still printed.
func memberChangeRunner(
	ctx context.Context,
	cmd *cli.Command,
	name string,
	change func(context.Context, *kili.Service, string, kili.Role) ([]memberChange, error),
) error {
	var changeErr error

	err := NewQueryActionRunner(
		name,
		reflect.TypeOf(memberChange{}),
		changeDefaultAttrs,
		func(ctx context.Context, cmd *cli.Command) ([]memberChange, error) {
			projectID, err := requireProjectID(cmd)
			if err != nil {
				return nil, err
			}
			if cmd.Args().Len() == 0 && cmd.String("from-project") == "" {
				return nil, fmt.Errorf("no member emails given")
			}

			var role kili.Role
			if r := cmd.String("role"); r != "" {
				if role, err = kili.ParseRole(r); err != nil {
					return nil, err
				}
			}

			svc, err := NewService(cmd)
			if err != nil {
				return nil, err
			}
			out, err := change(ctx, svc, projectID, role)
			if err != nil && len(out) == 0 {
				return nil, err
			}
			if err != nil {
				log.Debugf("%s partially applied: %v", name, err)
			}
			changeErr = err
			return out, nil
		},
	).Run(ctx, cmd)

	if err != nil {
		return err
	}
	return changeErr
}

func newRoleFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "role",
		Aliases: []string{"r"},
		Usage:   fmt.Sprintf("member role, one of %v", kili.Roles),
		Value:   value,
		Validator: func(value string) error {
			return FlagValidators(value, RoleValidator)
		},
	}
}
