// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Project is a labeling project.
type Project struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	Description             string    `json:"description"`
	InputType               InputType `json:"inputType"`
	CreatedAt               string    `json:"createdAt"`
	UpdatedAt               string    `json:"updatedAt"`
	Archived                bool      `json:"archived"`
	NumberOfAssets          int       `json:"numberOfAssets"`
	NumberOfRemainingAssets int       `json:"numberOfRemainingAssets"`
	NumberOfReviewedAssets  int       `json:"numberOfReviewedAssets"`
}

// ProjectDescription is a Project plus the counts shown by describe.
type ProjectDescription struct {
	Project
	AssetCount  int `json:"assetCount"`
	LabelCount  int `json:"labelCount"`
	MemberCount int `json:"memberCount"`
}

// User is a platform account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ProjectUser is a User's membership in a project.
type ProjectUser struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Activated bool   `json:"activated"`
	User      User   `json:"user"`
}

// Asset is a unit of data to label.
type Asset struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

// Label is an annotation attached to an asset.
type Label struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"assetId"`
	LabelType    LabelType       `json:"labelType"`
	ModelName    string          `json:"modelName,omitempty"`
	JSONResponse json.RawMessage `json:"jsonResponse"`
}

// Role is a member's role in a project.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleTeamManager Role = "TEAM_MANAGER"
	RoleReviewer    Role = "REVIEWER"
	RoleLabeler     Role = "LABELER"
)

// Roles lists every valid Role.
var Roles = []Role{RoleAdmin, RoleTeamManager, RoleReviewer, RoleLabeler}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	return parseEnum(s, Roles, "role")
}

// InputType is the kind of asset a project holds.
type InputType string

const (
	InputImage      InputType = "IMAGE"
	InputPDF        InputType = "PDF"
	InputText       InputType = "TEXT"
	InputVideo      InputType = "VIDEO"
	InputTimeSeries InputType = "TIME_SERIES"
	InputGeospatial InputType = "GEOSPATIAL"
)

// InputTypes lists every valid InputType.
var InputTypes = []InputType{InputImage, InputPDF, InputText, InputVideo, InputTimeSeries, InputGeospatial}

// ParseInputType accepts an input type name in any case.
func ParseInputType(s string) (InputType, error) {
	return parseEnum(s, InputTypes, "input type")
}

// LabelType distinguishes human labels from model output.
type LabelType string

const (
	LabelDefault    LabelType = "DEFAULT"
	LabelPrediction LabelType = "PREDICTION"
	LabelReview     LabelType = "REVIEW"
	LabelInference  LabelType = "INFERENCE"
)

// LabelTypes lists every valid LabelType.
var LabelTypes = []LabelType{LabelDefault, LabelPrediction, LabelReview, LabelInference}

// ParseLabelType accepts a label type name in any case.
func ParseLabelType(s string) (LabelType, error) {
	return parseEnum(s, LabelTypes, "label type")
}

// NeedsModel reports whether labels of this type must name a model.
func (t LabelType) NeedsModel() bool {
	return t == LabelPrediction || t == LabelInference
}

func parseEnum[E ~string](s string, valid []E, what string) (E, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for _, v := range valid {
		if string(v) == u {
			return v, nil
		}
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return "", fmt.Errorf("invalid %s %q (must be one of %s)", what, s, strings.Join(names, ", "))
}
