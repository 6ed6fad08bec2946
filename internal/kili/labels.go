// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kili-technology/kili-cli/internal/graphql"
)

const appendLabelsMutation = `mutation appendManyLabels($data: AppendManyLabelsData!, $where: AssetWhere!) {
	data: appendManyLabels(data: $data, where: $where) { id }
}`

// ErrModelNameRequired is returned for prediction or inference labels without
// a model name.
var ErrModelNameRequired = errors.New("model name is required for prediction and inference labels")

// LabelInput is one label to attach to the asset with ExternalID.
type LabelInput struct {
	ExternalID   string
	JSONResponse json.RawMessage
}

// ImportLabels appends labels to a project's assets and returns how many were
// sent. Every external id must resolve to an asset of the project.
func (s *Service) ImportLabels(ctx context.Context, projectID string, inputs []LabelInput,
	labelType LabelType, modelName string) (int, error) {

	if projectID == "" {
		return 0, errors.New("project id is required")
	}
	lt, err := ParseLabelType(string(labelType))
	if err != nil {
		return 0, err
	}
	if lt.NeedsModel() && strings.TrimSpace(modelName) == "" {
		return 0, ErrModelNameRequired
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	for _, in := range inputs {
		if !json.Valid(in.JSONResponse) {
			return 0, fmt.Errorf("label for %s is not valid JSON", in.ExternalID)
		}
	}

	ids, err := s.externalIDs(ctx, projectID)
	if err != nil {
		return 0, err
	}
	var missing []string
	for _, in := range inputs {
		if _, ok := ids[in.ExternalID]; !ok {
			missing = append(missing, in.ExternalID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, graphql.Friendly(
			fmt.Errorf("%w: no asset with external id %s", graphql.ErrNotFound, strings.Join(missing, ", ")),
			s.errCtx(projectID, "import labels", "asset"))
	}

	n, err := sendBatches(ctx, s, inputs, DefaultBatchSize, func(ctx context.Context, batch []LabelInput) error {
		data := make([]map[string]any, len(batch))
		for i, in := range batch {
			data[i] = map[string]any{
				"assetID":      ids[in.ExternalID],
				"jsonResponse": string(in.JSONResponse),
			}
		}
		vars := map[string]any{
			"data": map[string]any{
				"labelType":  lt,
				"labelsData": data,
			},
			"where": map[string]any{"project": map[string]any{"id": projectID}},
		}
		if modelName != "" {
			vars["data"].(map[string]any)["modelName"] = modelName
		}
		_, err := s.gql.Do(ctx, appendLabelsMutation, vars)
		return err
	})
	if n > 0 {
		s.gql.Invalidate()
	}
	if err != nil {
		return n, graphql.Friendly(err, s.errCtx(projectID, "import labels", "project"))
	}
	return n, nil
}
