// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package kili

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kili-technology/kili-cli/internal/graphql"
)

const catLabel = `{"CLASSIFICATION_JOB":{"categories":[{"name":"CAT"}]}}`

func TestImportLabels(t *testing.T) {
	f := newFake(t).
		on("assets", assetsOf("cat-1", "cat-2")).
		on("appendManyLabels", func(map[string]any) (string, error) { return `{"data":[{"id":"l1"}]}`, nil })
	s := New(f)

	n, err := s.ImportLabels(context.Background(), "p1", []LabelInput{
		{ExternalID: "cat-1", JSONResponse: json.RawMessage(catLabel)},
		{ExternalID: "cat-2", JSONResponse: json.RawMessage(catLabel)},
	}, LabelPrediction, "resnet-50")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	calls := f.callsTo("appendManyLabels")
	require.Len(t, calls, 1)
	data := calls[0].vars["data"].(map[string]any)
	assert.Equal(t, "PREDICTION", data["labelType"])
	assert.Equal(t, "resnet-50", data["modelName"])

	rows := data["labelsData"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "a-cat-1", first["assetID"])
	assert.JSONEq(t, catLabel, first["jsonResponse"].(string))
	assert.Equal(t, 1, f.invalidated)
}

func TestImportLabels_Errors(t *testing.T) {
	f := newFake(t).on("assets", assetsOf("cat-1"))
	s := New(f)
	ctx := context.Background()
	good := []LabelInput{{ExternalID: "cat-1", JSONResponse: json.RawMessage(catLabel)}}

	_, err := s.ImportLabels(ctx, "p1", good, LabelInference, "")
	assert.True(t, errors.Is(err, ErrModelNameRequired))

	_, err = s.ImportLabels(ctx, "p1", good, "GUESS", "")
	assert.ErrorContains(t, err, "label type")

	_, err = s.ImportLabels(ctx, "p1", []LabelInput{{ExternalID: "cat-1", JSONResponse: json.RawMessage(`{`)}}, LabelDefault, "")
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = s.ImportLabels(ctx, "p1", []LabelInput{
		{ExternalID: "dog-9", JSONResponse: json.RawMessage(catLabel)},
		{ExternalID: "dog-2", JSONResponse: json.RawMessage(catLabel)},
	}, LabelDefault, "")
	assert.True(t, errors.Is(err, graphql.ErrNotFound))
	assert.ErrorContains(t, err, "dog-2, dog-9")
	assert.Equal(t, 0, f.count("appendManyLabels"))

	n, err := s.ImportLabels(ctx, "p1", nil, LabelReview, "")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
