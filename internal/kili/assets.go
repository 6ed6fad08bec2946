// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kili

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kili-technology/kili-cli/internal/graphql"
	"github.com/kili-technology/kili-cli/internal/log"
)

const assetsQuery = `query assets($where: AssetWhere!, $first: PageSize!, $skip: Int!) {
	data: assets(where: $where, first: $first, skip: $skip) { id externalId }
}`

const appendAssetsMutation = `mutation appendManyToDataset($data: AppendManyToDatasetData!, $where: ProjectWhere!) {
	data: appendManyToDataset(data: $data, where: $where) { id }
}`

// ErrDuplicateExternalID is returned when two inputs name the same external id.
var ErrDuplicateExternalID = errors.New("duplicate external id")

// AssetInput is one asset to import. Content is a URL or a local path.
type AssetInput struct {
	Content    string
	ExternalID string
}

// ImportOptions tunes ImportAssets.
type ImportOptions struct {
	BatchSize int
	// Force imports assets whose external id already exists in the project.
	Force bool
}

// IsURL reports whether content is a remote location rather than a path.
func IsURL(content string) bool {
	u, err := url.Parse(content)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "gs", "s3":
		return true
	}
	return false
}

// ImportAssets appends assets to a project and returns how many were sent.
// Existing external ids are skipped unless opts.Force is set.
func (s *Service) ImportAssets(ctx context.Context, projectID string, inputs []AssetInput, opts ImportOptions) (int, error) {
	if projectID == "" {
		return 0, errors.New("project id is required")
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	inputType, err := s.inputType(ctx, projectID, "import assets")
	if err != nil {
		return 0, err
	}

	assets, err := prepareAssets(inputs, inputType)
	if err != nil {
		return 0, err
	}

	if !opts.Force {
		existing, err := s.externalIDs(ctx, projectID)
		if err != nil {
			return 0, err
		}
		kept := assets[:0]
		for _, a := range assets {
			if _, ok := existing[a.ExternalID]; ok {
				log.Infof("skipping %s: external id already in project", a.ExternalID)
				continue
			}
			kept = append(kept, a)
		}
		assets = kept
	}
	if len(assets) == 0 {
		return 0, nil
	}

	ectx := s.errCtx(projectID, "import assets", "project")
	n, err := sendBatches(ctx, s, assets, opts.BatchSize, func(ctx context.Context, batch []AssetInput) error {
		contents := make([]string, len(batch))
		ids := make([]string, len(batch))
		for i, a := range batch {
			contents[i] = a.Content
			ids[i] = a.ExternalID
		}
		_, err := s.gql.Do(ctx, appendAssetsMutation, map[string]any{
			"data":  map[string]any{"contentArray": contents, "externalIDArray": ids},
			"where": map[string]any{"id": projectID},
		})
		return err
	})
	if n > 0 {
		s.gql.Invalidate()
	}
	if err != nil {
		return n, graphql.Friendly(err, ectx)
	}
	return n, nil
}

// prepareAssets resolves contents and external ids. Local files must exist
// and are embedded only for TEXT projects.
func prepareAssets(inputs []AssetInput, inputType InputType) ([]AssetInput, error) {
	out := make([]AssetInput, 0, len(inputs))
	seen := map[string]bool{}

	for _, in := range inputs {
		a := in
		if strings.TrimSpace(a.Content) == "" {
			return nil, errors.New("asset content is empty")
		}

		derived := a.ExternalID == ""
		if IsURL(a.Content) {
			if derived {
				u, _ := url.Parse(a.Content)
				a.ExternalID = path.Base(u.Path)
			}
		} else {
			info, err := os.Stat(a.Content)
			if err != nil {
				return nil, fmt.Errorf("asset %s: %w", a.Content, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("asset %s is a directory", a.Content)
			}
			if derived {
				a.ExternalID = filepath.Base(a.Content)
			}
			if inputType != InputText {
				return nil, fmt.Errorf("asset %s: local %s files cannot be uploaded from the CLI; host them in cloud storage and import the URLs",
					a.Content, strings.ToLower(string(inputType)))
			}
			b, err := os.ReadFile(a.Content)
			if err != nil {
				return nil, fmt.Errorf("asset %s: %w", a.Content, err)
			}
			a.Content = "data:text/plain;base64," + base64.StdEncoding.EncodeToString(b)
		}

		if a.ExternalID == "" || a.ExternalID == "/" || a.ExternalID == "." {
			a.ExternalID = uuid.NewString()
		}
		if seen[a.ExternalID] {
			if !derived {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateExternalID, a.ExternalID)
			}
			a.ExternalID = uuid.NewString()
		}
		seen[a.ExternalID] = true

		out = append(out, a)
	}
	return out, nil
}

// externalIDs returns the set of external ids already in a project.
func (s *Service) externalIDs(ctx context.Context, projectID string) (map[string]string, error) {
	assets, err := s.listAssets(ctx, map[string]any{"project": map[string]any{"id": projectID}})
	if err != nil {
		return nil, graphql.Friendly(err, s.errCtx(projectID, "list assets", "project"))
	}
	ids := make(map[string]string, len(assets))
	for _, a := range assets {
		ids[a.ExternalID] = a.ID
	}
	return ids, nil
}

func (s *Service) listAssets(ctx context.Context, where map[string]any) ([]Asset, error) {
	return Paginate(ctx, 0, func(ctx context.Context, first, skip int) ([]Asset, error) {
		r, err := s.gql.Do(ctx, assetsQuery, map[string]any{"where": where, "first": first, "skip": skip})
		if err != nil {
			return nil, err
		}
		var page []Asset
		if err := decodeInto(r.Get("data"), &page); err != nil {
			return nil, err
		}
		return page, nil
	})
}
