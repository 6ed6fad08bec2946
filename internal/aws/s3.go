// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kili-technology/kili-cli/internal/log"
)

const (
	// DefaultPresignTTL is how long presigned asset URLs stay valid.
	DefaultPresignTTL = 24 * time.Hour
	// MaxPresignTTL is the longest validity SigV4 allows.
	MaxPresignTTL = 7 * 24 * time.Hour
)

// ErrNotS3 reports a string that is not an s3://bucket/key URL.
var ErrNotS3 = errors.New("not an s3 URL")

// Location is a bucket and a key or key prefix.
type Location struct {
	Bucket string
	Key    string
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(s string) (Location, error) {
	u, err := url.Parse(s)
	if err != nil || !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrNotS3, s)
	}
	return Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
}

// IsS3URL reports whether s parses as an s3:// URL.
func IsS3URL(s string) bool {
	_, err := ParseS3URL(s)
	return err == nil
}

// IsPrefix is true when l names everything under a prefix: a bare bucket or
// a key ending in "/".
func (l Location) IsPrefix() bool {
	return l.Key == "" || strings.HasSuffix(l.Key, "/")
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// Object is one S3 object with a URL anyone can fetch until it expires.
type Object struct {
	// Name is the key relative to the expanded prefix, or the key's base name
	// when a single object was named.
	Name string
	Key  string
	URL  string
}

// GetObjectPresigner is the part of s3.PresignClient Expander uses.
type GetObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3v2.GetObjectInput,
		optFns ...func(*s3v2.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Expander turns s3:// URLs into presigned HTTPS URLs, listing prefixes.
type Expander struct {
	Lister    s3v2.ListObjectsV2APIClient
	Presigner GetObjectPresigner
	TTL       time.Duration
}

// NewExpander builds an Expander over a real S3 client.
func NewExpander(ctx context.Context, ttl time.Duration, opts ...Option) (*Expander, error) {
	cfg, err := LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := NewS3(cfg, opts...)
	return &Expander{
		Lister:    client,
		Presigner: s3v2.NewPresignClient(client),
		TTL:       ttl,
	}, nil
}

// Expand presigns the object named by uri, or every object under it when uri
// is a prefix. Folder placeholder keys are skipped. An empty prefix is an
// error.
func (e *Expander) Expand(ctx context.Context, uri string) ([]Object, error) {
	loc, err := ParseS3URL(uri)
	if err != nil {
		return nil, err
	}

	ttl := e.TTL
	if ttl == 0 {
		ttl = DefaultPresignTTL
	}
	if ttl < 0 || ttl > MaxPresignTTL {
		return nil, fmt.Errorf("presign ttl %s must be between 0 and %s", ttl, MaxPresignTTL)
	}

	var objects []Object
	if loc.IsPrefix() {
		keys, err := e.list(ctx, loc)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("no objects under %s", loc)
		}
		for _, k := range keys {
			objects = append(objects, Object{Name: strings.TrimPrefix(k, loc.Key), Key: k})
		}
	} else {
		objects = []Object{{Name: path.Base(loc.Key), Key: loc.Key}}
	}

	for i := range objects {
		req, err := e.Presigner.PresignGetObject(ctx, &s3v2.GetObjectInput{
			Bucket: awsv2.String(loc.Bucket),
			Key:    awsv2.String(objects[i].Key),
		}, s3v2.WithPresignExpires(ttl))
		if err != nil {
			return nil, fmt.Errorf("failed to presign s3://%s/%s: %w", loc.Bucket, objects[i].Key, err)
		}
		objects[i].URL = req.URL
	}

	log.Debugf("expanded %s to %d objects", loc, len(objects))
	return objects, nil
}

func (e *Expander) list(ctx context.Context, loc Location) ([]string, error) {
	p := s3v2.NewListObjectsV2Paginator(e.Lister, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(loc.Bucket),
		Prefix: awsv2.String(loc.Key),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", loc, err)
		}
		for _, o := range page.Contents {
			k := awsv2.ToString(o.Key)
			if k == "" || strings.HasSuffix(k, "/") {
				continue
			}
			keys = append(keys, k)
		}
	}
	return keys, nil
}
