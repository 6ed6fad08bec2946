// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK configuration and turns s3:// asset locations
// into presigned HTTPS URLs the labeling platform can fetch.
package aws
