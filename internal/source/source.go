// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"io"
	"strings"
)

// Source supplies the bytes of one dataset input.
type Source interface {
	// Open returns a reader over the raw CSV bytes. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the input in errors and logs.
	Name() string
}

// options holds optional overrides applied during resolution.
type options struct {
	profile string
	region  string
}

// Option customizes how a spec is resolved. Only S3 specs consume options;
// local and stdin specs ignore them.
type Option func(*options)

// WithProfile sets the AWS shared config profile used for S3 specs.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the AWS region override used for S3 specs.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// Resolve maps a dataset spec to a Source. "-" reads stdin,
// s3://bucket/key[?versionId=...] reads an S3 object, anything else is
// treated as a local file path.
func Resolve(spec string, opts ...Option) (Source, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case spec == "-":
		return stdinSource{}, nil
	case strings.HasPrefix(spec, "s3://"):
		return parseS3(spec, o)
	default:
		return fileSource{path: spec}, nil
	}
}
