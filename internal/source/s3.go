// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	awsx "github.com/csvctl/csvctl/internal/aws"
	"github.com/csvctl/csvctl/internal/cacheutil"
	"github.com/csvctl/csvctl/internal/config"
)

// s3Source fetches a single object, optionally pinned to a version.
type s3Source struct {
	bucket    string
	key       string
	versionID string
	profile   string
	region    string
	endpoint  string
}

func parseS3(spec string, o options) (*s3Source, error) {
	u, err := url.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 URL %s: %w", spec, err)
	}

	src := &s3Source{
		bucket:    u.Host,
		key:       strings.TrimPrefix(u.Path, "/"),
		versionID: u.Query().Get("versionId"),
		profile:   o.profile,
		region:    o.region,
	}
	if src.bucket == "" || src.key == "" {
		return nil, fmt.Errorf("invalid S3 URL %s: expected s3://bucket/key", spec)
	}

	// AWS_PROFILE still applies through the SDK chain; this is the
	// app-specific override on top of it.
	if src.profile == "" {
		src.profile = os.Getenv("CSVCTL_PROFILE_AWS")
	}
	if src.profile == "" {
		src.profile, _ = config.GetString("aws.profile", "")
	}
	if src.region == "" {
		src.region, _ = config.GetString("aws.region", "")
	}
	// An S3-compatible endpoint (MinIO etc.) comes from config only.
	src.endpoint, _ = config.GetString("aws.endpoint", "")

	return src, nil
}

func (s *s3Source) Name() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Open fetches the object body. Versioned objects are immutable, so those
// reads go through the cache; unversioned reads always hit S3.
func (s *s3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if s.versionID != "" {
		if entry, ok := cacheutil.Read(s.cacheSubdirs(), s.versionID); ok {
			return io.NopCloser(bytes.NewReader(entry.Data)), nil
		}
	}

	var cfgOpts []awsx.Option
	if s.profile != "" {
		cfgOpts = append(cfgOpts, awsx.WithProfile(s.profile))
	}
	if s.region != "" {
		cfgOpts = append(cfgOpts, awsx.WithRegion(s.region))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var svcOpts []func(*s3v2.Options)
	if s.endpoint != "" {
		svcOpts = append(svcOpts, awsx.WithBaseEndpoint(s.endpoint))
	}
	svc := awsx.NewS3(cfg, svcOpts...)

	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.key),
	}
	if s.versionID != "" {
		input.VersionId = awsv2.String(s.versionID)
	}

	result, err := svc.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object %s: %w", s.Name(), err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if s.versionID != "" {
		if err := cacheutil.Write(s.cacheSubdirs(), s.versionID, data); err != nil {
			log.WithError(err).Error("error writing to cache")
		}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// cacheSubdirs keys cache entries by bucket and object key; the version id is
// the entry key itself.
func (s *s3Source) cacheSubdirs() []string {
	return []string{s.bucket, s.key}
}

// PurgeCache removes cache entries older than the cache.clean window from the
// user config.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
