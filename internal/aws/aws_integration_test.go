// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_S3DatasetRoundTrip uploads a CSV dataset, reads it back the
// way the S3 source does, and deletes it. Requires real AWS credentials in
// the environment.
func TestIntegration_S3DatasetRoundTrip(t *testing.T) {
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
	require.NoError(t, err)
	client := NewS3(cfg)

	bucketName := fmt.Sprintf("csvctlgo-test-%d", time.Now().UnixNano())
	testKey := "datasets/users.csv"
	testData := []byte("ID,Name,Age\n1,Alice,34\n2,Bob,25\n")

	_, err = client.CreateBucket(ctx, &s3v2.CreateBucketInput{
		Bucket: awsv2.String(bucketName),
	})
	require.NoError(t, err)
	defer func() {
		client.DeleteBucket(ctx, &s3v2.DeleteBucketInput{
			Bucket: awsv2.String(bucketName),
		})
	}()

	_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
		Body:   bytes.NewReader(testData),
	})
	require.NoError(t, err)

	result, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
	})
	require.NoError(t, err)

	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, testData, body)
	result.Body.Close()

	_, err = client.DeleteObject(ctx, &s3v2.DeleteObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
	})
	require.NoError(t, err)

	_, err = client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
	})
	assert.Error(t, err)
}

// TestIntegration_S3VersionedDataset verifies that a pinned versionId reads
// the older copy of an overwritten dataset, the path the
// s3://bucket/key?versionId=... spec takes.
func TestIntegration_S3VersionedDataset(t *testing.T) {
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
	require.NoError(t, err)
	client := NewS3(cfg)

	bucketName := fmt.Sprintf("csvctlgo-ver-%d", time.Now().UnixNano())
	testKey := "users.csv"
	firstData := []byte("ID,Name\n1,Alice\n")
	secondData := []byte("ID,Name\n1,Alicia\n")

	_, err = client.CreateBucket(ctx, &s3v2.CreateBucketInput{
		Bucket: awsv2.String(bucketName),
	})
	require.NoError(t, err)
	defer func() {
		client.DeleteBucket(ctx, &s3v2.DeleteBucketInput{
			Bucket: awsv2.String(bucketName),
		})
	}()

	_, err = client.PutBucketVersioning(ctx, &s3v2.PutBucketVersioningInput{
		Bucket: awsv2.String(bucketName),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	})
	require.NoError(t, err)

	first, err := client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
		Body:   bytes.NewReader(firstData),
	})
	require.NoError(t, err)
	require.NotNil(t, first.VersionId)

	second, err := client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
		Body:   bytes.NewReader(secondData),
	})
	require.NoError(t, err)

	defer func() {
		for _, versionID := range []*string{first.VersionId, second.VersionId} {
			client.DeleteObject(ctx, &s3v2.DeleteObjectInput{
				Bucket:    awsv2.String(bucketName),
				Key:       awsv2.String(testKey),
				VersionId: versionID,
			})
		}
	}()

	pinned, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket:    awsv2.String(bucketName),
		Key:       awsv2.String(testKey),
		VersionId: first.VersionId,
	})
	require.NoError(t, err)

	body, err := io.ReadAll(pinned.Body)
	require.NoError(t, err)
	assert.Equal(t, firstData, body)
	pinned.Body.Close()

	latest, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String(testKey),
	})
	require.NoError(t, err)

	body, err = io.ReadAll(latest.Body)
	require.NoError(t, err)
	assert.Equal(t, secondData, body)
	latest.Body.Close()
}

// TestIntegration_S3MultiRegionConfig verifies client creation across
// regions.
func TestIntegration_S3MultiRegionConfig(t *testing.T) {
	ctx := context.Background()
	testRegions := []string{"us-east-1", "eu-west-1", "ap-southeast-1"}

	for _, testRegion := range testRegions {
		t.Run(fmt.Sprintf("region-%s", testRegion), func(t *testing.T) {
			cfg, err := LoadAWSConfig(ctx, WithRegion(testRegion))
			require.NoError(t, err)

			client := NewS3(cfg)

			assert.NotNil(t, client)
			assert.Equal(t, testRegion, cfg.Region)
		})
	}
}
