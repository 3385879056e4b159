// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/awsjob/internal/aws"
	"github.com/tfctl/awsjob/internal/awserr"
)

// TestIntegration_RoundTrip uploads a file to AWSJOB_TEST_BUCKET, downloads it
// back and removes it. Requires credentials from the default chain.
func TestIntegration_RoundTrip(t *testing.T) {
	bucket := os.Getenv("AWSJOB_TEST_BUCKET")
	if bucket == "" {
		t.Skip("AWSJOB_TEST_BUCKET not set")
	}
	host := os.Getenv("AWSJOB_TEST_HOST")

	ctx := context.Background()
	cfg, err := aws.LoadAWSConfig(ctx)
	require.NoError(t, err)

	mode := SigningModeForHost(host)
	client := aws.NewS3(cfg, ClientOptions(host, mode)...)
	tr := New(client, WithEndpoint(host, mode))

	key := fmt.Sprintf("awsjob-test/%d.txt", time.Now().UnixNano())
	defer func() {
		client.DeleteObject(ctx, &s3v2.DeleteObjectInput{ //nolint:errcheck
			Bucket: awsv2.String(bucket),
			Key:    awsv2.String(key),
		})
	}()

	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("Hello from awsjob!"), 0o600))

	up, err := tr.UploadFile(ctx, src, UploadInput{Bucket: bucket, Key: key, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, up.Size, up.Bytes)

	dest := filepath.Join(t.TempDir(), "dest.txt")
	down, err := tr.Download(ctx, DownloadInput{Bucket: bucket, Key: key, Dest: dest})
	require.NoError(t, err)
	assert.Equal(t, up.Size, down.Bytes)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Hello from awsjob!", string(data))

	_, err = tr.Download(ctx, DownloadInput{Bucket: bucket, Key: key + ".missing", Dest: dest + ".missing"})
	assert.ErrorIs(t, err, awserr.ErrNotFound)
}
