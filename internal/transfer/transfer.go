// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"fmt"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the slice of *s3.Client used here.
type ObjectAPI interface {
	HeadBucket(ctx context.Context, params *s3v2.HeadBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Transfer moves single objects between local files and a bucket.
type Transfer struct {
	api  ObjectAPI
	host string
	mode SigningMode
}

// Option customizes a Transfer.
type Option func(*Transfer)

// WithEndpoint records the host and signing mode the client was built with.
// It only affects logging; the client itself carries the behavior (see
// ClientOptions).
func WithEndpoint(host string, mode SigningMode) Option {
	return func(t *Transfer) {
		t.host = host
		t.mode = mode
	}
}

// New returns a Transfer backed by api.
func New(api ObjectAPI, opts ...Option) *Transfer {
	t := &Transfer{api: api, host: DefaultHost}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mode returns the signing mode the Transfer was configured with.
func (t *Transfer) Mode() SigningMode { return t.mode }

// Result describes a completed (or dry-run) transfer.
type Result struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	// Size is the object size reported by S3 (download) or measured from
	// the source (upload).
	Size int64 `json:"size"`
	// Bytes is what actually moved. Zero for dry runs.
	Bytes  int64 `json:"bytes"`
	DryRun bool  `json:"dry_run"`
}

func objectURI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
