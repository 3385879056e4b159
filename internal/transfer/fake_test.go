// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package transfer

import (
	"bytes"
	"context"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 is an in-memory ObjectAPI.
type fakeS3 struct {
	buckets map[string]map[string][]byte

	headBucketErr error
	headObjectErr error
	getErr        error
	putErr        error
	// putLimit, when > 0, makes PutObject stop reading after that many
	// bytes, as a truncated stream would.
	putLimit int
	// shortBody makes GetObject claim one byte more than it returns.
	shortBody bool

	calls []string
	puts  []*s3v2.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]map[string][]byte{}}
}

func (f *fakeS3) put(bucket, key string, data []byte) {
	if f.buckets[bucket] == nil {
		f.buckets[bucket] = map[string][]byte{}
	}
	if key != "" {
		f.buckets[bucket][key] = data
	}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3v2.HeadBucketInput, _ ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error) {
	f.calls = append(f.calls, "HeadBucket")
	if f.headBucketErr != nil {
		return nil, f.headBucketErr
	}
	if _, ok := f.buckets[awsv2.ToString(in.Bucket)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3v2.HeadBucketOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3v2.HeadObjectInput, _ ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	f.calls = append(f.calls, "HeadObject")
	if f.headObjectErr != nil {
		return nil, f.headObjectErr
	}
	data, ok := f.buckets[awsv2.ToString(in.Bucket)][awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3v2.HeadObjectOutput{ContentLength: awsv2.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.calls = append(f.calls, "GetObject")
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.buckets[awsv2.ToString(in.Bucket)][awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	length := int64(len(data))
	if f.shortBody {
		length++
	}
	return &s3v2.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: awsv2.Int64(length),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	f.calls = append(f.calls, "PutObject")
	f.puts = append(f.puts, in)
	if f.putErr != nil {
		return nil, f.putErr
	}

	var r io.Reader = in.Body
	if f.putLimit > 0 {
		r = io.LimitReader(in.Body, int64(f.putLimit))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.put(awsv2.ToString(in.Bucket), awsv2.ToString(in.Key), data)
	return &s3v2.PutObjectOutput{}, nil
}
