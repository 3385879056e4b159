// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/launch"
	"github.com/tfctl/awsjob/internal/transfer"
)

// fakeS3 serves objects from memory and records uploads.
type fakeS3 struct {
	buckets map[string]bool
	objects map[string][]byte
	put     *s3v2.PutObjectInput
	putBody []byte
}

func notFound() error { return &smithy.GenericAPIError{Code: "NotFound", Message: "not found"} }

func (f *fakeS3) HeadBucket(_ context.Context, in *s3v2.HeadBucketInput, _ ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error) {
	if !f.buckets[awsv2.ToString(in.Bucket)] {
		return nil, notFound()
	}
	return &s3v2.HeadBucketOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3v2.HeadObjectInput, _ ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	body, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, notFound()
	}
	return &s3v2.HeadObjectOutput{ContentLength: awsv2.Int64(int64(len(body)))}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	body, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, notFound()
	}
	return &s3v2.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: awsv2.Int64(int64(len(body))),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	f.put = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.putBody = b
	return &s3v2.PutObjectOutput{}, nil
}

// fakeEC2 records the request and answers with out or err.
type fakeEC2 struct {
	in  *ec2v2.RunInstancesInput
	out *ec2v2.RunInstancesOutput
	err error
}

func (f *fakeEC2) RunInstances(_ context.Context, in *ec2v2.RunInstancesInput, _ ...func(*ec2v2.Options)) (*ec2v2.RunInstancesOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return &ec2v2.RunInstancesOutput{}, nil
}

// endpoint is what newObjectAPI was asked for.
type endpoint struct {
	host string
	mode transfer.SigningMode
}

// withFakes swaps the client factories for the given fakes.
func withFakes(t *testing.T, s3 *fakeS3, ec2 *fakeEC2) *endpoint {
	t.Helper()
	got := &endpoint{}

	origS3, origEC2 := newObjectAPI, newInstanceAPI
	newObjectAPI = func(_ context.Context, _ *cli.Command, host string, mode transfer.SigningMode) (transfer.ObjectAPI, error) {
		got.host, got.mode = host, mode
		return s3, nil
	}
	newInstanceAPI = func(context.Context, *cli.Command) (launch.InstanceAPI, error) {
		return ec2, nil
	}
	t.Cleanup(func() { newObjectAPI, newInstanceAPI = origS3, origEC2 })
	return got
}

// useConfig points the global config at a temporary file holding doc and
// returns its path.
func useConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awsjob.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("AWSJOB_CFG_FILE", path)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
	return path
}

// run builds the app for args and runs it, returning stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	args = append([]string{"awsjob"}, args...)

	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err = app.Run(context.Background(), args)
	return stdout.String(), stderr.String(), err
}
