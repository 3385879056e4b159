// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own ~/.aws files and env out of the tests.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", dir+"/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", dir+"/credentials")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI", "")
	t.Setenv("AWS_CONTAINER_CREDENTIALS_FULL_URI", "")
	t.Setenv("AWS_WEB_IDENTITY_TOKEN_FILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestOptions(t *testing.T) {
	var opts options
	WithProfile("research")(&opts)
	WithRegion("eu-central-1")(&opts)
	WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&opts)
	WithStaticCredentials("AKID", "SECRET", "TOKEN")(&opts)

	assert.Equal(t, "research", opts.profile)
	assert.Equal(t, "eu-central-1", opts.region)
	assert.NotNil(t, opts.retryer)
	assert.Equal(t, "AKID", opts.accessKeyID)
	assert.Equal(t, "SECRET", opts.secretKey)
	assert.Equal(t, "TOKEN", opts.sessionToken)
}

func TestLoadAWSConfig_DefaultRegion(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.Region)
	assert.NotEmpty(t, cfg.APIOptions)
}

func TestLoadAWSConfig_OptionsOrder(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background(),
		WithRegion("us-east-1"),
		WithRegion("eu-west-1"),
	)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithStaticCredentials("AKIDEXAMPLE", "wJalrXUtnFEMI", ""))
	require.NoError(t, err)

	creds, err := cfg.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "wJalrXUtnFEMI", creds.SecretAccessKey)
}

func TestLoadAWSConfig_HalfCredentialsIgnored(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithStaticCredentials("AKIDEXAMPLE", "", ""))
	require.NoError(t, err)

	// No static provider and nothing in the isolated chain.
	_, err = cfg.Credentials.Retrieve(ctx)
	assert.Error(t, err)
}

func TestNewClients(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background(), WithRegion("ap-northeast-1"))
	require.NoError(t, err)

	s3c := NewS3(cfg, func(o *s3v2.Options) { o.UsePathStyle = true })
	assert.IsType(t, &s3v2.Client{}, s3c)
	assert.True(t, s3c.Options().UsePathStyle)

	ec2c := NewEC2(cfg)
	assert.IsType(t, &ec2v2.Client{}, ec2c)
	assert.Equal(t, "ap-northeast-1", ec2c.Options().Region)
}
