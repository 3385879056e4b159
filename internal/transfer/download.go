// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/awsjob/internal/awserr"
	"github.com/tfctl/awsjob/internal/log"
)

// DownloadInput names the object to fetch and where to put it.
type DownloadInput struct {
	Bucket string
	Key    string
	// Dest is the local file path. It is only created once S3 has
	// started returning the object body.
	Dest string
	// DryRun stops after the existence check.
	DryRun bool
}

// Download fetches one object into in.Dest. The bucket is not validated up
// front; the object existence check covers it. A missing key is reported as
// an awserr.ErrNotFound error and nothing is written.
func (t *Transfer) Download(ctx context.Context, in DownloadInput) (Result, error) {
	res := Result{Bucket: in.Bucket, Key: in.Key, DryRun: in.DryRun}
	uri := objectURI(in.Bucket, in.Key)
	log.Debugf("download: uri=%s dest=%s host=%s mode=%s dry=%t", uri, in.Dest, t.host, t.mode, in.DryRun)

	head, err := t.api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(in.Bucket),
		Key:    awsv2.String(in.Key),
	})
	if err != nil {
		err = awserr.Wrap("head object", uri, err)
		if errors.Is(err, awserr.ErrNotFound) {
			log.Warnf("could not get %s: it does not exist", in.Key)
		}
		return res, err
	}
	res.Size = awsv2.ToInt64(head.ContentLength)

	if in.DryRun {
		log.Debugf("download dry run: uri=%s size=%d", uri, res.Size)
		return res, nil
	}

	out, err := t.api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(in.Bucket),
		Key:    awsv2.String(in.Key),
	})
	if err != nil {
		return res, awserr.Wrap("get object", uri, err)
	}
	defer out.Body.Close()

	want := int64(-1)
	if out.ContentLength != nil {
		want = *out.ContentLength
	}

	n, err := writeFile(in.Dest, out.Body, want)
	res.Bytes = n
	if errors.Is(err, errShort) {
		return res, awserr.New(awserr.KindSizeMismatch, "get object", uri, err)
	}
	if err != nil {
		return res, awserr.Wrap("get object", uri, err)
	}

	log.Debugf("download done: uri=%s bytes=%d", uri, n)
	return res, nil
}

var errShort = errors.New("short read")

// writeFile streams r into a sibling temp file and renames it over dest, so
// a failed transfer never leaves a truncated dest behind. want < 0 skips the
// length check.
func writeFile(dest string, r io.Reader, want int64) (int64, error) {
	dir, base := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".part-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close() //nolint:errcheck
		return n, fmt.Errorf("failed to copy object data: %w", err)
	}
	if want >= 0 && n != want {
		tmp.Close() //nolint:errcheck
		return n, fmt.Errorf("%w: received %d of %d bytes", errShort, n, want)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return n, fmt.Errorf("failed to move into %s: %w", dest, err)
	}
	return n, nil
}
