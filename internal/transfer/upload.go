// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tfctl/awsjob/internal/awserr"
	"github.com/tfctl/awsjob/internal/log"
)

// ProgressFunc receives the bytes sent so far and the total to send.
type ProgressFunc func(sent, total int64)

// UploadInput names the destination object and optional request settings.
type UploadInput struct {
	Bucket string
	Key    string
	// ContentType is stored as object metadata when set.
	ContentType string
	// MD5 is the raw 16-byte digest of the body. S3 rejects the upload if
	// its own digest differs.
	MD5               []byte
	ReducedRedundancy bool
	Progress          ProgressFunc
}

// UploadFile opens path and uploads it. See Upload.
func (t *Transfer) UploadFile(ctx context.Context, path string, in UploadInput) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{Bucket: in.Bucket, Key: in.Key}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return t.Upload(ctx, f, in)
}

// Upload sends body, from offset 0, to in.Bucket/in.Key. The bucket must
// exist. Success means S3 accepted the request and every measured byte was
// read from body; a short read is an awserr.ErrSizeMismatch error. body is
// left rewound to offset 0 so the caller can reuse it.
func (t *Transfer) Upload(ctx context.Context, body io.ReadSeeker, in UploadInput) (Result, error) {
	res := Result{Bucket: in.Bucket, Key: in.Key}
	uri := objectURI(in.Bucket, in.Key)
	log.Debugf("upload: uri=%s host=%s mode=%s", uri, t.host, t.mode)

	if _, err := t.api.HeadBucket(ctx, &s3v2.HeadBucketInput{Bucket: awsv2.String(in.Bucket)}); err != nil {
		return res, awserr.Wrap("head bucket", "s3://"+in.Bucket, err)
	}

	size, err := Size(body)
	if err != nil {
		return res, awserr.New(awserr.KindInvalid, "measure", uri, err)
	}
	res.Size = size

	pr := &progressReader{r: body, total: size, fn: in.Progress}
	input := &s3v2.PutObjectInput{
		Bucket:        awsv2.String(in.Bucket),
		Key:           awsv2.String(in.Key),
		Body:          pr,
		ContentLength: awsv2.Int64(size),
	}
	if in.ContentType != "" {
		input.ContentType = awsv2.String(in.ContentType)
	}
	if len(in.MD5) > 0 {
		input.ContentMD5 = awsv2.String(base64.StdEncoding.EncodeToString(in.MD5))
	}
	if in.ReducedRedundancy {
		input.StorageClass = types.StorageClassReducedRedundancy
	}

	_, err = t.api.PutObject(ctx, input)

	// Rewind for later use.
	if _, serr := body.Seek(0, io.SeekStart); serr != nil {
		log.WithError(serr).Warnf("failed to rewind upload body for %s", uri)
	}

	if err != nil {
		return res, awserr.Wrap("put object", uri, err)
	}

	res.Bytes = pr.sent
	if res.Bytes != size {
		return res, awserr.New(awserr.KindSizeMismatch, "put object", uri,
			fmt.Errorf("sent %d of %d bytes", res.Bytes, size))
	}

	log.Debugf("upload done: uri=%s bytes=%d", uri, res.Bytes)
	return res, nil
}

// statter is satisfied by *os.File and anything else that can report its
// size without moving the read position.
type statter interface {
	Stat() (os.FileInfo, error)
}

// Size returns the total size of r. It asks Stat first and falls back to
// seeking to the end. Either way r is positioned at offset 0 on return.
func Size(r io.ReadSeeker) (int64, error) {
	var size int64 = -1
	if s, ok := r.(statter); ok {
		if fi, err := s.Stat(); err == nil && fi.Mode().IsRegular() {
			size = fi.Size()
		}
	}

	if size < 0 {
		end, err := r.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, fmt.Errorf("failed to seek to end: %w", err)
		}
		size = end
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek to start: %w", err)
	}
	return size, nil
}

// progressReader reports read progress and remembers the furthest offset
// reached. The SDK may read the body more than once (payload hashing, retry
// rewinds), so the high-water mark, not a running sum, is the byte count.
type progressReader struct {
	r     io.ReadSeeker
	total int64
	fn    ProgressFunc
	pos   int64
	sent  int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.pos += int64(n)
		if p.pos > p.sent {
			p.sent = p.pos
			if p.fn != nil {
				p.fn(p.sent, p.total)
			}
		}
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.pos = pos
	}
	return pos, err
}
