// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/progress"
	"github.com/tfctl/awsjob/internal/transfer"
)

// putCommandAction uploads FILE to BUCKET/KEY, drawing a progress bar on a
// terminal.
func putCommandAction(ctx context.Context, cmd *cli.Command) error {
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(transfer.Result{})) {
		return nil
	}

	args := cmd.Args().Slice()
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open upload source: %w", err)
	}
	defer f.Close()

	in := transfer.UploadInput{
		Bucket:            args[1],
		Key:               args[2],
		ContentType:       cmd.String("content-type"),
		ReducedRedundancy: cmd.Bool("reduced-redundancy"),
	}

	if cmd.Bool("md5") {
		if in.MD5, err = fileMD5(f); err != nil {
			return err
		}
	}

	t, err := newTransfer(ctx, cmd)
	if err != nil {
		return err
	}

	var bar *progress.Bar
	if cmd.Bool("progress") {
		bar = progress.New(stderr(cmd), args[2])
		in.Progress = bar.Update
	}

	res, err := t.Upload(ctx, f, in)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}
	return EmitResult(cmd, res, "", transferDefaultAttrs...)
}

// fileMD5 digests f and rewinds it.
func fileMD5(f io.ReadSeeker) ([]byte, error) {
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to digest upload source: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload source: %w", err)
	}
	return h.Sum(nil), nil
}

// signingMode picks the signing mode for host. The marker list comes from
// the s3.sigv4_markers config key.
func signingMode(cmd *cli.Command, host string) transfer.SigningMode {
	if cmd.Bool("sigv4") {
		return transfer.SigningV4
	}
	markers, err := config.GetStringSlice("s3.sigv4_markers")
	if err != nil {
		log.Debugf("no sigv4 markers configured: %v", err)
		markers = nil
	}
	return transfer.SigningModeForHost(host, markers...)
}

func newSigV4Flag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "sigv4",
		Usage: "sign the payload hash regardless of host",
	}
}

func putCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "put",
		Usage:     "upload one file",
		UsageText: "awsjob put FILE BUCKET KEY [options]",
		Flags: []cli.Flag{
			NewHostFlag("put", meta.ConfigSource()),
			newSigV4Flag(),
			&cli.StringFlag{
				Name:  "content-type",
				Usage: "Content-Type stored with the object",
			},
			&cli.BoolFlag{
				Name:  "md5",
				Usage: "send a Content-MD5 digest of the file",
			},
			&cli.BoolFlag{
				Name:  "reduced-redundancy",
				Usage: "store with the REDUCED_REDUNDANCY storage class",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar when stderr is a terminal",
				Value: true,
			},
		},
		Args:   3,
		AWS:    true,
		Output: true,
		Action: putCommandAction,
		Meta:   meta,
	}).Build()
}
