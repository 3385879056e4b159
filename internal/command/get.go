// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/transfer"
)

// transferDefaultAttrs specifies the default attributes displayed for a
// get or put result.
var transferDefaultAttrs = []string{"bucket", "key", "size:size:b", "dry_run"}

// getCommandAction downloads BUCKET/KEY into DEST.
func getCommandAction(ctx context.Context, cmd *cli.Command) error {
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(transfer.Result{})) {
		return nil
	}

	args := cmd.Args().Slice()
	t, err := newTransfer(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := t.Download(ctx, transfer.DownloadInput{
		Bucket: args[0],
		Key:    args[1],
		Dest:   args[2],
		DryRun: cmd.Bool("dry-run"),
	})
	if err != nil {
		return err
	}
	return EmitResult(cmd, res, "", transferDefaultAttrs...)
}

// newTransfer builds a Transfer for --host, signing with SigV4 when --sigv4
// is set or the host matches a configured marker.
func newTransfer(ctx context.Context, cmd *cli.Command) (*transfer.Transfer, error) {
	host := cmd.String("host")
	mode := signingMode(cmd, host)

	api, err := newObjectAPI(ctx, cmd, host, mode)
	if err != nil {
		return nil, err
	}
	return transfer.New(api, transfer.WithEndpoint(host, mode)), nil
}

func getCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "get",
		Usage:     "download one object",
		UsageText: "awsjob get BUCKET KEY DEST [options]",
		Flags: []cli.Flag{
			NewHostFlag("get", meta.ConfigSource()),
			newSigV4Flag(),
			newDryRunFlag(),
		},
		Args:   3,
		AWS:    true,
		Output: true,
		Action: getCommandAction,
		Meta:   meta,
	}).Build()
}
