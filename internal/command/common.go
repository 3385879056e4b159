// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/attrs"
	"github.com/tfctl/awsjob/internal/aws"
	"github.com/tfctl/awsjob/internal/launch"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/output"
	"github.com/tfctl/awsjob/internal/transfer"
)

// Client factories. Tests replace these with fakes.
var (
	newObjectAPI   = defaultObjectAPI
	newInstanceAPI = defaultInstanceAPI
)

// BuildAttrs constructs an AttrList from defaults, then applies --attrs on
// top of it.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	return al, nil
}

// DumpSchemaIfRequested writes the attribute paths of t to the command's
// writer when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t, stdout(cmd))
		return true
	}
	return false
}

// EmitResult marshals v to JSON and hands it to the common output routine.
// parent selects the rows inside the document; "" treats v as one row.
func EmitResult(cmd *cli.Command, v any, parent string, defaults ...string) error {
	al, err := BuildAttrs(cmd, defaults...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al)

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return output.Emit(stdout(cmd), raw, parent, al, output.OptionsFromCommand(cmd))
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// awsOptions maps the AWS flags onto config loading options.
func awsOptions(cmd *cli.Command) []aws.Option {
	var opts []aws.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	if id := cmd.String("access-key-id"); id != "" {
		opts = append(opts, aws.WithStaticCredentials(id, cmd.String("secret-access-key"), cmd.String("session-token")))
	}
	return opts
}

func defaultObjectAPI(ctx context.Context, cmd *cli.Command, host string, mode transfer.SigningMode) (transfer.ObjectAPI, error) {
	cfg, err := aws.LoadAWSConfig(ctx, awsOptions(cmd)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return aws.NewS3(cfg, transfer.ClientOptions(host, mode)...), nil
}

func defaultInstanceAPI(ctx context.Context, cmd *cli.Command) (launch.InstanceAPI, error) {
	cfg, err := aws.LoadAWSConfig(ctx, awsOptions(cmd)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return aws.NewEC2(cfg), nil
}

// stdout returns the root command's writer.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the root command's error writer.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
