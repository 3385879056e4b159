// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/meta"
)

// CommandBuilder constructs a cli.Command for an awsjob subcommand using a
// consistent pattern. The builder wires metadata, optionally appends the
// AWS and output flag groups, and checks the positional argument count.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	// Args is the exact positional argument count, or -1 for any.
	Args int
	// AWS adds the credential and region flags.
	AWS bool
	// Output adds the output and --schema flags.
	Output bool
	Action func(context.Context, *cli.Command) error
	Meta   meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	path := cb.Meta.ConfigSource()

	flags := append([]cli.Flag{}, cb.Flags...)
	if cb.AWS {
		flags = append(flags, NewAWSFlags(cb.Name, path)...)
	}
	if cb.Output {
		flags = append(flags, newSchemaFlag())
		flags = append(flags, NewOutputFlags(cb.Name, path)...)
	}

	check := ArgCountValidator(cb.Args)
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.Config.Namespace = cb.Name
			return check(ctx, c)
		},
		Action: cb.Action,
	}
}
