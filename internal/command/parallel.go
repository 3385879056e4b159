// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/parallel"
)

// parallelCommandAction prints the parallel-run command line for the
// name=value arguments.
func parallelCommandAction(ctx context.Context, cmd *cli.Command) error {
	b := parallel.Builder{
		Program:   cmd.String("program"),
		ListParam: cmd.String("list-param"),
	}

	params, err := b.ParseArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(cmd), b.Build(params))
	return err
}

func parallelCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "parallel",
		Usage:     "print a parallel-run command line",
		UsageText: "awsjob parallel [options] NAME=VALUE ...",
		Flags:     NewParallelFlags("parallel", meta.ConfigSource()),
		Args:      -1,
		Action:    parallelCommandAction,
		Meta:      meta,
	}).Build()
}
