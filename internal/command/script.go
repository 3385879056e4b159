// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/script"
)

// scriptCommandAction prints the bootstrap script described by the script
// flags.
func scriptCommandAction(ctx context.Context, cmd *cli.Command) error {
	p := scriptParams(cmd)
	if err := script.Validate(p); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	_, err := fmt.Fprint(stdout(cmd), script.Compose(p))
	return err
}

// scriptParams reads the script flags. --package falls back to the
// "packages" config list when not given.
func scriptParams(cmd *cli.Command) script.Params {
	p := script.Params{
		Command:   cmd.String("cmd"),
		Repo:      cmd.String("repo"),
		CondaPath: cmd.String("conda-path"),
		Env:       cmd.String("env"),
		Packages:  cmd.StringSlice("package"),
		SwapMB:    cmd.Int("swap-mb"),
		Home:      cmd.String("home"),
		User:      cmd.String("user"),
		Branch:    cmd.String("branch"),
	}
	if len(p.Packages) == 0 {
		p.Packages, _ = config.GetStringSlice("packages", nil)
	}
	log.Debugf("script params: %+v", p)
	return p
}

func scriptCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "script",
		Usage:     "print the instance bootstrap script",
		UsageText: "awsjob script --cmd CMD --repo REPO [options]",
		Flags:     NewScriptFlags("script", meta.ConfigSource()),
		Args:      0,
		Action:    scriptCommandAction,
		Meta:      meta,
	}).Build()
}
