// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/config"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/version"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the awsjob
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is fine; a broken one is not.
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.Config.Namespace = ns
	log.Debugf("config: source=%s namespace=%s", cfg.Source, ns)

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
	}

	app := &cli.Command{
		Name:  "awsjob",
		Usage: "AWS job runner",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "print " + version.String(),
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		getCommandBuilder(meta),
		launchCommandBuilder(meta),
		parallelCommandBuilder(meta),
		putCommandBuilder(meta),
		scriptCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
