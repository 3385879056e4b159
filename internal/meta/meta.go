// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries the runtime state shared by every awsjob subcommand.
package meta

import (
	"context"

	"github.com/tfctl/awsjob/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries the CLI
// arguments as seen after @set expansion, the loaded configuration and the
// root context.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}

// Command returns the subcommand name, or "" when none was given.
func (m Meta) Command() string {
	if len(m.Args) > 1 {
		return m.Args[1]
	}
	return ""
}

// ConfigSource returns the path of the loaded config file, or "" when none
// was loaded.
func (m Meta) ConfigSource() string {
	return m.Config.Source
}
