// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for awsjob. It wires flags,
// validators, actions, and shell completion for subcommands.
//
// Flag values resolve in order from the command line, the environment, the
// "<command>.<flag>" config key and finally the bare "<flag>" config key.
// AWS clients are created per invocation from the credential flags.
package command
