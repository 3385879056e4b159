// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/parallel"
	"github.com/tfctl/awsjob/internal/transfer"
)

// newSchemaFlag returns the --schema flag. Flags carry parse state, so each
// command gets its own.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the result schema",
		HideDefault: true,
	}
}

func newDryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "check the request without transferring or launching anything",
	}
}

// NewOutputFlags returns the flags that shape how results are printed.
func NewOutputFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_OUTPUT"),
			),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}),
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewAWSFlags returns the credential and region flags shared by every
// command that talks to AWS. Profile and region also resolve from config.
func NewAWSFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "profile",
			Usage: "shared config profile",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_PROFILE"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "region",
			Usage: "AWS region",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_REGION"),
			),
		}),
		&cli.StringFlag{
			Name:  "access-key-id",
			Usage: "static access key id",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_ACCESS_KEY_ID"),
			),
		},
		&cli.StringFlag{
			Name:  "secret-access-key",
			Usage: "static secret access key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_SECRET_ACCESS_KEY"),
			),
		},
		&cli.StringFlag{
			Name:  "session-token",
			Usage: "static session token",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWSJOB_SESSION_TOKEN"),
			),
		},
	}
}

// NewHostFlag constructs the "host" flag naming the S3 endpoint, namespaced
// to a command and config file.
func NewHostFlag(ns string, path string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
		Name:  "host",
		Usage: "S3 endpoint host",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSJOB_S3_HOST"),
		),
		Value: transfer.DefaultHost,
	})
}

// NewScriptFlags returns the bootstrap script flags shared by the script and
// launch commands.
func NewScriptFlags(ns string, path string) []cli.Flag {
	str := func(name, usage string) cli.Flag {
		return NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    name,
			Usage:   usage,
			Sources: cli.NewValueSourceChain(),
		})
	}

	swap := &cli.IntFlag{
		Name:    "swap-mb",
		Usage:   "swap file size in MB, 0 for none",
		Sources: cli.NewValueSourceChain(),
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}
	appendConfigSources(ns, path, swap.Name, &swap.Sources)

	return []cli.Flag{
		str("cmd", "command run last in the script"),
		str("repo", "repository directory under <home>/github"),
		str("conda-path", "conda install path relative to <home>"),
		str("env", "conda environment to activate"),
		str("home", "home directory of the instance user"),
		str("user", "instance user owning /mnt"),
		str("branch", "branch to pull"),
		&cli.StringSliceFlag{
			Name:  "package",
			Usage: "extra pip package, repeatable (config key: packages)",
		},
		swap,
	}
}

// NewParallelFlags returns the flags of the parallel command.
func NewParallelFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "program",
			Usage:   "program the parameters are passed to",
			Value:   parallel.DefaultProgram,
			Sources: cli.NewValueSourceChain(),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "list-param",
			Usage:   "parameter whose values are joined into one argument",
			Value:   parallel.DefaultListParam,
			Sources: cli.NewValueSourceChain(),
		}),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	appendConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// appendConfigSources appends <ns>.<name> then <name> from the YAML file at
// path. Nothing is added when no config file was loaded.
func appendConfigSources(ns string, path string, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
}
