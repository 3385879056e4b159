// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/launch"
	"github.com/tfctl/awsjob/internal/launchspec"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/meta"
	"github.com/tfctl/awsjob/internal/script"
)

// launchDefaultAttrs specifies the default instance attributes displayed in
// the "launch" command output.
var launchDefaultAttrs = []string{"id", "type", "state", "private_ip", "launch_time:launched:t"}

// launchCommandAction submits one RunInstances request built from --spec
// and the launch flags, then prints the launched instance.
func launchCommandAction(ctx context.Context, cmd *cli.Command) error {
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(launch.Result{})) {
		return nil
	}

	req, err := launchRequest(cmd)
	if err != nil {
		return err
	}

	api, err := newInstanceAPI(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := launch.New(api).Launch(ctx, req)
	if err != nil {
		return err
	}

	if res.DryRun {
		fmt.Fprintf(stderr(cmd), "dry run: launching %s as %s would have succeeded\n", req.ImageID, instanceTypeOrDefault(req.InstanceType))
		return nil
	}

	cmd.Metadata["header"] = "reservation " + res.ReservationID
	return EmitResult(cmd, res, "instances", launchDefaultAttrs...)
}

// launchRequest starts from the --spec job file, when given, and overlays
// every launch flag that resolved to a value.
func launchRequest(cmd *cli.Command) (launch.Request, error) {
	var req launch.Request
	if path := cmd.String("spec"); path != "" {
		spec, err := launchspec.Load(path)
		if err != nil {
			return req, err
		}
		if req, err = spec.Request(); err != nil {
			return req, fmt.Errorf("%s: %w", path, err)
		}
	}

	overlay := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	overlay("image", &req.ImageID)
	overlay("key-name", &req.KeyName)
	overlay("instance-type", &req.InstanceType)
	overlay("shutdown", &req.ShutdownBehavior)
	overlay("subnet", &req.Options.SubnetID)
	overlay("iam-profile", &req.Options.IAMInstanceProfile)

	if cmd.IsSet("security-group") {
		req.Options.SecurityGroupIDs = cmd.StringSlice("security-group")
	}
	if cmd.Bool("ebs-optimized") {
		req.Options.EBSOptimized = true
	}
	if cmd.Bool("dry-run") {
		req.DryRun = true
	}

	tags, err := parsePairs(cmd.StringSlice("tag"))
	if err != nil {
		return req, fmt.Errorf("invalid --tag: %w", err)
	}
	if len(tags) > 0 && req.Options.Tags == nil {
		req.Options.Tags = make(map[string]string, len(tags))
	}
	for k, v := range tags {
		req.Options.Tags[k] = v
	}

	devices, err := parsePairs(cmd.StringSlice("ephemeral"))
	if err != nil {
		return req, fmt.Errorf("invalid --ephemeral: %w", err)
	}
	for _, dev := range slices.Sorted(maps.Keys(devices)) {
		req.Options.BlockDevices = append(req.Options.BlockDevices, launch.BlockDevice{
			DeviceName:  dev,
			VirtualName: devices[dev],
		})
	}

	userData, err := launchUserData(cmd)
	if err != nil {
		return req, err
	}
	if userData != "" {
		req.UserData = userData
	}

	log.Debugf("launch request: image=%s type=%s dry=%t userdata=%d", req.ImageID, req.InstanceType, req.DryRun, len(req.UserData))
	return req, nil
}

// launchUserData returns the user data from --user-data-file or, when --cmd
// is given, the composed bootstrap script. "" means neither was given.
func launchUserData(cmd *cli.Command) (string, error) {
	file := cmd.String("user-data-file")
	hasScript := cmd.String("cmd") != ""

	switch {
	case file != "" && hasScript:
		return "", errors.New("--user-data-file and --cmd are mutually exclusive")
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read user data: %w", err)
		}
		return string(b), nil
	case hasScript:
		p := scriptParams(cmd)
		if err := script.Validate(p); err != nil {
			return "", fmt.Errorf("invalid script: %w", err)
		}
		return script.Compose(p), nil
	}
	return "", nil
}

// parsePairs splits NAME=VALUE tokens. A later NAME replaces an earlier one.
func parsePairs(tokens []string) (map[string]string, error) {
	pairs := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%q: expected NAME=VALUE", tok)
		}
		pairs[k] = v
	}
	return pairs, nil
}

func instanceTypeOrDefault(t string) string {
	if t == "" {
		return launch.DefaultInstanceType
	}
	return t
}

func launchCommandBuilder(meta meta.Meta) *cli.Command {
	path := meta.ConfigSource()
	str := func(name, usage string) *cli.StringFlag {
		return NameSpacedValueChainFlagFromConfigFile("launch", path, &cli.StringFlag{
			Name:    name,
			Usage:   usage,
			Sources: cli.NewValueSourceChain(),
		})
	}

	shutdown := str("shutdown", "instance-initiated shutdown behavior (terminate|stop)")
	shutdown.Validator = func(value string) error {
		return FlagValidators(value, ShutdownValidator)
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "spec",
			Usage: "HCL job file describing the launch",
		},
		str("image", "AMI id"),
		str("key-name", "key pair name"),
		str("instance-type", "instance type (default "+launch.DefaultInstanceType+")"),
		shutdown,
		str("subnet", "subnet id"),
		str("iam-profile", "instance profile name or ARN"),
		&cli.StringFlag{
			Name:  "user-data-file",
			Usage: "file sent verbatim as user data",
		},
		&cli.StringSliceFlag{
			Name:  "security-group",
			Usage: "security group id, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "instance tag NAME=VALUE, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "ephemeral",
			Usage: "instance store mapping DEVICE=VIRTUAL, e.g. /dev/sdb=ephemeral0, repeatable",
		},
		&cli.BoolFlag{
			Name:  "ebs-optimized",
			Usage: "request an EBS-optimized instance",
		},
		newDryRunFlag(),
	}
	flags = append(flags, NewScriptFlags("launch", path)...)

	return (&CommandBuilder{
		Name:      "launch",
		Usage:     "launch one EC2 instance running the bootstrap script",
		UsageText: "awsjob launch [--spec FILE] [--image AMI --key-name KEY] [options]",
		Flags:     flags,
		Args:      0,
		AWS:       true,
		Output:    true,
		Action:    launchCommandAction,
		Meta:      meta,
	}).Build()
}
