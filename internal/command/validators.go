// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// ArgCountValidator returns a Before hook requiring exactly n positional
// arguments. --schema requests skip the check.
func ArgCountValidator(n int) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if n < 0 || c.Bool("schema") {
			return ctx, nil
		}
		if got := c.NArg(); got != n {
			return ctx, fmt.Errorf("%s: expected %d arguments, got %d (usage: %s)", c.Name, n, got, c.UsageText)
		}
		return ctx, nil
	}
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{output.FormatText, output.FormatJSON, output.FormatRaw, output.FormatYAML}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func ShutdownValidator(value any) error {
	valid := []string{string(types.ShutdownBehaviorTerminate), string(types.ShutdownBehaviorStop)}
	if s, ok := value.(string); !ok || !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if n, ok := value.(int); ok && n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
