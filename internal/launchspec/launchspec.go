// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package launchspec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tfctl/awsjob/internal/launch"
	"github.com/tfctl/awsjob/internal/log"
	"github.com/tfctl/awsjob/internal/script"
)

// Spec is a decoded job file.
type Spec struct {
	ImageID          string `hcl:"image_id"`
	KeyName          string `hcl:"key_name"`
	InstanceType     string `hcl:"instance_type,optional"`
	ShutdownBehavior string `hcl:"shutdown_behavior,optional"`
	DryRun           bool   `hcl:"dry_run,optional"`
	// UserData is a literal boot script. It cannot be combined with a
	// script block.
	UserData string `hcl:"user_data,optional"`

	SubnetID           string            `hcl:"subnet_id,optional"`
	SecurityGroupIDs   []string          `hcl:"security_group_ids,optional"`
	IAMInstanceProfile string            `hcl:"iam_instance_profile,optional"`
	Tags               map[string]string `hcl:"tags,optional"`
	EBSOptimized       bool              `hcl:"ebs_optimized,optional"`

	BlockDevices []BlockDevice `hcl:"block_device,block"`
	Script       *Script       `hcl:"script,block"`
}

// BlockDevice is a block_device "<device name>" { ... } block.
type BlockDevice struct {
	DeviceName          string `hcl:"device_name,label"`
	VirtualName         string `hcl:"virtual_name,optional"`
	VolumeSizeGiB       int32  `hcl:"volume_size,optional"`
	VolumeType          string `hcl:"volume_type,optional"`
	DeleteOnTermination *bool  `hcl:"delete_on_termination,optional"`
}

// Script is the script { ... } block. Its fields mirror script.Params.
type Script struct {
	Command   string   `hcl:"command"`
	Repo      string   `hcl:"repo"`
	CondaPath string   `hcl:"conda_path,optional"`
	Env       string   `hcl:"env,optional"`
	Packages  []string `hcl:"packages,optional"`
	SwapMB    int      `hcl:"swap_mb,optional"`
	Home      string   `hcl:"home,optional"`
	User      string   `hcl:"user,optional"`
	Remote    string   `hcl:"remote,optional"`
	Branch    string   `hcl:"branch,optional"`
	SwapFile  string   `hcl:"swap_file,optional"`
}

// Params converts the block to script.Params.
func (s Script) Params() script.Params {
	return script.Params{
		Command:   s.Command,
		Repo:      s.Repo,
		CondaPath: s.CondaPath,
		Env:       s.Env,
		Packages:  s.Packages,
		SwapMB:    s.SwapMB,
		Home:      s.Home,
		User:      s.User,
		Remote:    s.Remote,
		Branch:    s.Branch,
		SwapFile:  s.SwapFile,
	}
}

// Load reads and parses the job file at path.
func Load(path string) (*Spec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Spec, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var spec Spec
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &spec); diags.HasErrors() {
		return nil, diags
	}

	log.Debugf("job file parsed: file=%s image=%s devices=%d script=%t",
		filename, spec.ImageID, len(spec.BlockDevices), spec.Script != nil)
	return &spec, nil
}

// Request converts the spec to a launch request. A script block is validated
// and composed into the user data.
func (s *Spec) Request() (launch.Request, error) {
	req := launch.Request{
		ImageID:          s.ImageID,
		KeyName:          s.KeyName,
		InstanceType:     s.InstanceType,
		ShutdownBehavior: s.ShutdownBehavior,
		UserData:         s.UserData,
		DryRun:           s.DryRun,
		Options: launch.Options{
			SubnetID:           s.SubnetID,
			SecurityGroupIDs:   s.SecurityGroupIDs,
			IAMInstanceProfile: s.IAMInstanceProfile,
			Tags:               s.Tags,
			EBSOptimized:       s.EBSOptimized,
		},
	}
	for _, bd := range s.BlockDevices {
		req.Options.BlockDevices = append(req.Options.BlockDevices, launch.BlockDevice{
			DeviceName:          bd.DeviceName,
			VirtualName:         bd.VirtualName,
			VolumeSizeGiB:       bd.VolumeSizeGiB,
			VolumeType:          bd.VolumeType,
			DeleteOnTermination: bd.DeleteOnTermination,
		})
	}

	if s.Script != nil {
		if s.UserData != "" {
			return req, errors.New("user_data and a script block are mutually exclusive")
		}
		p := s.Script.Params()
		if err := script.Validate(p); err != nil {
			return req, fmt.Errorf("invalid script block: %w", err)
		}
		req.UserData = script.Compose(p)
	}

	return req, nil
}

// evalContext exposes the process environment as env.NAME and a small
// function library.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envObject()},
		Functions: functions(),
	}
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

func functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"join":       stdlib.JoinFunc,
		"split":      stdlib.SplitFunc,
		"format":     stdlib.FormatFunc,
		"replace":    stdlib.ReplaceFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"concat":     stdlib.ConcatFunc,
		"merge":      stdlib.MergeFunc,
		"lookup":     stdlib.LookupFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"parseint":   stdlib.ParseIntFunc,
		"formatdate": stdlib.FormatDateFunc,
		"try":        tryfunc.TryFunc,
		"can":        tryfunc.CanFunc,
	}
}
