// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	DefaultInstanceType     = "t2.micro"
	DefaultShutdownBehavior = "terminate"
)

// Request describes one instance launch.
type Request struct {
	ImageID string `yaml:"image_id" json:"image_id"`
	KeyName string `yaml:"key_name" json:"key_name"`
	// InstanceType defaults to DefaultInstanceType.
	InstanceType string `yaml:"instance_type" json:"instance_type"`
	// ShutdownBehavior is what an OS-level shutdown does to the instance,
	// "terminate" (default) or "stop".
	ShutdownBehavior string `yaml:"shutdown_behavior" json:"shutdown_behavior"`
	// UserData is the plain-text boot script. It is base64 encoded on
	// submission.
	UserData string `yaml:"user_data" json:"user_data"`
	DryRun   bool   `yaml:"dry_run" json:"dry_run"`
	Options  Options `yaml:"options" json:"options"`
}

// Options are the optional launch settings. Zero values are left out of the
// request so EC2 applies its own defaults.
type Options struct {
	BlockDevices     []BlockDevice `yaml:"block_devices" json:"block_devices"`
	SubnetID         string        `yaml:"subnet_id" json:"subnet_id"`
	SecurityGroupIDs []string      `yaml:"security_group_ids" json:"security_group_ids"`
	// IAMInstanceProfile is a profile name or ARN.
	IAMInstanceProfile string `yaml:"iam_instance_profile" json:"iam_instance_profile"`
	// Tags are applied to the instance at launch.
	Tags         map[string]string `yaml:"tags" json:"tags"`
	EBSOptimized bool              `yaml:"ebs_optimized" json:"ebs_optimized"`
}

// BlockDevice maps a device name to either an instance store volume
// (VirtualName, e.g. "ephemeral0") or a new EBS volume.
type BlockDevice struct {
	DeviceName  string `yaml:"device_name" json:"device_name"`
	VirtualName string `yaml:"virtual_name" json:"virtual_name"`
	// VolumeSizeGiB > 0 requests an EBS volume.
	VolumeSizeGiB       int32  `yaml:"volume_size_gib" json:"volume_size_gib"`
	VolumeType          string `yaml:"volume_type" json:"volume_type"`
	DeleteOnTermination *bool  `yaml:"delete_on_termination" json:"delete_on_termination"`
}

func (bd BlockDevice) isEBS() bool {
	return bd.VolumeSizeGiB > 0 || bd.VolumeType != "" || bd.DeleteOnTermination != nil
}

// Validate reports every problem with r, joined.
func (r Request) Validate() error {
	var errs []error
	if r.ImageID == "" {
		errs = append(errs, errors.New("image id is required"))
	}
	if r.KeyName == "" {
		errs = append(errs, errors.New("key name is required"))
	}
	switch r.ShutdownBehavior {
	case "", string(types.ShutdownBehaviorTerminate), string(types.ShutdownBehaviorStop):
	default:
		errs = append(errs, fmt.Errorf("shutdown behavior %q: must be terminate or stop", r.ShutdownBehavior))
	}
	for i, bd := range r.Options.BlockDevices {
		if bd.DeviceName == "" {
			errs = append(errs, fmt.Errorf("block device %d: device name is required", i))
		}
		if bd.VirtualName != "" && bd.isEBS() {
			errs = append(errs, fmt.Errorf("block device %s: virtual name and ebs settings are exclusive", bd.DeviceName))
		}
		if bd.VolumeSizeGiB < 0 {
			errs = append(errs, fmt.Errorf("block device %s: volume size must not be negative", bd.DeviceName))
		}
	}
	return errors.Join(errs...)
}

// input converts r to the EC2 request. r must be valid.
func (r Request) input() *ec2v2.RunInstancesInput {
	instanceType := r.InstanceType
	if instanceType == "" {
		instanceType = DefaultInstanceType
	}
	shutdown := r.ShutdownBehavior
	if shutdown == "" {
		shutdown = DefaultShutdownBehavior
	}

	in := &ec2v2.RunInstancesInput{
		ImageId:                           awsv2.String(r.ImageID),
		KeyName:                           awsv2.String(r.KeyName),
		InstanceType:                      types.InstanceType(instanceType),
		InstanceInitiatedShutdownBehavior: types.ShutdownBehavior(shutdown),
		MinCount:                          awsv2.Int32(1),
		MaxCount:                          awsv2.Int32(1),
		DryRun:                            awsv2.Bool(r.DryRun),
	}
	if r.UserData != "" {
		in.UserData = awsv2.String(base64.StdEncoding.EncodeToString([]byte(r.UserData)))
	}

	o := r.Options
	for _, bd := range o.BlockDevices {
		m := types.BlockDeviceMapping{DeviceName: awsv2.String(bd.DeviceName)}
		if bd.VirtualName != "" {
			m.VirtualName = awsv2.String(bd.VirtualName)
		}
		if bd.isEBS() {
			ebs := &types.EbsBlockDevice{DeleteOnTermination: bd.DeleteOnTermination}
			if bd.VolumeSizeGiB > 0 {
				ebs.VolumeSize = awsv2.Int32(bd.VolumeSizeGiB)
			}
			if bd.VolumeType != "" {
				ebs.VolumeType = types.VolumeType(bd.VolumeType)
			}
			m.Ebs = ebs
		}
		in.BlockDeviceMappings = append(in.BlockDeviceMappings, m)
	}
	if o.SubnetID != "" {
		in.SubnetId = awsv2.String(o.SubnetID)
	}
	if len(o.SecurityGroupIDs) > 0 {
		in.SecurityGroupIds = o.SecurityGroupIDs
	}
	if o.IAMInstanceProfile != "" {
		if strings.HasPrefix(o.IAMInstanceProfile, "arn:") {
			in.IamInstanceProfile = &types.IamInstanceProfileSpecification{Arn: awsv2.String(o.IAMInstanceProfile)}
		} else {
			in.IamInstanceProfile = &types.IamInstanceProfileSpecification{Name: awsv2.String(o.IAMInstanceProfile)}
		}
	}
	if len(o.Tags) > 0 {
		keys := make([]string, 0, len(o.Tags))
		for k := range o.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		tags := make([]types.Tag, 0, len(keys))
		for _, k := range keys {
			tags = append(tags, types.Tag{Key: awsv2.String(k), Value: awsv2.String(o.Tags[k])})
		}
		in.TagSpecifications = []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags:         tags,
		}}
	}
	if o.EBSOptimized {
		in.EbsOptimized = awsv2.Bool(true)
	}

	return in
}
