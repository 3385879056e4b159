// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tfctl/awsjob/internal/awserr"
	"github.com/tfctl/awsjob/internal/log"
)

// InstanceAPI is the slice of *ec2.Client used here.
type InstanceAPI interface {
	RunInstances(ctx context.Context, params *ec2v2.RunInstancesInput, optFns ...func(*ec2v2.Options)) (*ec2v2.RunInstancesOutput, error)
}

// Launcher submits launch requests.
type Launcher struct {
	api InstanceAPI
}

// New returns a Launcher backed by api.
func New(api InstanceAPI) *Launcher {
	return &Launcher{api: api}
}

// Result is what EC2 reported for a launch.
type Result struct {
	ReservationID string     `json:"reservation_id"`
	DryRun        bool       `json:"dry_run"`
	Instances     []Instance `json:"instances"`
}

// Instance is the launch-time view of one instance.
type Instance struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ImageID    string    `json:"image_id"`
	State      string    `json:"state"`
	PrivateIP  string    `json:"private_ip"`
	LaunchTime time.Time `json:"launch_time"`
}

// dryRunOK is the code EC2 answers with when a dry run would have succeeded.
const dryRunOK = "DryRunOperation"

// Launch validates req and submits it for exactly one instance. It does not
// wait for the instance to come up. For a dry run, EC2's DryRunOperation
// answer is a success with Result.DryRun set.
func (l *Launcher) Launch(ctx context.Context, req Request) (Result, error) {
	res := Result{DryRun: req.DryRun}
	if err := req.Validate(); err != nil {
		return res, awserr.New(awserr.KindInvalid, "validate", req.ImageID, err)
	}

	in := req.input()
	log.Debugf("run instances: image=%s key=%s type=%s shutdown=%s dry=%t devices=%d",
		req.ImageID, req.KeyName, in.InstanceType, in.InstanceInitiatedShutdownBehavior,
		req.DryRun, len(in.BlockDeviceMappings))

	out, err := l.api.RunInstances(ctx, in)
	if err != nil {
		if req.DryRun && awserr.Code(err) == dryRunOK {
			log.Debugf("dry run ok: image=%s", req.ImageID)
			return res, nil
		}
		return res, awserr.Wrap("run instances", req.ImageID, err)
	}

	res.ReservationID = awsv2.ToString(out.ReservationId)
	for _, i := range out.Instances {
		inst := Instance{
			ID:         awsv2.ToString(i.InstanceId),
			Type:       string(i.InstanceType),
			ImageID:    awsv2.ToString(i.ImageId),
			PrivateIP:  awsv2.ToString(i.PrivateIpAddress),
			LaunchTime: awsv2.ToTime(i.LaunchTime),
		}
		if i.State != nil {
			inst.State = string(i.State.Name)
		}
		res.Instances = append(res.Instances, inst)
	}

	log.Debugf("launched: reservation=%s instances=%d", res.ReservationID, len(res.Instances))
	return res, nil
}
