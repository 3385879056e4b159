// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package launchspec reads HCL job files. A job file holds everything
// `awsjob launch` would otherwise take as flags, plus an optional script
// block that is composed into the instance user data:
//
//	image_id      = "ami-0abc"
//	key_name      = "research"
//	instance_type = "c3.2xlarge"
//	tags          = { Name = "train-${env.USER}" }
//
//	block_device "/dev/sdb" {
//	  virtual_name = "ephemeral0"
//	}
//
//	script {
//	  command    = "python train.py"
//	  repo       = "myrepo"
//	  conda_path = "miniconda3"
//	  env        = "py38"
//	}
//
// Expressions see the process environment as env.NAME and a handful of cty
// stdlib functions (upper, lower, join, format, try, ...).
package launchspec
