// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/tfctl/awsjob/internal/log"
)

// Defaults applied by Compose to zero-valued Params fields.
const (
	DefaultHome     = "/home/ubuntu"
	DefaultUser     = "ubuntu"
	DefaultRemote   = "origin"
	DefaultBranch   = "master"
	DefaultSwapFile = "/mnt/swapfile"
)

// Params are the inputs to the bootstrap script. Nothing is quoted or
// escaped; the values land in the script verbatim.
type Params struct {
	// Command is run last, inside the repository checkout.
	Command string `yaml:"command" json:"command"`
	// Repo is the checkout directory name below <Home>/github.
	Repo string `yaml:"repo" json:"repo"`
	// CondaPath is the environment install, relative to Home, holding
	// bin/activate and bin/pip.
	CondaPath string `yaml:"conda_path" json:"conda_path"`
	// Env is the environment name passed to activate.
	Env string `yaml:"env" json:"env"`
	// Packages are pip-installed one per line, in order.
	Packages []string `yaml:"packages" json:"packages"`
	// SwapMB is the swap file size in megabytes. Zero means no swap file.
	SwapMB int `yaml:"swap_mb" json:"swap_mb"`

	Home     string `yaml:"home" json:"home"`
	User     string `yaml:"user" json:"user"`
	Remote   string `yaml:"remote" json:"remote"`
	Branch   string `yaml:"branch" json:"branch"`
	SwapFile string `yaml:"swap_file" json:"swap_file"`
}

var bootstrap = template.Must(template.New("bootstrap").Parse(`#!/bin/bash
echo "updating code ..."
source {{.Home}}/.bashrc
source {{.Home}}/{{.CondaPath}}/bin/activate {{.Env}}
{{range .Packages}}{{$.CondaPath}}/bin/pip install {{.}}
{{end}}{{if gt .SwapMB 0}}echo "making swap file ..."
sudo chown {{.User}} /mnt
sudo dd if=/dev/zero of={{.SwapFile}} bs=1M count={{.SwapMB}}
sudo chown root:root {{.SwapFile}}
sudo chmod 600 {{.SwapFile}}
sudo mkswap {{.SwapFile}}
sudo swapon {{.SwapFile}}
echo "{{.SwapFile}} swap swap defaults 0 0" | sudo tee -a /etc/fstab
sudo swapon -a
echo "making swap file ... done"
{{end}}(cd {{.Home}}/github/{{.Repo}} \
  && git pull {{.Remote}} {{.Branch}} \
  && echo "updating code ... done" \
  && {{.Command}})
`))

// Compose renders the bootstrap script for p. Zero-valued Home, User, Remote,
// Branch and SwapFile take their package defaults. The swap block is not
// idempotent: every boot of a script with SwapMB > 0 appends another fstab
// line.
func Compose(p Params) string {
	p = p.withDefaults()

	var sb strings.Builder
	// The template only ranges over strings and ints; Execute cannot fail on
	// a Params value.
	if err := bootstrap.Execute(&sb, p); err != nil {
		panic(fmt.Sprintf("bootstrap template: %v", err))
	}
	log.Debugf("script composed: repo=%s packages=%d swap=%d bytes=%d", p.Repo, len(p.Packages), p.SwapMB, sb.Len())
	return sb.String()
}

// Validate reports Params that would produce a script doing nothing useful.
// Compose itself never validates.
func Validate(p Params) error {
	var errs []error
	if strings.TrimSpace(p.Command) == "" {
		errs = append(errs, errors.New("command is required"))
	}
	if p.Repo == "" {
		errs = append(errs, errors.New("repo is required"))
	}
	if p.SwapMB < 0 {
		errs = append(errs, fmt.Errorf("swap size must not be negative: %d", p.SwapMB))
	}
	return errors.Join(errs...)
}

func (p Params) withDefaults() Params {
	if p.Home == "" {
		p.Home = DefaultHome
	}
	if p.User == "" {
		p.User = DefaultUser
	}
	if p.Remote == "" {
		p.Remote = DefaultRemote
	}
	if p.Branch == "" {
		p.Branch = DefaultBranch
	}
	if p.SwapFile == "" {
		p.SwapFile = DefaultSwapFile
	}
	return p
}
