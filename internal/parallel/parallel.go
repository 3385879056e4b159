// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package parallel builds the command line for run_parallel.py, the companion
// script that fans one job out over a list of arguments.
package parallel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tfctl/awsjob/internal/log"
)

const (
	DefaultProgram   = "python run_parallel.py"
	DefaultListParam = "par_args"
)

// Param is one --Name flag. Only the list parameter uses more than one value.
type Param struct {
	Name   string   `yaml:"name" json:"name"`
	Values []string `yaml:"values" json:"values"`
}

// Builder renders Params into a command line.
type Builder struct {
	// Program is the command the flags are appended to.
	Program string
	// ListParam names the parameter whose values are space-joined into one
	// flag value.
	ListParam string
}

// New returns a Builder with the default program and list parameter.
func New() Builder {
	return Builder{Program: DefaultProgram, ListParam: DefaultListParam}
}

// Build emits Program followed by one "--name value" pair per param, in the
// order given. Scalar params use their last value; a param with no values is
// emitted as a bare flag. Values are not quoted.
func (b Builder) Build(params []Param) string {
	program := b.Program
	if program == "" {
		program = DefaultProgram
	}
	list := b.listParam()

	parts := []string{program}
	for _, p := range params {
		flag := "--" + p.Name
		switch {
		case len(p.Values) == 0:
			parts = append(parts, flag)
		case p.Name == list:
			parts = append(parts, flag, strings.Join(p.Values, " "))
		default:
			parts = append(parts, flag, p.Values[len(p.Values)-1])
		}
	}

	cmd := strings.Join(parts, " ")
	log.Debugf("parallel command: %s", cmd)
	return cmd
}

// FromMap converts an unordered mapping to params sorted by name, so the
// same mapping always yields the same command.
func FromMap(m map[string][]string) []Param {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Param, 0, len(names))
	for _, name := range names {
		params = append(params, Param{Name: name, Values: m[name]})
	}
	return params
}

// ParseArgs reads name=value tokens. Params keep the order in which each
// name first appears. For the list param repeated names append and commas
// split a token into several values; for any other param the last token
// wins.
func (b Builder) ParseArgs(args []string) ([]Param, error) {
	list := b.listParam()

	var params []Param
	index := map[string]int{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimLeft(strings.TrimSpace(name), "-")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected name=value", arg)
		}

		var values []string
		if name == list {
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		} else {
			values = []string{value}
		}

		i, seen := index[name]
		switch {
		case !seen:
			index[name] = len(params)
			params = append(params, Param{Name: name, Values: values})
		case name == list:
			params[i].Values = append(params[i].Values, values...)
		default:
			params[i].Values = values
		}
	}

	return params, nil
}

func (b Builder) listParam() string {
	if b.ListParam == "" {
		return DefaultListParam
	}
	return b.ListParam
}
