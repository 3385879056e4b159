// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders command results. Results are marshaled to JSON,
// projected onto the --attrs columns with gjson paths, sorted and printed as
// a text table, JSON, YAML or the raw document.
package output
