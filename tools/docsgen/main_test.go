// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestRender(t *testing.T) {
	sub := &cli.Command{
		Name:      "get",
		Usage:     "download one object",
		UsageText: "awsjob get BUCKET KEY DEST [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "S3 endpoint host", Value: "s3.amazonaws.com"},
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "check only"},
			&cli.BoolFlag{Name: "secret", Hidden: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, sub, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)))

	out := buf.String()
	assert.Contains(t, out, "# awsjob get\n")
	assert.Contains(t, out, "    awsjob get BUCKET KEY DEST [options]")
	assert.Contains(t, out, "`--dry-run, -n`")
	assert.Contains(t, out, "`--host` | S3 endpoint host")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "generated March 4, 2026")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("--dry-run")), bytes.Index(buf.Bytes(), []byte("--host")))
}
