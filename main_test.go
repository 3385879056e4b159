// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/awsjob/internal/command"
	"github.com/tfctl/awsjob/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"awsjob", "get"},
			expected: []string{"awsjob", "get"},
		},
		{
			name:     "no duplicates",
			args:     []string{"awsjob", "get", "--output", "text", "--titles"},
			expected: []string{"awsjob", "get", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"awsjob", "get", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"awsjob", "get", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"awsjob", "get", "--titles", "--debug", "--titles"},
			expected: []string{"awsjob", "get", "--debug", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"awsjob", "get", "--output=json", "--titles", "--output=text"},
			expected: []string{"awsjob", "get", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"awsjob", "get", "--output=json", "--output", "text"},
			expected: []string{"awsjob", "get", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"awsjob", "launch", "--image", "ami-1", "--key-name", "foo", "--image", "ami-2", "--key-name", "bar"},
			expected: []string{"awsjob", "launch", "--image", "ami-2", "--key-name", "bar"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"awsjob", "get", "results", "--output", "json", "--output", "text"},
			expected: []string{"awsjob", "get", "results", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"awsjob", "get", "-o", "json", "-o", "text"},
			expected: []string{"awsjob", "get", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"awsjob", "get", "--color", "--no-color"},
			expected: []string{"awsjob", "get", "--color", "--no-color"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"awsjob", "get", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"awsjob", "get", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"awsjob", "get", "--titles", "--debug", "--titles"},
			expected: []string{"awsjob", "get", "--debug", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"awsjob", "get", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"awsjob", "get", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"awsjob", "get", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"awsjob", "get", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsKinds(t *testing.T) {
	kinds := flagKinds{
		bools:      map[string]bool{"--dry-run": true, "-n": true},
		repeatable: map[string]bool{"--package": true},
	}

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "bool does not swallow positional",
			args:     []string{"awsjob", "get", "--dry-run", "bucket", "key", "dest", "--dry-run"},
			expected: []string{"awsjob", "get", "bucket", "key", "dest", "--dry-run"},
		},
		{
			name:     "repeatable flags all kept",
			args:     []string{"awsjob", "script", "--package", "mne", "--package", "numpy"},
			expected: []string{"awsjob", "script", "--package", "mne", "--package", "numpy"},
		},
		{
			name:     "after terminator untouched",
			args:     []string{"awsjob", "parallel", "--program", "a", "--", "--program", "b"},
			expected: []string{"awsjob", "parallel", "--program", "a", "--", "--program", "b"},
		},
		{
			name:     "stdin dash is positional",
			args:     []string{"awsjob", "put", "-", "bucket", "key"},
			expected: []string{"awsjob", "put", "-", "bucket", "key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deduplicateFlags(tt.args, kinds))
		})
	}
}

func TestFlagKindsFor(t *testing.T) {
	useConfig(t, "{}")
	args := []string{"awsjob", "launch"}
	app, err := command.InitApp(t.Context(), args)
	require.NoError(t, err)

	k := flagKindsFor(app, args)
	assert.True(t, k.bools["--dry-run"])
	assert.True(t, k.bools["-n"])
	assert.True(t, k.bools["--ebs-optimized"])
	assert.True(t, k.repeatable["--tag"])
	assert.True(t, k.repeatable["--package"])
	assert.False(t, k.bools["--image"])

	assert.Empty(t, flagKindsFor(app, []string{"awsjob", "nope"}).bools)
}

// useConfig points the global config at a temporary file holding doc.
func useConfig(t *testing.T, doc string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awsjob.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("AWSJOB_CFG_FILE", path)
	config.Config = config.Type{}
	_, err := config.Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })
}

const setsDoc = `
launch:
  defaults:
    - --key-name research
  gpu:
    - --instance-type p2.xlarge
    - --swap-mb 8192
get:
  defaults: []
`

func TestInjectConfigSet(t *testing.T) {
	useConfig(t, setsDoc)

	tests := []struct {
		name      string
		args      []string
		key       string
		insertIdx int
		expected  []string
	}{
		{
			name:      "missing key returns args unchanged",
			args:      []string{"awsjob", "script", "--cmd", "x"},
			key:       "script.defaults",
			insertIdx: 2,
			expected:  []string{"awsjob", "script", "--cmd", "x"},
		},
		{
			name:      "empty list returns args unchanged",
			args:      []string{"awsjob", "get"},
			key:       "get.defaults",
			insertIdx: 2,
			expected:  []string{"awsjob", "get"},
		},
		{
			name:      "multi-word entries split",
			args:      []string{"awsjob", "launch", "--dry-run"},
			key:       "launch.gpu",
			insertIdx: 2,
			expected:  []string{"awsjob", "launch", "--instance-type", "p2.xlarge", "--swap-mb", "8192", "--dry-run"},
		},
		{
			name:      "insert at end",
			args:      []string{"awsjob", "launch", "--dry-run"},
			key:       "launch.defaults",
			insertIdx: 3,
			expected:  []string{"awsjob", "launch", "--dry-run", "--key-name", "research"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, injectConfigSet(tt.args, tt.key, tt.insertIdx))
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	useConfig(t, setsDoc)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "explicit set replaces marker",
			args:     []string{"awsjob", "launch", "--image", "ami-1", "@gpu", "--dry-run"},
			expected: []string{"awsjob", "launch", "--image", "ami-1", "--instance-type", "p2.xlarge", "--swap-mb", "8192", "--dry-run"},
		},
		{
			name:     "defaults injected after command",
			args:     []string{"awsjob", "launch", "--key-name", "mine"},
			expected: []string{"awsjob", "launch", "--key-name", "research", "--key-name", "mine"},
		},
		{
			name:     "unknown set removed",
			args:     []string{"awsjob", "launch", "@nope"},
			expected: []string{"awsjob", "launch"},
		},
		{
			name:     "flag in command position untouched",
			args:     []string{"awsjob", "--help"},
			expected: []string{"awsjob", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}

func TestSetThenDeduplicate(t *testing.T) {
	useConfig(t, setsDoc)

	args := processSetOnly([]string{"awsjob", "launch", "--key-name", "mine"})
	assert.Equal(t, []string{"awsjob", "launch", "--key-name", "mine"}, deduplicateFlags(args))
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"awsjob", "--help"}, handleNakedCommand([]string{"awsjob"}))
	assert.Equal(t, []string{"awsjob", "get"}, handleNakedCommand([]string{"awsjob", "get"}))
}

func TestHandleVersion(t *testing.T) {
	assert.False(t, handleVersion([]string{"awsjob", "get", "b", "k", "d"}))
	assert.False(t, handleVersion([]string{"awsjob", "parallel", "--", "-v"}))
}
