// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points AWSJOB_CFG_FILE at a testdata file and resets the
// global Config so the next getter reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)

	t.Setenv("AWSJOB_CFG_FILE", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "eu-central-1", cfg.Data["region"])
				assert.Equal(t, "my-results", cfg.Data["bucket"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				launch, ok := cfg.Data["launch"].(map[string]interface{})
				require.True(t, ok, "launch should be a map")
				assert.Equal(t, "c3.2xlarge", launch["instance_type"])
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("AWSJOB_CFG_FILE", "/nonexistent/awsjob.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "my-results", cfg.Data["bucket"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("AWSJOB_CFG_FILE", "/nonexistent/path/awsjob.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv("AWSJOB_CFG_FILE", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple", testFile: "simple.yaml", key: "host", want: "s3.eu-central-1.amazonaws.com"},
		{name: "nested", testFile: "nested.yaml", key: "script.env", want: "py38"},
		{name: "default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"x"}, want: "x"},
		{name: "missing", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "not a string", testFile: "mixed-types.yaml", key: "version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int", testFile: "mixed-types.yaml", key: "version", want: 1},
		{name: "float truncated", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "nested", testFile: "nested.yaml", key: "launch.swap_mb", want: 4096},
		{name: "default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "not an int", testFile: "simple.yaml", key: "region", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	got, err := GetBool("launch.dry_run")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("launch.missing", true)
	assert.NoError(t, err)
	assert.True(t, got)

	_, err = GetBool("profile")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	got, err := GetStringSlice("script.packages")
	require.NoError(t, err)
	assert.Equal(t, []string{"mne", "scikit-learn"}, got)

	got, err = GetStringSlice("s3.missing", []string{"eu-central"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-central"}, got)

	_, err = GetStringSlice("profile")
	assert.Error(t, err)
}

func TestGetStringSlice_MixedElements(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")

	_, err := GetStringSlice("mixed")
	assert.EqualError(t, err, "slice element is not a string")
}

func TestNamespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")
	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "launch"

	got, err := GetString("instance_type")
	assert.NoError(t, err)
	assert.Equal(t, "c3.2xlarge", got)

	// Falls through to the bare key when the namespaced one is absent.
	got, err = GetString("profile")
	assert.NoError(t, err)
	assert.Equal(t, "research", got)

	_, err = Config.get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_NoStandardFile(t *testing.T) {
	t.Setenv("AWSJOB_CFG_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	Config = Type{}

	_, err := Load()
	assert.ErrorIs(t, err, ErrNoConfigFile)
}
