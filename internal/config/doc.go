// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads awsjob's optional YAML configuration and exposes typed
// accessors for dotted keys such as "launch.instance_type". The file is
// resolved from AWSJOB_CFG_FILE, else awsjob.yaml in os.UserConfigDir:
//   - Linux: $XDG_CONFIG_HOME/awsjob.yaml or $HOME/.config/awsjob.yaml
//   - macOS: $HOME/Library/Application Support/awsjob.yaml
//   - Windows: %APPDATA%/awsjob.yaml
//
// A missing file is not an error for callers of the getters; every lookup
// simply falls through to its default.
package config
