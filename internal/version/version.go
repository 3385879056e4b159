// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other awsjob packages to avoid import cycles.

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the module version stamped by the go toolchain, or "dev" for
// local builds.
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// String is the --version banner.
func String() string {
	return fmt.Sprintf("awsjob/%s (%s)", Version, runtime.Version())
}
