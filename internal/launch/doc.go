// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package launch starts a single EC2 instance with a boot script as its user
// data. It is a thin submission wrapper: one RunInstances call, no retries,
// no polling for the instance to become ready.
//
// Failures are returned as *awserr.Error. Local validation problems carry
// awserr.KindInvalid and never reach EC2.
package launch
