// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package transfer uploads and downloads single S3 objects. Endpoint and
// signing behavior are configured on the S3 client when it is built (see
// ClientOptions); nothing here touches process-wide state.
package transfer
