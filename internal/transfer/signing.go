// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"regexp"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// SigningMode selects how requests to an endpoint are signed. It is fixed
// when the S3 client is built, so two clients with different modes can be
// used side by side.
type SigningMode int

const (
	// SigningDefault signs headers only and sends the body as
	// UNSIGNED-PAYLOAD.
	SigningDefault SigningMode = iota
	// SigningV4 signs the payload hash as well and scopes the signature to
	// the region named by the host. Newer regions accept nothing less.
	SigningV4
)

func (m SigningMode) String() string {
	if m == SigningV4 {
		return "sigv4"
	}
	return "default"
}

// DefaultSigV4Markers are host substrings that require SigningV4.
var DefaultSigV4Markers = []string{"eu-central"}

// DefaultHost is the global S3 endpoint.
const DefaultHost = "s3.amazonaws.com"

var awsHostRE = regexp.MustCompile(`^s3(?:[.-]([a-z]{2}(?:-[a-z]+)+-\d+))?\.amazonaws\.com(?:\.cn)?$`)

// SigningModeForHost returns SigningV4 when host contains any of markers
// (DefaultSigV4Markers when none are given).
func SigningModeForHost(host string, markers ...string) SigningMode {
	if len(markers) == 0 {
		markers = DefaultSigV4Markers
	}
	for _, m := range markers {
		if m != "" && strings.Contains(host, m) {
			return SigningV4
		}
	}
	return SigningDefault
}

// RegionFromHost extracts the region from an AWS S3 host name such as
// s3.eu-central-1.amazonaws.com or s3-eu-west-1.amazonaws.com. The second
// return is false for the global endpoint and for non-AWS hosts.
func RegionFromHost(host string) (string, bool) {
	m := awsHostRE.FindStringSubmatch(stripScheme(host))
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// IsAWSHost reports whether host is an amazonaws.com S3 endpoint.
func IsAWSHost(host string) bool {
	return awsHostRE.MatchString(stripScheme(host))
}

// ClientOptions translates an endpoint host and signing mode into S3 client
// options:
//   - regional AWS hosts pin the client region,
//   - non-AWS hosts (MinIO, Ceph, ...) become the base endpoint with
//     path-style addressing,
//   - SigningDefault swaps payload hashing for UNSIGNED-PAYLOAD.
//
// An empty host or the global endpoint leaves endpoint resolution to the SDK.
func ClientOptions(host string, mode SigningMode) []func(*s3v2.Options) {
	var optFns []func(*s3v2.Options)

	switch {
	case host == "" || stripScheme(host) == DefaultHost:
	case IsAWSHost(host):
		if region, ok := RegionFromHost(host); ok {
			optFns = append(optFns, func(o *s3v2.Options) { o.Region = region })
		}
	default:
		endpoint := host
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		optFns = append(optFns, func(o *s3v2.Options) {
			o.BaseEndpoint = awsv2.String(endpoint)
			o.UsePathStyle = true
		})
	}

	if mode == SigningDefault {
		optFns = append(optFns, s3v2.WithAPIOptions(v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware))
	}

	return optFns
}

func stripScheme(host string) string {
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	return strings.TrimSuffix(host, "/")
}
