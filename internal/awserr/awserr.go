// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package awserr classifies AWS SDK failures into the handful of outcomes
// callers act on. The SDK error stays wrapped and reachable through
// errors.As.
package awserr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Kind is the classification of a failed operation.
type Kind int

const (
	KindTransport Kind = iota
	KindNotFound
	KindSizeMismatch
	KindAuth
	KindInvalid
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrTransport    = errors.New("transport failure")
	ErrNotFound     = errors.New("not found")
	ErrSizeMismatch = errors.New("size mismatch")
	ErrAuth         = errors.New("authentication failure")
	ErrInvalid      = errors.New("invalid request")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindSizeMismatch:
		return ErrSizeMismatch
	case KindAuth:
		return ErrAuth
	case KindInvalid:
		return ErrInvalid
	default:
		return ErrTransport
	}
}

func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is the single error type returned by transfer and launch operations.
type Error struct {
	Kind Kind
	// Op names the failing step, e.g. "head object" or "run instances".
	Op string
	// Resource is what Op was applied to, e.g. "s3://bucket/key".
	Resource string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Resource, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// New builds an *Error of an explicit kind, for failures detected locally
// rather than reported by AWS.
func New(kind Kind, op, resource string, err error) *Error {
	return &Error{Kind: kind, Op: op, Resource: resource, Err: err}
}

// Wrap classifies err and wraps it. A nil err yields nil; an err that is
// already an *Error is returned unchanged.
func Wrap(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: Classify(err), Op: op, Resource: resource, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, falling back to
// Classify.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Classify(err)
}

var authCodes = map[string]bool{
	"AccessDenied":                 true,
	"AllAccessDisabled":            true,
	"AuthFailure":                  true,
	"AuthorizationHeaderMalformed": true,
	"ExpiredToken":                 true,
	"Forbidden":                    true,
	"InvalidAccessKeyId":           true,
	"InvalidClientTokenId":         true,
	"InvalidToken":                 true,
	"SignatureDoesNotMatch":        true,
	"UnauthorizedOperation":        true,
}

var notFoundCodes = map[string]bool{
	"NotFound":      true,
	"NoSuchBucket":  true,
	"NoSuchKey":     true,
	"NoSuchVersion": true,
}

// Classify maps an SDK error to a Kind using the API error code first and
// the HTTP status second. Anything unrecognised is a transport failure.
func Classify(err error) Kind {
	if err == nil {
		return KindTransport
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case authCodes[code]:
			return KindAuth
		case notFoundCodes[code],
			strings.HasSuffix(code, ".NotFound"),
			strings.HasPrefix(code, "InvalidAMIID."):
			return KindNotFound
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuth
		case http.StatusNotFound:
			return KindNotFound
		}
	}

	return KindTransport
}

// Code returns the AWS API error code in err's chain, or "".
func Code(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
