// Copyright 2025 The GoodWiki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apierror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Error classes reported by Classify.
const (
	ClassNetwork  = "network"
	ClassTimeout  = "timeout"
	ClassStatus   = "http_status"
	ClassDecode   = "decode"
	ClassAPI      = "api"
	ClassCanceled = "canceled"
	ClassUnknown  = "unknown"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// DecodeError is returned when the response body is not valid JSON.
type DecodeError struct {
	Snippet string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed JSON response: %q", e.Snippet)
}

// APIError carries the error object MediaWiki embeds in a 200 response.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Info)
}

// Inspector provides methods to classify API errors into specific categories.
type Inspector interface {
	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsTimeoutError returns true if the request ran past its deadline.
	IsTimeoutError(err error) bool

	// IsStatusError returns true if the API responded with a non-2xx status.
	IsStatusError(err error) bool

	// IsDecodeError returns true if the response body could not be parsed.
	IsDecodeError(err error) bool

	// IsAPIError returns true if the API reported an error object.
	IsAPIError(err error) bool
}

// ChainInspector checks the error chain for the typed errors of this package
// and net errors, then falls back to string matching for errors that lost
// their type on the way (for example errors formatted with %v).
type ChainInspector struct{}

// NewInspector creates a new ChainInspector.
func NewInspector() Inspector {
	return &ChainInspector{}
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *ChainInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsTimeoutError checks if the error is a deadline or client timeout.
func (i *ChainInspector) IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsStatusError checks if the error carries a non-2xx HTTP status.
func (i *ChainInspector) IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// IsDecodeError checks if the error is a malformed response body.
func (i *ChainInspector) IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "malformed json")
}

// IsAPIError checks if the error is an error object reported by the API.
func (i *ChainInspector) IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Classify returns the error class used in logs and metric labels.
// Typed errors are checked before the string based checks because error
// strings include the article title. Timeouts precede network errors since
// client timeouts are also net errors.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ClassCanceled
	}

	i := NewInspector()
	switch {
	case i.IsStatusError(err):
		return ClassStatus
	case i.IsAPIError(err):
		return ClassAPI
	case i.IsDecodeError(err):
		return ClassDecode
	case i.IsTimeoutError(err):
		return ClassTimeout
	case i.IsNetworkError(err):
		return ClassNetwork
	default:
		return ClassUnknown
	}
}
