/*
Copyright 2025 The Zonegate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dnsmodel

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies every failure the gateway surfaces. The set is
// closed so upper layers can switch on it without vendor knowledge.
type ErrorKind string

const (
	ErrMissingCredentials ErrorKind = "MissingCredentials"
	ErrAuthFailed         ErrorKind = "AuthFailed"
	ErrZoneNotFound       ErrorKind = "ZoneNotFound"
	ErrRecordNotFound     ErrorKind = "RecordNotFound"
	ErrInvalidType        ErrorKind = "InvalidType"
	ErrInvalidValue       ErrorKind = "InvalidValue"
	ErrUnsupported        ErrorKind = "Unsupported"
	ErrRateLimited        ErrorKind = "RateLimited"
	ErrThrottled          ErrorKind = "Throttled"
	ErrNetwork            ErrorKind = "Network"
	ErrInvalidResponse    ErrorKind = "InvalidResponse"
	ErrHTTP               ErrorKind = "HttpError"
	ErrVendor             ErrorKind = "VendorError"
	ErrRetryExhausted     ErrorKind = "RetryExhausted"
)

// Error is the single error envelope crossing the gateway boundary. The
// JSON shape is stable: callers in other processes switch on Kind and may
// show VendorCode and Message verbatim.
type Error struct {
	Kind       ErrorKind      `json:"kind"`
	VendorCode string         `json:"vendorCode,omitempty"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"httpStatus,omitempty"`
	Retriable  bool           `json:"retriable"`
	Meta       map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	if e.VendorCode != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.VendorCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a typed error. Retriability defaults to false; transport
// and base-provider code decide it from status, vendor code and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf builds a typed error with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithMeta attaches one meta entry and returns the error for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// AsError unwraps err into the typed envelope when possible.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a typed error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == kind
}

// retriableNetworkKeywords covers the transient failure shapes of the Go
// HTTP stack and the vendor gateways in front of it.
var retriableNetworkKeywords = []string{
	"timeout",
	"timed out",
	"connection reset",
	"dns again",
	"host not found",
	"socket hang up",
	"network",
	"connection refused",
}

// RetriableNetworkMessage reports whether a transport error message looks
// transient.
func RetriableNetworkMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, kw := range retriableNetworkKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// RetriableHTTPStatus reports whether an HTTP status alone justifies a
// retry.
func RetriableHTTPStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
