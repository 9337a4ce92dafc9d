// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a gateway call failed.
type ErrorKind int

const (
	// KindTransport means no response was obtained.
	KindTransport ErrorKind = iota + 1
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindApplication means a 2xx answer that was not a successful envelope.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

const (
	msgNetwork       = "Network error occurred"
	msgRequestFailed = "API request failed"
	msgInvalidBody   = "invalid response body"
	msgNoHierarchy   = "No hierarchy data found in response"
)

// Error is the single failure value returned by every gateway call. Its
// message is what the store shows to the user.
type Error struct {
	Kind    ErrorKind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether repeating the same call may succeed.
func (e *Error) IsRetryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindHTTP:
		return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
	default:
		return false
	}
}

// IsRetryable reports whether err is a gateway error worth retrying.
func IsRetryable(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.IsRetryable()
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: msgNetwork, Err: err}
}

// httpError prefers the server message and falls back to the status line.
func httpError(op string, status int, serverMsg string) *Error {
	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("API Error: %d %s", status, http.StatusText(status))
	}
	return &Error{Kind: KindHTTP, Op: op, Status: status, Message: msg}
}

func applicationError(op string, status int, msg string, cause error) *Error {
	return &Error{Kind: KindApplication, Op: op, Status: status, Message: msg, Err: cause}
}
