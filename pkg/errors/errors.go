// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// ErrorCode classifies a failure for callers and HTTP clients.
type ErrorCode string

// Request and infrastructure failures.
const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeUnavailable covers export stores and other backends that are
	// temporarily unreachable.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConflict means the admission gate is held by another upload.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Upload and document failures.
const (
	// ErrCodePayloadTooLarge means the body exceeds the upload ceiling.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeUnsupportedMediaType means the declared content type is not csv or xlsx.
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	// ErrCodeEmptyInput means the document has no rows at all.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeSchemaValidation means the header violates the column schema.
	ErrCodeSchemaValidation ErrorCode = "SCHEMA_VALIDATION"
	// ErrCodeInvalidInput means the document could not be read as a table.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Retryable reports whether repeating the same request may succeed.
// Document errors never are; a busy gate or a flaky backend may be.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrCodeTimeout, ErrCodeUnavailable, ErrCodeRateLimitExceeded,
		ErrCodeInternal, ErrCodeConflict:
		return true
	default:
		return false
	}
}

// StructuredError carries a code, a client-facing message, the underlying
// cause and key/value context that ends up in error response details.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface as "[CODE] message: cause".
func (e *StructuredError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// With returns e after setting one context entry.
func (e *StructuredError) With(key string, value any) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]any, 1)
	}
	e.Context[key] = value
	return e
}

// New returns an error without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return WrapWithContext(code, message, nil, nil)
}

// NewWithContext returns an error without a cause carrying a copy of context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return WrapWithContext(code, message, nil, context)
}

// Wrap returns an error with code and message around cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return WrapWithContext(code, message, cause, nil)
}

// WrapWithContext returns an error around cause carrying a copy of context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	e := &StructuredError{Code: code, Message: message, Cause: cause}
	if len(context) > 0 {
		e.Context = maps.Clone(context)
	}
	return e
}

// CodeOf returns the code of the first StructuredError in the chain of err,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
