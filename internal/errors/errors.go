// Package errors defines the tool error envelope shared by the HTTP, MCP and
// chat paths, and the retryable/permanent classification used when calling
// upstream services (LLM provider, employee service).
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Code identifies a class of tool or chat failure. It is the "code" field of
// the JSON error envelope.
type Code string

const (
	CodeInvalidRequest      Code = "invalid_request"
	CodeToolNotFound        Code = "tool_not_found"
	CodeInvalidTable        Code = "invalid_table"
	CodeRejectedQuery       Code = "rejected_query"
	CodeUpstreamUnavailable Code = "upstream_unavailable"
	CodeExecution           Code = "execution_error"
	CodeLoopExceeded        Code = "loop_exceeded"
	CodeChat                Code = "chat_error"
)

// ToolError is the uniform failure value. Message is what callers (HTTP
// clients, the model) see; Err keeps the underlying cause for logs and
// errors.Is/As.
type ToolError struct {
	Code    Code
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is matches two ToolErrors by code so sentinels below work with errors.Is.
func (e *ToolError) Is(target error) bool {
	var te *ToolError
	if !errors.As(target, &te) {
		return false
	}
	return te.Code == e.Code && te.Message == ""
}

// Sentinels for errors.Is checks. They carry no message.
var (
	ErrInvalidRequest      = &ToolError{Code: CodeInvalidRequest}
	ErrToolNotFound        = &ToolError{Code: CodeToolNotFound}
	ErrInvalidTable        = &ToolError{Code: CodeInvalidTable}
	ErrRejectedQuery       = &ToolError{Code: CodeRejectedQuery}
	ErrUpstreamUnavailable = &ToolError{Code: CodeUpstreamUnavailable}
	ErrExecution           = &ToolError{Code: CodeExecution}
	ErrLoopExceeded        = &ToolError{Code: CodeLoopExceeded}
)

// New builds a ToolError with a formatted message.
func New(code Code, format string, args ...interface{}) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a ToolError around a cause.
func Wrap(code Code, err error, message string) *ToolError {
	return &ToolError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first ToolError in err's chain, or
// fallback when there is none.
func CodeOf(err error, fallback Code) Code {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Code
	}
	return fallback
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var te *ToolError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return err.Error()
}

// HTTPStatus maps a code to the status used by the HTTP transport.
// Everything that is not a request problem is an execution failure (500).
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeToolNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorType categorizes errors for retry decisions
type ErrorType string

const (
	// ErrorTypeRetryable indicates the error might succeed on retry
	ErrorTypeRetryable ErrorType = "retryable"
	// ErrorTypePermanent indicates the error will not succeed on retry
	ErrorTypePermanent ErrorType = "permanent"
	// ErrorTypePanic indicates a panic was recovered
	ErrorTypePanic ErrorType = "panic"
)

// RetryableError represents errors that may succeed on retry
// Examples: network timeouts, rate limits, temporary unavailability
type RetryableError struct {
	Err  error
	Kind string
}

func (e *RetryableError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("[retryable:%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[retryable] %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// PermanentError represents errors that will not succeed on retry
// Examples: not found, bad request, invalid arguments
type PermanentError struct {
	Err  error
	Kind string
}

func (e *PermanentError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("[permanent:%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[permanent] %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewRetryableError wraps an error as retryable
func NewRetryableError(err error, kind string) error {
	return &RetryableError{Err: err, Kind: kind}
}

// NewPermanentError wraps an error as permanent
func NewPermanentError(err error, kind string) error {
	return &PermanentError{Err: err, Kind: kind}
}

// IsRetryable checks if an error is retryable. Explicit wrappers win over
// message classification.
func IsRetryable(err error) bool {
	return GetErrorType(err) == ErrorTypeRetryable
}

// GetErrorType returns the ErrorType for any error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var pe *PermanentError
	if errors.As(err, &pe) {
		return ErrorTypePermanent
	}

	var re *RetryableError
	if errors.As(err, &re) {
		return ErrorTypeRetryable
	}

	return ClassifyError(err)
}

// ClassifyError determines the error type based on message patterns.
// Unknown errors are permanent: the upstreams here are request/response
// services and retrying an unexplained failure only delays the answer.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	msg := strings.ToLower(err.Error())

	retryablePatterns := []string{
		// Network errors
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"connection timed out",
		"unexpected eof",
		// Rate limiting / overload
		"rate limit",
		"too many requests",
		"429",
		"overloaded",
		"529",
		// Server side
		"500 internal server error",
		"502",
		"503",
		"504",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeRetryable
		}
	}

	return ErrorTypePermanent
}

// RecoveryResult holds the result of a recovered panic
type RecoveryResult struct {
	Recovered  bool
	PanicValue interface{}
	ErrorMsg   string
	ErrorType  ErrorType
}

// RecoverPanic converts a recovered panic value into a RecoveryResult.
// Use with defer:
//
//	defer func() {
//	    if r := errors.RecoverPanic(recover()); r.Recovered {
//	        // Handle recovered panic
//	    }
//	}()
func RecoverPanic(r interface{}) RecoveryResult {
	if r == nil {
		return RecoveryResult{Recovered: false}
	}

	result := RecoveryResult{
		Recovered:  true,
		PanicValue: r,
		ErrorType:  ErrorTypePanic,
	}

	switch v := r.(type) {
	case error:
		result.ErrorMsg = fmt.Sprintf("panic: %v", v)
	case string:
		result.ErrorMsg = fmt.Sprintf("panic: %s", v)
	default:
		result.ErrorMsg = fmt.Sprintf("panic: %+v", v)
	}

	return result
}

// CalculateBackoff calculates exponential backoff delay
// baseDelay: initial delay
// retryCount: current retry attempt (0-indexed)
// maxDelay: maximum delay cap
func CalculateBackoff(baseDelay time.Duration, retryCount int, maxDelay time.Duration) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}

	delay := baseDelay * (1 << retryCount)

	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}

	return delay
}
