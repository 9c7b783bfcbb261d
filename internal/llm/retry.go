package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

// retryBaseDelay is the first backoff step; tests shrink it.
var retryBaseDelay = time.Second

const retryMaxDelay = 30 * time.Second

// IsRetryableError checks if an LLM API error is worth retrying.
// It covers common transient failures: network errors, rate limits,
// server errors, and provider-specific overload conditions.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Standard io errors
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"connection reset",
		"connection refused",
		"i/o timeout",
		"no such host",
		"overloaded_error",
		"server_error",
	}
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	// Match patterns like "status 429", "429 too many", "http 503"
	for _, code := range []int{429, 500, 502, 503, 529} {
		if strings.Contains(msg, fmt.Sprintf("%d", code)) {
			return true
		}
	}

	return false
}

// RetryLLMCall retries an LLM function with exponential backoff.
// maxRetries is the number of retry attempts (not counting the initial call).
// Only retries if IsRetryableError returns true for the error.
func RetryLLMCall(ctx context.Context, maxRetries int, logger *slog.Logger, fn func() (*Response, error)) (*Response, error) {
	resp, err := fn()
	if err == nil {
		return resp, nil
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if !IsRetryableError(err) {
			return nil, err
		}

		// Check context before sleeping
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		backoff := hrerrors.CalculateBackoff(retryBaseDelay, attempt, retryMaxDelay)
		if logger != nil {
			logger.Warn("LLM call failed, retrying",
				"error", err,
				"backoff", backoff,
				"attempt", attempt+1,
				"max_retries", maxRetries)
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		resp, err = fn()
		if err == nil {
			return resp, nil
		}
	}

	return nil, err
}
