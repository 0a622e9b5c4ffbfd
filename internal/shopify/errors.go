package shopify

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials indicates the shop domain or access token is not configured
var ErrMissingCredentials = errors.New("shopify credentials are not configured")

// ErrFilterWithCursor indicates a status filter was combined with a page cursor.
// The cursor already encodes the original filter; sending both is a protocol
// violation the upstream API rejects.
var ErrFilterWithCursor = errors.New("status filters cannot be combined with a page cursor")

// HTTPError represents a non-2xx response from the Shopify Admin API
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shopify API error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shopify API error: HTTP %d", e.StatusCode)
}

// Retryable reports whether the caller may retry the same page after a backoff.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// RequestError represents a transport-level failure (DNS, connection, timeout)
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("shopify request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transient failure worth retrying the
// same page for. Classification happens once at the HTTP boundary; callers
// never inspect error messages.
func IsRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
