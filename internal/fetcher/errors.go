package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrTooManyRedirects is returned when the redirect hop limit is exceeded.
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrUnexpectedStatus marks a response outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchError reports a failed page fetch. StatusCode is zero when no response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch gave up waiting for the remote host.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Temporary reports whether retrying the same URL later could succeed.
func (e *FetchError) Temporary() bool {
	if e.Timeout() {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Reason is a short label for metrics and run history.
func (e *FetchError) Reason() string {
	switch {
	case e.Timeout():
		return "timeout"
	case errors.Is(e.Err, ErrTooManyRedirects):
		return "too_many_redirects"
	case e.StatusCode > 0:
		return "http_status"
	default:
		return "network"
	}
}
