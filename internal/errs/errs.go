package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ConfigError reports required configuration that is missing.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// TimeoutError reports that a bounded request ran past its deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// HTTPError is a response outside the accepted status range.
type HTTPError struct {
	Status int
	Body   string
	URL    string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP_%d @ %s", e.Status, e.URL)
	}
	return fmt.Sprintf("HTTP_%d @ %s: %s", e.Status, e.URL, e.Body)
}

// TransportError is a low-level I/O failure: dial, TLS, broken body, disk write.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// IsMethodNotAllowed reports whether err is an HTTP 405.
func IsMethodNotAllowed(err error) bool {
	return Status(err) == http.StatusMethodNotAllowed
}

// IsTimeout reports whether err is a bounded request deadline expiry.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsConfig reports whether err is a missing configuration error.
func IsConfig(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
