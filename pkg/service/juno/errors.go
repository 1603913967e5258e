package juno

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrCircuitOpen is returned while the circuit breaker refuses requests
	ErrCircuitOpen = goerr.New("juno API circuit is open")

	// ErrEmptyResponse is returned when an entity was expected but the body
	// was empty or null
	ErrEmptyResponse = goerr.New("juno API returned no entity")
)

// APIError is a non-2xx response of the Juno API
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("juno API %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// NetworkError is a failure to reach the Juno API
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "juno API " + e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of an APIError in the chain, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsForbidden reports whether err is a 403 response
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNetworkError reports whether the API could not be reached
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
