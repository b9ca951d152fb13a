package dalil

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API failures. Use errors.Is() to check.
var (
	ErrNotFound     = errors.New("dalil: not found")
	ErrUnauthorized = errors.New("dalil: unauthorized")
	ErrBadRequest   = errors.New("dalil: bad request")
	ErrUnavailable  = errors.New("dalil: service unavailable")
)

// APIError is a decoded error response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dalil: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Is maps HTTP status classes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusBadGateway
	}
	return false
}
