package schedulerapi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
)

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrBadRequest       = errors.New(ErrCodeBadRequest)
	ErrNotFound         = errors.New(ErrCodeNotFound)
	ErrConflict         = errors.New(ErrCodeConflict)
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusBadRequest:          ErrBadRequest,
	StatusNotFound:            ErrNotFound,
	StatusConflict:            ErrConflict,
	StatusUnprocessableEntity: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// APIError is returned for every non-2xx response. It unwraps to the
// sentinel matching its status code.
type APIError struct {
	Operation  Operation
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("%s failed: %d %s", e.Operation, e.StatusCode, e.Message))
}

func (e *APIError) Unwrap() error {
	return MapStatusToError(e.StatusCode)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a backend response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
