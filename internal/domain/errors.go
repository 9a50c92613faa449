package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same Code, so copies made by
// WithError still satisfy errors.Is against the pre-defined values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Effect pipeline errors

	ErrInvalidSelection = &AppError{
		Code:       "INVALID_SELECTION",
		Message:    "Unknown effect selection",
		StatusCode: 422,
	}

	ErrConfig = &AppError{
		Code:       "CONFIG_ERROR",
		Message:    "Service is misconfigured",
		StatusCode: 500,
	}

	ErrNetwork = &AppError{
		Code:       "NETWORK_ERROR",
		Message:    "Could not reach the vision service",
		StatusCode: 502,
	}

	ErrUpstreamAPI = &AppError{
		Code:       "API_ERROR",
		Message:    "Vision service rejected the request",
		StatusCode: 502,
	}

	ErrDecode = &AppError{
		Code:       "DECODE_ERROR",
		Message:    "Vision service returned an unreadable image",
		StatusCode: 502,
	}

	ErrChainSkipped = &AppError{
		Code:       "CHAIN_SKIPPED",
		Message:    "Skipped because the expression stage failed",
		StatusCode: 424,
	}
)
