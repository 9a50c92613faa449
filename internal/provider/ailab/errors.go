package ailab

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidEnvelope = errors.New("response is not a valid JSON envelope")
	ErrMissingImage    = errors.New("no image field in response")
	ErrInvalidBase64   = errors.New("image field is not valid base64")
)

// maxErrorBody limits how much of a failed response is kept on the error
const maxErrorBody = 2048

// APIError is a failure reported by the vision service itself: either a
// non-200 status or a 200 envelope carrying a nonzero error_code
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       int
	CodeText   string
	Message    string
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.StatusCode != http.StatusOK {
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	if e.CodeText != "" {
		return fmt.Sprintf("%s returned error_code %s: %s", e.Endpoint, e.CodeText, e.Message)
	}
	return fmt.Sprintf("%s returned error_code %d: %s", e.Endpoint, e.Code, e.Message)
}

// Detail is the reason the vision service gave, shown to clients as is
func (e *APIError) Detail() string {
	if e.StatusCode != http.StatusOK {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
	}
	if e.Message == "" {
		return e.Error()
	}
	return e.Message
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
