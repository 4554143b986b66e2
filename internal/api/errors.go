package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tetsunavi/tetsunavi/internal/contract"
)

// Error codes used by the backend envelope. Backend-specific codes are
// passed through verbatim.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeTimeout        = "TIMEOUT_ERROR"
	CodeAIServiceError = "AI_SERVICE_ERROR"
)

// InternalMessage is shown for failures that carry no usable envelope.
const InternalMessage = "システムエラーが発生しました"

// Error is a failed API call. Message is the human-readable text from the
// backend (or a generic one) and is what Error() returns.
type Error struct {
	Status    int
	Code      string
	Message   string
	Details   any
	RequestID string

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// internalError normalizes transport and decoding failures.
func internalError(status int, cause error) *Error {
	return &Error{Status: status, Code: CodeInternal, Message: InternalMessage, cause: cause}
}

func validationError(err error) *Error {
	e := &Error{Code: CodeValidation, Message: contract.DefaultValidationMessage, cause: err}
	var ve *contract.ValidationError
	if errors.As(err, &ve) {
		e.Message = ve.Message
		e.Details = ve.Fields
	}
	return e
}

// CodeOf returns the envelope code of err, or "" when err is not an *Error.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsTransient reports whether retrying the call may succeed: transport
// failures and 408, 429 and 5xx responses.
func IsTransient(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch {
	case apiErr.Code == CodeValidation:
		return false
	case apiErr.Status == 0:
		return apiErr.cause != nil
	case apiErr.Status == http.StatusRequestTimeout, apiErr.Status == http.StatusTooManyRequests:
		return true
	default:
		return apiErr.Status >= 500
	}
}

// FieldErrors extracts field-level validation details, if any.
func FieldErrors(err error) []contract.FieldError {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return nil
	}
	switch d := apiErr.Details.(type) {
	case []contract.FieldError:
		return d
	case []any:
		out := make([]contract.FieldError, 0, len(d))
		for _, item := range d {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, contract.FieldError{Field: fieldPath(m), Message: fmt.Sprint(m["message"])})
		}
		return out
	default:
		return nil
	}
}

// fieldPath reads "field" or a zod-style "path" array.
func fieldPath(m map[string]any) string {
	if f, ok := m["field"].(string); ok {
		return f
	}
	if path, ok := m["path"].([]any); ok {
		s := ""
		for i, p := range path {
			if i > 0 {
				s += "."
			}
			s += fmt.Sprint(p)
		}
		return s
	}
	return ""
}
