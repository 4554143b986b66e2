package contract

import (
	"strings"
	"unicode/utf8"
)

// DefaultValidationMessage is the user-facing summary of a rejected request.
const DefaultValidationMessage = "入力内容に誤りがあります"

// FieldError pins one validation failure to a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a request is rejected before it is sent.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

// checkLength adds an error unless s has between lo and hi characters.
func (fe *fieldErrors) checkLength(field, s string, lo, hi int, emptyMsg string) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < lo:
		fe.add(field, emptyMsg)
	case n > hi:
		fe.add(field, "文字数が多すぎます")
	}
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Message: DefaultValidationMessage, Fields: fe}
}
