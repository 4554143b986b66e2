package formatter

import (
	"errors"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/api"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// FormatError renders err for the terminal. API failures show the
// backend's message with one line per rejected field and the request id
// when there is one.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render("✖ " + err.Error()))

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		for _, fe := range api.FieldErrors(err) {
			b.WriteString("\n  " + StyleYellow.Render(domain.CoalesceStr(fe.Field, "-")) + Dim(": ") + fe.Message)
		}
		if apiErr.RequestID != "" {
			b.WriteString("\n" + Dim("request id: "+apiErr.RequestID))
		}
	}

	var invalid *domain.InvalidAnswersError
	if errors.As(err, &invalid) {
		b.Reset()
		b.WriteString(StyleRed.Render("✖ " + contract.DefaultValidationMessage))
		for _, p := range invalid.Problems {
			b.WriteString("\n  " + StyleYellow.Render(p.QuestionID) + Dim(": ") + p.Message)
		}
	}
	return b.String()
}
