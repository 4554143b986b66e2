package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// resolveSession returns the id of the session a command acts on: the
// --session flag when set, otherwise the active bookmark.
func resolveSession(ctx context.Context, app *App) (string, error) {
	b, err := app.Sessions.Resolve(ctx, app.sessionID)
	if err != nil {
		return "", err
	}
	return b.SessionID, nil
}

// completionFlag is a tri-state --status flag: all, done or todo.
type completionFlag struct {
	value *bool
}

var _ pflag.Value = (*completionFlag)(nil)

func (f *completionFlag) String() string {
	switch {
	case f.value == nil:
		return "all"
	case *f.value:
		return "done"
	default:
		return "todo"
	}
}

func (f *completionFlag) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "全て":
		f.value = nil
	case "done", "completed", "完了":
		v := true
		f.value = &v
	case "todo", "pending", "未完了":
		v := false
		f.value = &v
	default:
		return fmt.Errorf("status must be all, done or todo, got %q", s)
	}
	return nil
}

func (f *completionFlag) Type() string { return "status" }

// filterFlags binds the procedure list filters to a command.
type filterFlags struct {
	category string
	priority string
	status   completionFlag
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.category, "category", "", "種類で絞り込む (行政 / 民間)")
	fs.StringVar(&f.priority, "priority", "", "優先度で絞り込む (高 / 中 / 低)")
	fs.Var(&f.status, "status", "完了状態で絞り込む (all / done / todo)")
}

func (f *filterFlags) filter() contract.ProcedureFilter {
	return contract.ProcedureFilter{
		Category:  strings.TrimSpace(f.category),
		Priority:  strings.TrimSpace(f.priority),
		Completed: f.status.value,
	}
}

// parseAnswerFlags turns repeated --answer id=value flags into answers
// shaped for their questions.
func parseAnswerFlags(questions []domain.Question, raw []string) ([]domain.Answer, error) {
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	answers := make([]domain.Answer, 0, len(raw))
	for _, r := range raw {
		id, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("--answer %q: expected id=value", r)
		}
		q, known := byID[strings.TrimSpace(id)]
		if !known {
			return nil, fmt.Errorf("--answer %q: unknown question %q", r, id)
		}
		v, err := domain.ParseAnswer(q, value)
		if err != nil {
			return nil, fmt.Errorf("--answer %q: %w", r, err)
		}
		answers = append(answers, domain.Answer{QuestionID: q.ID, Value: v})
	}
	return answers, nil
}
