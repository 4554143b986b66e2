package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// tetsunaviHuhTheme returns a huh theme matching the formatter palette.
func tetsunaviHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themed(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(tetsunaviHuhTheme()).WithShowHelp(false)
}

func validateRequired(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// validateMoveDate accepts YYYY-MM-DD dates that are not before today.
func validateMoveDate(now time.Time) func(string) error {
	return func(s string) error {
		d, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
		if err != nil {
			return errors.New("日付はYYYY-MM-DD形式で入力してください")
		}
		if d.Format(domain.DateLayout) < now.Format(domain.DateLayout) {
			return errors.New("引越し日は今日以降の日付を入力してください")
		}
		return nil
	}
}

func prefectureSelect(title string, value *string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(domain.Prefectures...)...).
		Height(8).
		Value(value)
}

func cityInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("例: 世田谷区").
		CharLimit(50).
		Value(value).
		Validate(validateRequired("市区町村を入力してください"))
}

// intakeForm asks for the move route and date. Fields already set from
// flags are kept as the initial values.
func intakeForm(req *contract.CreateSessionRequest, now time.Time) *huh.Form {
	if req.MoveDate == "" {
		req.MoveDate = now.AddDate(0, 0, 1).Format(domain.DateLayout)
	}
	return themed(
		huh.NewGroup(
			prefectureSelect("引越し元の都道府県", &req.MoveFrom.Prefecture),
			cityInput("引越し元の市区町村", &req.MoveFrom.City),
		).Title("引越し情報を入力").
			Description("3つの情報を入力するだけで、あなた専用の手続きリストを作成します。"),
		huh.NewGroup(
			prefectureSelect("引越し先の都道府県", &req.MoveTo.Prefecture),
			cityInput("引越し先の市区町村", &req.MoveTo.City),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("引越し予定日 (YYYY-MM-DD)").
				Value(&req.MoveDate).
				Validate(validateMoveDate(now)),
		),
	)
}

// answerBinding holds the form value of one question until it is
// converted into an answer.
type answerBinding struct {
	question domain.Question
	text     string
	items    []string
	flag     bool
}

func (b *answerBinding) answer() (domain.Answer, bool) {
	var v domain.AnswerValue
	switch b.question.Type {
	case domain.QuestionMultipleChoice:
		if len(b.items) == 0 {
			return domain.Answer{}, false
		}
		v = domain.ChoicesAnswer(b.items...)
	case domain.QuestionBoolean:
		v = domain.BoolAnswer(b.flag)
	case domain.QuestionSingleChoice:
		if b.text == "" {
			return domain.Answer{}, false
		}
		v = domain.ChoiceAnswer(b.text)
	default:
		if strings.TrimSpace(b.text) == "" {
			return domain.Answer{}, false
		}
		v = domain.TextAnswer(strings.TrimSpace(b.text))
	}
	return domain.Answer{QuestionID: b.question.ID, Value: v}, true
}

func (b *answerBinding) field() huh.Field {
	q := b.question
	switch q.Type {
	case domain.QuestionSingleChoice:
		return huh.NewSelect[string]().
			Title(q.Text).
			Options(huh.NewOptions(q.Options...)...).
			Value(&b.text)
	case domain.QuestionMultipleChoice:
		ms := huh.NewMultiSelect[string]().
			Title(q.Text).
			Description("スペースで選択、Enter で次へ").
			Options(huh.NewOptions(q.Options...)...).
			Value(&b.items)
		if q.Required {
			ms = ms.Validate(func(items []string) error {
				if len(items) == 0 {
					return errors.New("回答を入力してください")
				}
				return nil
			})
		}
		return ms
	case domain.QuestionBoolean:
		return huh.NewConfirm().
			Title(q.Text).
			Affirmative("はい").
			Negative("いいえ").
			Value(&b.flag)
	default:
		in := huh.NewInput().Title(q.Text).Value(&b.text)
		if q.Required {
			in = in.Validate(validateRequired("回答を入力してください"))
		}
		return in
	}
}

// interviewForm shows one question per page. answers collects the result
// after Run returns.
func interviewForm(questions []domain.Question) (form *huh.Form, answers func() []domain.Answer) {
	bindings := make([]answerBinding, len(questions))
	groups := make([]*huh.Group, len(questions))
	for i, q := range questions {
		bindings[i].question = q
		groups[i] = huh.NewGroup(bindings[i].field())
	}
	return themed(groups...), func() []domain.Answer {
		out := make([]domain.Answer, 0, len(bindings))
		for i := range bindings {
			if a, ok := bindings[i].answer(); ok {
				out = append(out, a)
			}
		}
		return out
	}
}

// confirm asks a yes/no question.
func confirm(title string) (bool, error) {
	var ok bool
	err := themed(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("はい").Negative("いいえ").Value(&ok),
	)).Run()
	return ok, err
}
