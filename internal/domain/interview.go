package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Question is one interview prompt.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// AnswerValue is the value of an answer. Its shape follows the question type:
// a string for single_choice and text, a string list for multiple_choice and
// a bool for boolean. The zero value means "not answered".
type AnswerValue struct {
	kind  QuestionType
	text  string
	items []string
	flag  bool
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{kind: QuestionText, text: s}
}

func ChoiceAnswer(option string) AnswerValue {
	return AnswerValue{kind: QuestionSingleChoice, text: option}
}

func ChoicesAnswer(options ...string) AnswerValue {
	return AnswerValue{kind: QuestionMultipleChoice, items: slices.Clone(options)}
}

func BoolAnswer(b bool) AnswerValue {
	return AnswerValue{kind: QuestionBoolean, flag: b}
}

func (v AnswerValue) Kind() QuestionType { return v.kind }
func (v AnswerValue) Text() string       { return v.text }
func (v AnswerValue) Items() []string    { return slices.Clone(v.items) }
func (v AnswerValue) Bool() bool         { return v.flag }
func (v AnswerValue) IsZero() bool       { return v.kind == "" }

func (v AnswerValue) String() string {
	switch v.kind {
	case QuestionText, QuestionSingleChoice:
		return v.text
	case QuestionMultipleChoice:
		return strings.Join(v.items, ", ")
	case QuestionBoolean:
		if v.flag {
			return "はい"
		}
		return "いいえ"
	default:
		return ""
	}
}

// empty reports whether the value carries no usable answer.
func (v AnswerValue) empty() bool {
	switch v.kind {
	case QuestionText, QuestionSingleChoice:
		return strings.TrimSpace(v.text) == ""
	case QuestionMultipleChoice:
		return len(v.items) == 0
	case QuestionBoolean:
		return false
	default:
		return true
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case QuestionText, QuestionSingleChoice:
		return json.Marshal(v.text)
	case QuestionMultipleChoice:
		items := v.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	case QuestionBoolean:
		return json.Marshal(v.flag)
	default:
		return nil, fmt.Errorf("answer value has no type")
	}
}

// UnmarshalJSON infers the shape from the JSON token. A bare string is read
// as text; it still satisfies a single_choice question.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = ChoicesAnswer(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAnswer(b)
	default:
		return fmt.Errorf("unsupported answer value %s", string(data))
	}
	return nil
}

// Answer binds a question id to a value.
type Answer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"value"`
}

// ParseAnswer converts raw user input into a value shaped for q.
func ParseAnswer(q Question, raw string) (AnswerValue, error) {
	raw = strings.TrimSpace(raw)
	switch q.Type {
	case QuestionSingleChoice:
		return ChoiceAnswer(raw), nil
	case QuestionMultipleChoice:
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		return ChoicesAnswer(items...), nil
	case QuestionText:
		return TextAnswer(raw), nil
	case QuestionBoolean:
		switch strings.ToLower(raw) {
		case "はい", "yes", "y":
			return BoolAnswer(true), nil
		case "いいえ", "no", "n":
			return BoolAnswer(false), nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("question %s expects yes or no, got %q", q.ID, raw)
		}
		return BoolAnswer(b), nil
	default:
		return AnswerValue{}, fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
}

// AnswerProblem describes why one answer was rejected.
type AnswerProblem struct {
	QuestionID string
	Message    string
}

// InvalidAnswersError lists every rejected or missing answer.
type InvalidAnswersError struct {
	Problems []AnswerProblem
}

func (e *InvalidAnswersError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.QuestionID+": "+p.Message)
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

// ValidateAnswers checks answers against the questions they respond to.
// Every required question must have a non-empty answer, and each value must
// have the shape its question type declares.
func ValidateAnswers(questions []Question, answers []Answer) error {
	byID := make(map[string]AnswerValue, len(answers))
	var problems []AnswerProblem
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for _, a := range answers {
		if !known[a.QuestionID] {
			problems = append(problems, AnswerProblem{QuestionID: a.QuestionID, Message: "存在しない質問です"})
			continue
		}
		byID[a.QuestionID] = a.Value
	}

	for _, q := range questions {
		v, ok := byID[q.ID]
		if !ok || v.empty() {
			if q.Required {
				problems = append(problems, AnswerProblem{QuestionID: q.ID, Message: "回答が必要です"})
			}
			continue
		}
		if msg := checkShape(q, v); msg != "" {
			problems = append(problems, AnswerProblem{QuestionID: q.ID, Message: msg})
		}
	}

	if len(problems) > 0 {
		return &InvalidAnswersError{Problems: problems}
	}
	return nil
}

func checkShape(q Question, v AnswerValue) string {
	switch q.Type {
	case QuestionSingleChoice:
		if v.kind != QuestionSingleChoice && v.kind != QuestionText {
			return "選択肢から1つ選んでください"
		}
		if len(q.Options) > 0 && !slices.Contains(q.Options, v.text) {
			return fmt.Sprintf("%q は選択肢にありません", v.text)
		}
	case QuestionMultipleChoice:
		if v.kind != QuestionMultipleChoice {
			return "選択肢から選んでください"
		}
		for _, item := range v.items {
			if len(q.Options) > 0 && !slices.Contains(q.Options, item) {
				return fmt.Sprintf("%q は選択肢にありません", item)
			}
		}
	case QuestionText:
		if v.kind != QuestionText && v.kind != QuestionSingleChoice {
			return "テキストで回答してください"
		}
	case QuestionBoolean:
		if v.kind != QuestionBoolean {
			return "はい/いいえで回答してください"
		}
	default:
		return fmt.Sprintf("未対応の質問タイプです: %s", q.Type)
	}
	return ""
}
