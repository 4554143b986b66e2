package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestions() []Question {
	return []Question{
		{ID: "q1", Text: "家族構成は？", Type: QuestionSingleChoice, Options: []string{"単身", "夫婦", "子供あり"}, Required: true},
		{ID: "q2", Text: "車をお持ちですか？", Type: QuestionBoolean, Required: true},
		{ID: "q3", Text: "ペットは？", Type: QuestionMultipleChoice, Options: []string{"犬", "猫", "その他"}, Required: false},
		{ID: "q4", Text: "その他伝えたいこと", Type: QuestionText, Required: false},
	}
}

func TestAnswerValue_MarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		v    AnswerValue
		want string
	}{
		{"text", TextAnswer("メモ"), `"メモ"`},
		{"choice", ChoiceAnswer("単身"), `"単身"`},
		{"choices", ChoicesAnswer("犬", "猫"), `["犬","猫"]`},
		{"empty choices", ChoicesAnswer(), `[]`},
		{"bool", BoolAnswer(true), `true`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.v)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}

func TestAnswerValue_MarshalZeroFails(t *testing.T) {
	_, err := json.Marshal(Answer{QuestionID: "q1"})
	assert.Error(t, err)
}

func TestAnswerValue_UnmarshalInfersShape(t *testing.T) {
	var answers []Answer
	raw := `[{"questionId":"a","value":"x"},{"questionId":"b","value":["x","y"]},{"questionId":"c","value":false}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &answers))
	require.Len(t, answers, 3)

	assert.Equal(t, QuestionText, answers[0].Value.Kind())
	assert.Equal(t, "x", answers[0].Value.Text())
	assert.Equal(t, QuestionMultipleChoice, answers[1].Value.Kind())
	assert.Equal(t, []string{"x", "y"}, answers[1].Value.Items())
	assert.Equal(t, QuestionBoolean, answers[2].Value.Kind())
	assert.False(t, answers[2].Value.Bool())
}

func TestAnswerValue_UnmarshalRejectsNumbers(t *testing.T) {
	var v AnswerValue
	assert.Error(t, json.Unmarshal([]byte(`42`), &v))
}

func TestParseAnswer_PerType(t *testing.T) {
	qs := testQuestions()

	v, err := ParseAnswer(qs[0], " 夫婦 ")
	require.NoError(t, err)
	assert.Equal(t, QuestionSingleChoice, v.Kind())
	assert.Equal(t, "夫婦", v.Text())

	v, err = ParseAnswer(qs[1], "はい")
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = ParseAnswer(qs[1], "false")
	require.NoError(t, err)
	assert.False(t, v.Bool())

	_, err = ParseAnswer(qs[1], "maybe")
	assert.Error(t, err)

	v, err = ParseAnswer(qs[2], "犬, 猫,")
	require.NoError(t, err)
	assert.Equal(t, []string{"犬", "猫"}, v.Items())

	v, err = ParseAnswer(qs[3], "特になし")
	require.NoError(t, err)
	assert.Equal(t, "特になし", v.Text())

	_, err = ParseAnswer(Question{ID: "bad", Type: "slider"}, "1")
	assert.Error(t, err)
}

func TestValidateAnswers_AllRequiredAnswered(t *testing.T) {
	err := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q1", Value: ChoiceAnswer("単身")},
		{QuestionID: "q2", Value: BoolAnswer(false)},
	})
	assert.NoError(t, err)
}

func TestValidateAnswers_MissingRequired(t *testing.T) {
	err := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q2", Value: BoolAnswer(true)},
	})
	var invalid *InvalidAnswersError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Problems, 1)
	assert.Equal(t, "q1", invalid.Problems[0].QuestionID)
}

func TestValidateAnswers_BlankTextCountsAsMissing(t *testing.T) {
	qs := []Question{{ID: "t", Type: QuestionText, Required: true}}
	err := ValidateAnswers(qs, []Answer{{QuestionID: "t", Value: TextAnswer("   ")}})
	assert.Error(t, err)
}

func TestValidateAnswers_WrongShapeAndUnknownOption(t *testing.T) {
	err := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q1", Value: ChoiceAnswer("大家族")},
		{QuestionID: "q2", Value: TextAnswer("yes")},
		{QuestionID: "q3", Value: ChoicesAnswer("鳥")},
		{QuestionID: "zz", Value: TextAnswer("?")},
	})
	var invalid *InvalidAnswersError
	require.ErrorAs(t, err, &invalid)

	ids := make([]string, 0, len(invalid.Problems))
	for _, p := range invalid.Problems {
		ids = append(ids, p.QuestionID)
	}
	assert.ElementsMatch(t, []string{"zz", "q1", "q2", "q3"}, ids)
}

func TestValidateAnswers_TextAcceptedForSingleChoice(t *testing.T) {
	qs := testQuestions()[:1]
	err := ValidateAnswers(qs, []Answer{{QuestionID: "q1", Value: TextAnswer("単身")}})
	assert.NoError(t, err)
}
