package contract

import "github.com/tetsunavi/tetsunavi/internal/domain"

// InterviewQuestionsResponse is the payload of GET /sessions/{id}/interview.
type InterviewQuestionsResponse struct {
	Questions     []domain.Question `json:"questions"`
	EstimatedTime int               `json:"estimatedTime"`
}

// InterviewAnswersRequest is submitted to POST /sessions/{id}/interview.
type InterviewAnswersRequest struct {
	Answers []domain.Answer `json:"answers"`
}

func (r InterviewAnswersRequest) Validate() error {
	var fe fieldErrors
	if len(r.Answers) == 0 {
		fe.add("answers", "少なくとも1つの回答が必要です")
	}
	for _, a := range r.Answers {
		if a.QuestionID == "" {
			fe.add("answers.questionId", "質問IDが必要です")
		}
		if a.Value.IsZero() {
			fe.add("answers.value", "回答の値が必要です")
		}
	}
	return fe.err()
}

// InterviewAnswersResponse acknowledges a completed interview.
type InterviewAnswersResponse struct {
	Status   string `json:"status"`
	NextStep string `json:"nextStep"`
}
