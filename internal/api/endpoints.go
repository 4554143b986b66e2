package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// CreateSession validates the intake form and creates a session.
func (c *Client) CreateSession(ctx context.Context, req contract.CreateSessionRequest) (*contract.CreateSessionResponse, error) {
	if err := req.Validate(c.now()); err != nil {
		return nil, validationError(err)
	}
	resp, err := do[contract.CreateSessionResponse](ctx, c, http.MethodPost, "/sessions", req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	resp, err := do[domain.Session](ctx, c, http.MethodGet, sessionPath(sessionID), nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetInterviewQuestions(ctx context.Context, sessionID string) (*contract.InterviewQuestionsResponse, error) {
	resp, err := do[contract.InterviewQuestionsResponse](ctx, c, http.MethodGet, sessionPath(sessionID, "interview"), nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitInterviewAnswers requires at least one answer.
func (c *Client) SubmitInterviewAnswers(ctx context.Context, sessionID string, req contract.InterviewAnswersRequest) (*contract.InterviewAnswersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	resp, err := do[contract.InterviewAnswersResponse](ctx, c, http.MethodPost, sessionPath(sessionID, "interview"), req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GenerateProcedures(ctx context.Context, sessionID string) (*contract.ProcedureListResponse, error) {
	resp, err := do[contract.ProcedureListResponse](ctx, c, http.MethodPost, sessionPath(sessionID, "procedures"), nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProcedures(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (*contract.ProcedureListResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, validationError(err)
	}
	path := sessionPath(sessionID, "procedures")
	if q := filter.Query().Encode(); q != "" {
		path += "?" + q
	}
	resp, err := do[contract.ProcedureListResponse](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProcedureDetail(ctx context.Context, sessionID, procedureID string) (*domain.ProcedureDetail, error) {
	resp, err := do[domain.ProcedureDetail](ctx, c, http.MethodGet, sessionPath(sessionID, "procedures", procedureID), nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProcedureCompletion(ctx context.Context, sessionID, procedureID string, req contract.UpdateProcedureRequest) (*contract.UpdateProcedureResponse, error) {
	resp, err := do[contract.UpdateProcedureResponse](ctx, c, http.MethodPatch, sessionPath(sessionID, "procedures", procedureID), req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTimeline(ctx context.Context, sessionID string) (*domain.Timeline, error) {
	resp, err := do[domain.Timeline](ctx, c, http.MethodGet, sessionPath(sessionID, "timeline"), nil)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendChatMessage trims the message and bounds it to 1–500 characters
// before sending.
func (c *Client) SendChatMessage(ctx context.Context, sessionID string, req contract.ChatRequest) (*contract.ChatResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	resp, err := do[contract.ChatResponse](ctx, c, http.MethodPost, sessionPath(sessionID, "chat"), req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
