package service

import (
	"context"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

// Backend is the subset of api.Client the services call.
type Backend interface {
	CreateSession(ctx context.Context, req contract.CreateSessionRequest) (*contract.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetInterviewQuestions(ctx context.Context, sessionID string) (*contract.InterviewQuestionsResponse, error)
	SubmitInterviewAnswers(ctx context.Context, sessionID string, req contract.InterviewAnswersRequest) (*contract.InterviewAnswersResponse, error)
	GenerateProcedures(ctx context.Context, sessionID string) (*contract.ProcedureListResponse, error)
	ListProcedures(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (*contract.ProcedureListResponse, error)
	GetProcedureDetail(ctx context.Context, sessionID, procedureID string) (*domain.ProcedureDetail, error)
	UpdateProcedureCompletion(ctx context.Context, sessionID, procedureID string, req contract.UpdateProcedureRequest) (*contract.UpdateProcedureResponse, error)
	GetTimeline(ctx context.Context, sessionID string) (*domain.Timeline, error)
	SendChatMessage(ctx context.Context, sessionID string, req contract.ChatRequest) (*contract.ChatResponse, error)
}

type SessionService interface {
	// Create submits the intake form, caches the new session and bookmarks
	// it as the active one.
	Create(ctx context.Context, req contract.CreateSessionRequest) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Questions(ctx context.Context, sessionID string) (*contract.InterviewQuestionsResponse, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers []domain.Answer) (*contract.InterviewAnswersResponse, error)

	// Resolve picks the session to work on: sessionID when given, otherwise
	// the active or most recently used bookmark.
	Resolve(ctx context.Context, sessionID string) (*domain.Bookmark, error)
	Use(ctx context.Context, sessionID string) (*domain.Bookmark, error)
	Bookmarks(ctx context.Context) ([]*domain.Bookmark, error)
	Forget(ctx context.Context, sessionID string) error
}

type ProcedureService interface {
	List(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (*contract.ProcedureListResponse, error)
	// Load lists procedures and, the first time the session turns out to
	// have none, generates them. generated reports whether that happened.
	Load(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (list *contract.ProcedureListResponse, generated bool, err error)
	Generate(ctx context.Context, sessionID string) (*contract.ProcedureListResponse, error)
	Detail(ctx context.Context, sessionID, procedureID string) (*domain.ProcedureDetail, error)
	SetCompleted(ctx context.Context, sessionID, procedureID string, done bool) (*contract.UpdateProcedureResponse, error)
}

type TimelineService interface {
	Get(ctx context.Context, sessionID string) (*domain.Timeline, error)
	Merged(ctx context.Context, sessionID string) ([]view.Entry, error)
	// Export writes the calendar file of the session into dir and returns
	// its path.
	Export(ctx context.Context, sessionID, dir string, now time.Time) (string, error)
}

type ChatService interface {
	// Conversation returns the conversation of a session, creating it on
	// first use. The same value is returned for the life of the service.
	Conversation(sessionID string) *Conversation
}
