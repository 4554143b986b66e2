package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// Route names accepted by Backend.Fail and Backend.Calls.
const (
	RouteCreateSession = "createSession"
	RouteGetSession    = "getSession"
	RouteQuestions     = "questions"
	RouteAnswers       = "answers"
	RouteGenerate      = "generate"
	RouteList          = "list"
	RouteDetail        = "detail"
	RouteUpdate        = "update"
	RouteTimeline      = "timeline"
	RouteChat          = "chat"
)

type fakeSession struct {
	session    domain.Session
	answers    []domain.Answer
	procedures []domain.ProcedureDetail
}

type fault struct {
	status  int
	code    string
	message string
	times   int
}

// Backend is an in-memory stand-in for the relocation REST API, served by
// httptest. It speaks the same envelope as the real service.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	sessions map[string]*fakeSession
	calls    map[string]int
	faults   map[string]*fault
	latency  map[string]time.Duration
	// Suggestions is returned with every chat reply when non-nil.
	Suggestions []string
	// Catalogue is what generation produces. Defaults to DefaultProcedures.
	Catalogue []domain.ProcedureDetail
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		sessions:  make(map[string]*fakeSession),
		calls:     make(map[string]int),
		faults:    make(map[string]*fault),
		latency:   make(map[string]time.Duration),
		Catalogue: DefaultProcedures(),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL to configure api.Client with.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", b.handle(RouteCreateSession, b.createSession))
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", b.handle(RouteGetSession, b.withSession(b.getSession)))
			r.Get("/interview", b.handle(RouteQuestions, b.withSession(b.questions)))
			r.Post("/interview", b.handle(RouteAnswers, b.withSession(b.answers)))
			r.Post("/procedures", b.handle(RouteGenerate, b.withSession(b.generate)))
			r.Get("/procedures", b.handle(RouteList, b.withSession(b.list)))
			r.Get("/procedures/{procedureID}", b.handle(RouteDetail, b.withSession(b.detail)))
			r.Patch("/procedures/{procedureID}", b.handle(RouteUpdate, b.withSession(b.update)))
			r.Get("/timeline", b.handle(RouteTimeline, b.withSession(b.timeline)))
			r.Post("/chat", b.handle(RouteChat, b.withSession(b.chat)))
		})
	})
	return r
}

// Fail makes the next times calls of route answer with status and an
// error envelope. A zero code sends a body that is not an envelope.
func (b *Backend) Fail(route string, status int, code, message string, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[route] = &fault{status: status, code: code, message: message, times: times}
}

// Delay holds every call of route for d before answering.
func (b *Backend) Delay(route string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latency[route] = d
}

// Calls returns how many requests route has received, including failed ones.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Seed registers a session directly, bypassing validation.
func (b *Backend) Seed(s domain.Session, procs ...domain.ProcedureDetail) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[s.SessionID] = &fakeSession{session: s, procedures: procs}
}

// Procedures returns a copy of the stored procedures of a session.
func (b *Backend) Procedures(sessionID string) []domain.ProcedureDetail {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]domain.ProcedureDetail(nil), s.procedures...)
}

// Answers returns the answers the session received.
func (b *Backend) Answers(sessionID string) []domain.Answer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sessions[sessionID]; ok {
		return append([]domain.Answer(nil), s.answers...)
	}
	return nil
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *fakeSession)

func (b *Backend) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		delay := b.latency[route]
		f := b.faults[route]
		var injected *fault
		if f != nil && f.times > 0 {
			f.times--
			cp := *f
			injected = &cp
		}
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if injected != nil {
			if injected.code == "" {
				w.WriteHeader(injected.status)
				fmt.Fprint(w, "<html>upstream error</html>")
				return
			}
			writeError(w, r, injected.status, injected.code, injected.message)
			return
		}
		next(w, r)
	}
}

func (b *Backend) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		b.mu.Lock()
		s, ok := b.sessions[id]
		b.mu.Unlock()
		if !ok {
			writeError(w, r, http.StatusNotFound, "NOT_FOUND", "セッションが見つかりません")
			return
		}
		next(w, r, s)
	}
}

func (b *Backend) createSession(w http.ResponseWriter, r *http.Request) {
	var req contract.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	s := domain.Session{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Status:    domain.SessionCreated,
		MoveFrom:  req.MoveFrom,
		MoveTo:    req.MoveTo,
		MoveDate:  req.MoveDate,
	}
	b.Seed(s)
	writeData(w, r, http.StatusCreated, contract.CreateSessionResponse{
		SessionID: s.SessionID,
		CreatedAt: s.CreatedAt,
		Status:    s.Status,
	})
}

func (b *Backend) getSession(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	b.mu.Lock()
	sess := s.session
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, sess)
}

func (b *Backend) questions(w http.ResponseWriter, r *http.Request, _ *fakeSession) {
	writeData(w, r, http.StatusOK, contract.InterviewQuestionsResponse{Questions: DefaultQuestions(), EstimatedTime: 3})
}

func (b *Backend) answers(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	var req contract.InterviewAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Answers) == 0 {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "入力内容に誤りがあります")
		return
	}
	b.mu.Lock()
	s.answers = req.Answers
	s.session.Status = domain.SessionInterviewCompleted
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, contract.InterviewAnswersResponse{Status: "completed", NextStep: "procedures"})
}

func (b *Backend) generate(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	b.mu.Lock()
	s.procedures = append([]domain.ProcedureDetail(nil), b.Catalogue...)
	s.session.Status = domain.SessionProceduresGenerated
	resp := listResponse(s.procedures, contract.ProcedureFilter{})
	b.mu.Unlock()
	writeData(w, r, http.StatusCreated, resp)
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	q := r.URL.Query()
	filter := contract.ProcedureFilter{Category: q.Get("category"), Priority: q.Get("priority")}
	if c := q.Get("completed"); c != "" {
		done, err := strconv.ParseBool(c)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "completedの値が正しくありません")
			return
		}
		filter.Completed = &done
	}
	b.mu.Lock()
	resp := listResponse(s.procedures, filter)
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, resp)
}

func listResponse(procs []domain.ProcedureDetail, f contract.ProcedureFilter) contract.ProcedureListResponse {
	resp := contract.ProcedureListResponse{Procedures: []domain.Procedure{}}
	for _, p := range procs {
		if f.Category != "" && string(p.Category) != f.Category {
			continue
		}
		if f.Priority != "" && string(p.Priority) != f.Priority {
			continue
		}
		if f.Completed != nil && p.IsCompleted != *f.Completed {
			continue
		}
		resp.Procedures = append(resp.Procedures, p.Procedure)
	}
	resp.TotalCount = len(resp.Procedures)
	resp.CompletedCount = domain.CountCompleted(resp.Procedures)
	return resp
}

func (b *Backend) detail(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	pid := chi.URLParam(r, "procedureID")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range s.procedures {
		if p.ID == pid {
			writeData(w, r, http.StatusOK, p)
			return
		}
	}
	writeError(w, r, http.StatusNotFound, "NOT_FOUND", "手続きが見つかりません")
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	pid := chi.URLParam(r, "procedureID")
	var req contract.UpdateProcedureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range s.procedures {
		p := &s.procedures[i]
		if p.ID != pid {
			continue
		}
		p.IsCompleted = req.IsCompleted
		p.CompletedAt = ""
		if req.IsCompleted {
			p.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		}
		writeData(w, r, http.StatusOK, contract.UpdateProcedureResponse{ID: p.ID, IsCompleted: p.IsCompleted, CompletedAt: p.CompletedAt})
		return
	}
	writeError(w, r, http.StatusNotFound, "NOT_FOUND", "手続きが見つかりません")
}

func (b *Backend) timeline(w http.ResponseWriter, r *http.Request, s *fakeSession) {
	b.mu.Lock()
	tl := buildTimeline(s.session, s.procedures)
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, tl)
}

// buildTimeline places each procedure on moveDate + daysAfter, one item per
// date in order of first occurrence, plus a move-date milestone.
func buildTimeline(s domain.Session, procs []domain.ProcedureDetail) domain.Timeline {
	tl := domain.Timeline{Items: []domain.TimelineItem{}, Milestones: []domain.Milestone{}}
	move, err := time.Parse(domain.DateLayout, s.MoveDate)
	if err != nil {
		return tl
	}
	index := map[string]int{}
	for _, p := range procs {
		days := 0
		if p.Deadline.DaysAfter != nil {
			days = *p.Deadline.DaysAfter
		}
		date := move.AddDate(0, 0, days).Format(domain.DateLayout)
		i, ok := index[date]
		if !ok {
			i = len(tl.Items)
			index[date] = i
			tl.Items = append(tl.Items, domain.TimelineItem{Date: date, Label: string(p.Deadline.Type)})
		}
		tl.Items[i].Procedures = append(tl.Items[i].Procedures, domain.TimelineProcedure{
			ID:                p.ID,
			Title:             p.Title,
			Priority:          p.Priority,
			EstimatedDuration: p.EstimatedDuration,
			IsCompleted:       p.IsCompleted,
		})
	}
	tl.Milestones = append(tl.Milestones, domain.Milestone{Date: s.MoveDate, Label: "引越し日", Type: domain.MilestoneMoveDate})
	return tl
}

func (b *Backend) chat(w http.ResponseWriter, r *http.Request, _ *fakeSession) {
	var req contract.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	b.mu.Lock()
	suggestions := b.Suggestions
	b.mu.Unlock()
	writeData(w, r, http.StatusOK, contract.ChatResponse{
		Reply:              fmt.Sprintf("「%s」についてお答えします。", req.Message),
		SuggestedQuestions: suggestions,
	})
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, map[string]any{
		"data": data,
		"meta": map[string]string{
			"requestId": middleware.GetReqID(r.Context()),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": middleware.GetReqID(r.Context()),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
