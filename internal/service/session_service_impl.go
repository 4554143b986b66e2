package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/db"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/query"
	"github.com/tetsunavi/tetsunavi/internal/repository"
)

type sessionService struct {
	backend   Backend
	cache     *query.Client
	bookmarks repository.BookmarkRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewSessionService(
	backend Backend,
	cache *query.Client,
	bookmarks repository.BookmarkRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		backend:   backend,
		cache:     cache,
		bookmarks: bookmarks,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

// Create returns the session even when only the local bookmark failed, so
// the caller can still show its id.
func (s *sessionService) Create(ctx context.Context, req contract.CreateSessionRequest) (session *domain.Session, err error) {
	fields := map[string]any{"move_date": req.MoveDate}
	done := track(ctx, s.observer, "create-session", "", fields)
	defer func() { done(err) }()

	resp, err := s.backend.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["session_id"] = resp.SessionID

	sess := domain.Session{
		SessionID: resp.SessionID,
		CreatedAt: resp.CreatedAt,
		Status:    resp.Status,
		MoveFrom:  req.MoveFrom,
		MoveTo:    req.MoveTo,
		MoveDate:  req.MoveDate,
	}
	query.Set(s.cache, query.SessionKey(sess.SessionID), sess)

	if err = s.remember(ctx, sess, true); err != nil {
		return &sess, fmt.Errorf("bookmarking session %s: %w", sess.SessionID, err)
	}
	return &sess, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := query.Fetch(ctx, s.cache, query.SessionKey(sessionID), query.StaleSession,
		func(ctx context.Context) (domain.Session, error) {
			return deref(s.backend.GetSession(ctx, sessionID))
		})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionService) Questions(ctx context.Context, sessionID string) (*contract.InterviewQuestionsResponse, error) {
	resp, err := query.Fetch(ctx, s.cache, query.InterviewKey(sessionID), query.StaleInterview,
		func(ctx context.Context) (contract.InterviewQuestionsResponse, error) {
			return deref(s.backend.GetInterviewQuestions(ctx, sessionID))
		})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAnswers checks answers against the session's questions before
// sending them. On success every cached read of the session is invalidated.
func (s *sessionService) SubmitAnswers(ctx context.Context, sessionID string, answers []domain.Answer) (resp *contract.InterviewAnswersResponse, err error) {
	done := track(ctx, s.observer, "submit-answers", sessionID, map[string]any{"answer_count": len(answers)})
	defer func() { done(err) }()

	questions, err := s.Questions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	if err = domain.ValidateAnswers(questions.Questions, answers); err != nil {
		return nil, err
	}

	resp, err = s.backend.SubmitInterviewAnswers(ctx, sessionID, contract.InterviewAnswersRequest{Answers: answers})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(query.SessionKey(sessionID))

	if tErr := s.bookmarks.Touch(ctx, sessionID, s.now()); tErr != nil && !errors.Is(tErr, repository.ErrNotFound) {
		return resp, fmt.Errorf("updating bookmark: %w", tErr)
	}
	return resp, nil
}

// Resolve returns a bare bookmark for ids that were never bookmarked here.
func (s *sessionService) Resolve(ctx context.Context, sessionID string) (*domain.Bookmark, error) {
	if sessionID == "" {
		b, err := s.bookmarks.Latest(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSession
		}
		return b, err
	}

	b, err := s.bookmarks.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.Bookmark{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.bookmarks.Touch(ctx, sessionID, s.now()); err != nil {
		return nil, err
	}
	return b, nil
}

// Use checks that the session exists on the backend and makes it the
// active bookmark.
func (s *sessionService) Use(ctx context.Context, sessionID string) (b *domain.Bookmark, err error) {
	done := track(ctx, s.observer, "use-session", sessionID, nil)
	defer func() { done(err) }()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err = s.remember(ctx, *sess, true); err != nil {
		return nil, fmt.Errorf("bookmarking session %s: %w", sessionID, err)
	}
	return s.bookmarks.GetByID(ctx, sessionID)
}

func (s *sessionService) Bookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	return s.bookmarks.List(ctx)
}

// Forget drops the bookmark and everything cached for the session. The
// session itself stays on the backend.
func (s *sessionService) Forget(ctx context.Context, sessionID string) (err error) {
	done := track(ctx, s.observer, "forget-session", sessionID, nil)
	defer func() { done(err) }()

	if err = s.bookmarks.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.cache.Remove(query.SessionKey(sessionID))
	s.cache.Remove(query.ProceduresPrefix(sessionID))
	s.cache.Remove(query.ProcedurePrefix(sessionID))
	return nil
}

// remember upserts the bookmark of sess and optionally makes it the only
// active one, in a single transaction.
func (s *sessionService) remember(ctx context.Context, sess domain.Session, activate bool) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteBookmarkRepo(tx)
		if err := repo.Save(ctx, domain.NewBookmark(sess, s.now())); err != nil {
			return err
		}
		if !activate {
			return nil
		}
		if err := repo.ClearActive(ctx); err != nil {
			return err
		}
		return repo.SetActive(ctx, sess.SessionID)
	})
}
