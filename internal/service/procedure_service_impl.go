package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/query"
	"golang.org/x/sync/singleflight"
)

var unfiltered = contract.ProcedureFilter{}

type procedureService struct {
	backend  Backend
	cache    *query.Client
	observer UseCaseObserver

	generation singleflight.Group
	mu         sync.Mutex
	generated  map[string]bool
	mutations  keyedMutex
}

func NewProcedureService(backend Backend, cache *query.Client, observers ...UseCaseObserver) ProcedureService {
	return &procedureService{
		backend:   backend,
		cache:     cache,
		observer:  useCaseObserverOrNoop(observers),
		generated: make(map[string]bool),
	}
}

func (s *procedureService) List(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (*contract.ProcedureListResponse, error) {
	list, err := query.Fetch(ctx, s.cache, query.ProceduresKey(sessionID, filter.Key()), query.StaleProcedures,
		func(ctx context.Context) (contract.ProcedureListResponse, error) {
			return deref(s.backend.ListProcedures(ctx, sessionID, filter))
		})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Load generates at most once per session for the life of the service.
// Concurrent callers share one generation; a failed one may be retried.
func (s *procedureService) Load(ctx context.Context, sessionID string, filter contract.ProcedureFilter) (list *contract.ProcedureListResponse, generated bool, err error) {
	fields := map[string]any{"filter": filter.Key()}
	done := track(ctx, s.observer, "load-procedures", sessionID, fields)
	defer func() { done(err) }()

	all, err := s.List(ctx, sessionID, unfiltered)
	if err != nil {
		return nil, false, err
	}
	if len(all.Procedures) == 0 {
		v, err, _ := s.generation.Do(sessionID, func() (any, error) {
			if s.alreadyGenerated(sessionID) {
				return false, nil
			}
			if _, err := s.generate(ctx, sessionID); err != nil {
				return false, err
			}
			return true, nil
		})
		if err != nil {
			return nil, false, fmt.Errorf("generating procedures: %w", err)
		}
		generated = v.(bool)
		fields["generated"] = generated
	}

	list, err = s.List(ctx, sessionID, filter)
	return list, generated, err
}

func (s *procedureService) Generate(ctx context.Context, sessionID string) (list *contract.ProcedureListResponse, err error) {
	done := track(ctx, s.observer, "generate-procedures", sessionID, nil)
	defer func() { done(err) }()
	return s.generate(ctx, sessionID)
}

// generate asks the backend for the checklist, then invalidates the
// session's lists and session reads and seeds the unfiltered list with the
// result.
func (s *procedureService) generate(ctx context.Context, sessionID string) (*contract.ProcedureListResponse, error) {
	resp, err := s.backend.GenerateProcedures(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.generated[sessionID] = true
	s.mu.Unlock()

	s.cache.Invalidate(query.ProceduresPrefix(sessionID), query.SessionKey(sessionID))
	query.Set(s.cache, query.ProceduresKey(sessionID, unfiltered.Key()), *resp)
	return resp, nil
}

func (s *procedureService) alreadyGenerated(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated[sessionID]
}

func (s *procedureService) Detail(ctx context.Context, sessionID, procedureID string) (*domain.ProcedureDetail, error) {
	d, err := query.Fetch(ctx, s.cache, query.ProcedureKey(sessionID, procedureID), query.StaleDetail,
		func(ctx context.Context) (domain.ProcedureDetail, error) {
			return deref(s.backend.GetProcedureDetail(ctx, sessionID, procedureID))
		})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SetCompleted flips the completion flag in every cached list of the
// session before the backend confirms it. A failed update restores the
// lists exactly. Either way the lists, the timeline and the detail are
// refetched on next read. Toggles of one session run one at a time, in
// call order.
func (s *procedureService) SetCompleted(ctx context.Context, sessionID, procedureID string, done bool) (resp *contract.UpdateProcedureResponse, err error) {
	fields := map[string]any{"procedure_id": procedureID, "completed": done}
	finish := track(ctx, s.observer, "set-completed", sessionID, fields)
	defer func() { finish(err) }()

	lock := s.mutations.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	mut := query.NewOptimistic[contract.ProcedureListResponse](s.cache, query.ProceduresPrefix(sessionID))
	n, err := mut.Begin(func(list contract.ProcedureListResponse) contract.ProcedureListResponse {
		return list.WithCompletion(procedureID, done)
	})
	if err != nil {
		return nil, err
	}
	fields["lists_updated"] = n

	resp, err = s.backend.UpdateProcedureCompletion(ctx, sessionID, procedureID, contract.UpdateProcedureRequest{IsCompleted: done})
	if err != nil {
		if rbErr := mut.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		fields["rolled_back"] = true
	} else if cErr := mut.Commit(); cErr != nil {
		return nil, cErr
	}

	if sErr := mut.Settle(
		query.ProceduresPrefix(sessionID),
		query.TimelineKey(sessionID),
		query.ProcedureKey(sessionID, procedureID),
	); sErr != nil {
		err = errors.Join(err, sErr)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
