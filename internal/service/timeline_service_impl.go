package service

import (
	"context"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/calendar"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/query"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

type timelineService struct {
	backend  Backend
	cache    *query.Client
	observer UseCaseObserver
}

func NewTimelineService(backend Backend, cache *query.Client, observers ...UseCaseObserver) TimelineService {
	return &timelineService{
		backend:  backend,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *timelineService) Get(ctx context.Context, sessionID string) (*domain.Timeline, error) {
	tl, err := query.Fetch(ctx, s.cache, query.TimelineKey(sessionID), query.StaleTimeline,
		func(ctx context.Context) (domain.Timeline, error) {
			return deref(s.backend.GetTimeline(ctx, sessionID))
		})
	if err != nil {
		return nil, err
	}
	return &tl, nil
}

func (s *timelineService) Merged(ctx context.Context, sessionID string) ([]view.Entry, error) {
	tl, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return view.MergeTimeline(*tl), nil
}

func (s *timelineService) Export(ctx context.Context, sessionID, dir string, now time.Time) (path string, err error) {
	fields := map[string]any{"dir": dir}
	done := track(ctx, s.observer, "export-calendar", sessionID, fields)
	defer func() { done(err) }()

	tl, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	events := 0
	for _, item := range tl.Items {
		events += len(item.Procedures)
	}
	fields["events"] = events
	return calendar.Save(dir, *tl, now)
}
