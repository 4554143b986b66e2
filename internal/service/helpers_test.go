package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/api"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/query"
	"github.com/tetsunavi/tetsunavi/internal/repository"
	"github.com/tetsunavi/tetsunavi/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	backend    *testutil.Backend
	cache      *query.Client
	bookmarks  *repository.SQLiteBookmarkRepo
	sessions   SessionService
	procedures ProcedureService
	timeline   TimelineService
	chat       ChatService
	events     *recordingObserver
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := testutil.NewBackend(t)
	client := api.NewClient(api.Config{BaseURL: backend.URL(), Timeout: 5 * time.Second}, nil)
	cache := query.NewClient(query.WithSleep(noSleep))
	t.Cleanup(cache.Close)

	database := testutil.NewTestDB(t)
	bookmarks := repository.NewSQLiteBookmarkRepo(database)
	events := &recordingObserver{}

	return &harness{
		backend:    backend,
		cache:      cache,
		bookmarks:  bookmarks,
		sessions:   NewSessionService(client, cache, bookmarks, testutil.NewTestUoW(database), events),
		procedures: NewProcedureService(client, cache, events),
		timeline:   NewTimelineService(client, cache, events),
		chat:       NewChatService(client, events),
		events:     events,
	}
}

func intakeRequest() contract.CreateSessionRequest {
	return contract.CreateSessionRequest{
		MoveFrom: domain.Location{Prefecture: "東京都", City: "世田谷区"},
		MoveTo:   domain.Location{Prefecture: "神奈川県", City: "横浜市"},
		MoveDate: time.Now().AddDate(0, 1, 0).Format(domain.DateLayout),
	}
}

// createSession creates a session through the service and fails the test
// on error.
func (h *harness) createSession(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := h.sessions.Create(context.Background(), intakeRequest())
	require.NoError(t, err)
	return sess
}

// seedGenerated creates a session whose procedures are already loaded into
// the unfiltered list cache.
func (h *harness) seedGenerated(t *testing.T) string {
	t.Helper()
	sess := h.createSession(t)
	_, _, err := h.procedures.Load(context.Background(), sess.SessionID, contract.ProcedureFilter{})
	require.NoError(t, err)
	return sess.SessionID
}

func allKey(sessionID string) query.Key {
	return query.ProceduresKey(sessionID, contract.ProcedureFilter{}.Key())
}

func isCompleted(procs []domain.ProcedureDetail, id string) bool {
	for _, p := range procs {
		if p.ID == id {
			return p.IsCompleted
		}
	}
	return false
}
