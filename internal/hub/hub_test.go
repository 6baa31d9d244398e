package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/engine"
	"github.com/KevMathews/jeopardy/internal/session"
	"github.com/KevMathews/jeopardy/internal/store"
	"github.com/KevMathews/jeopardy/internal/trivia"
)

type noopGateway struct{}

func (noopGateway) SelectRandomCategories(context.Context, int, map[int]bool) ([]trivia.Category, error) {
	return nil, trivia.ErrNoCategoriesAvailable
}

func (noopGateway) SelectFinalJeopardyCategory(context.Context, map[int]bool) (trivia.Category, error) {
	return trivia.Category{}, trivia.ErrNoCategoriesAvailable
}

func newTestHub(t *testing.T) (*Hub, *store.Adapter) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	adapter := store.NewAdapter(store.NewMemoryStore(), zap.NewNop())
	return NewHub(ctx, noopGateway{}, adapter, session.Options{}), adapter
}

func createSession(t *testing.T, h *Hub, code string, initial engine.State) *session.Session {
	t.Helper()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: code, State: initial, Reply: reply}
	select {
	case sess := <-reply:
		return sess
	case <-time.After(time.Second):
		t.Fatalf("timed out creating session %q", code)
		return nil // unreachable
	}
}

func getSession(t *testing.T, h *Hub, code string) *session.Session {
	t.Helper()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: code, Reply: reply}
	select {
	case sess := <-reply:
		return sess
	case <-time.After(time.Second):
		t.Fatalf("timed out looking up session %q", code)
		return nil // unreachable
	}
}

func TestHub_CreateThenGet(t *testing.T) {
	h, _ := newTestHub(t)

	created := createSession(t, h, "AAAAAA", engine.NewSetupState())
	require.NotNil(t, created)

	got := getSession(t, h, "AAAAAA")
	assert.Same(t, created, got)
}

func TestHub_CreateIsIdempotentPerCode(t *testing.T) {
	h, _ := newTestHub(t)

	first := createSession(t, h, "AAAAAA", engine.NewSetupState())
	second := createSession(t, h, "AAAAAA", engine.NewSetupState())
	assert.Same(t, first, second)
}

func TestHub_GetUnknownCodeIsNil(t *testing.T) {
	h, _ := newTestHub(t)
	assert.Nil(t, getSession(t, h, "NOSUCH"))
}

func TestHub_EnsureSessionResumesSavedGame(t *testing.T) {
	h, adapter := newTestHub(t)

	saved, err := engine.InitializeGame([]string{"Alice", "Bob"})
	require.NoError(t, err)
	require.True(t, adapter.SaveGameState(context.Background(), "SAVED1", saved))

	reply := make(chan *session.Session, 1)
	h.Inbox() <- EnsureSession{Code: "SAVED1", Reply: reply}
	sess := <-reply
	require.NotNil(t, sess)

	view := make(chan session.View, 1)
	sess.Inbox() <- session.GetState{Reply: view}
	state := (<-view).State
	require.Len(t, state.Players, 2)
	assert.Equal(t, "Alice", state.Players[0].Name)
	assert.Equal(t, "Bob", state.Players[1].Name)
}

func TestHub_EnsureSessionStartsFreshWithoutSave(t *testing.T) {
	h, _ := newTestHub(t)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- EnsureSession{Code: "FRESH1", Reply: reply}
	sess := <-reply
	require.NotNil(t, sess)

	view := make(chan session.View, 1)
	sess.Inbox() <- session.GetState{Reply: view}
	state := (<-view).State
	assert.Equal(t, engine.PhaseSetup, state.Phase)
	assert.Empty(t, state.Players)

	// The ensured session is registered under its code.
	assert.Same(t, sess, getSession(t, h, "FRESH1"))
}

func TestHub_RemoveSession(t *testing.T) {
	h, _ := newTestHub(t)

	createSession(t, h, "AAAAAA", engine.NewSetupState())
	h.Inbox() <- RemoveSession{Code: "AAAAAA"}
	assert.Nil(t, getSession(t, h, "AAAAAA"))
}
