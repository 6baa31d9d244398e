package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/engine"
	"github.com/KevMathews/jeopardy/internal/session"
	"github.com/KevMathews/jeopardy/internal/store"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	State engine.State
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

// EnsureSession returns the live session for a code, restoring it from the
// store when a saved game exists (page-reload resumption) and creating a
// fresh one otherwise.
type EnsureSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	ctx      context.Context
	cancel   context.CancelFunc

	gateway session.Gateway
	adapter *store.Adapter
	opts    session.Options
	logger  *zap.Logger
}

func NewHub(parent context.Context, gateway session.Gateway, adapter *store.Adapter, opts session.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		ctx:      ctx,
		cancel:   cancel,
		gateway:  gateway,
		adapter:  adapter,
		opts:     opts,
		logger:   opts.Logger,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if sess := h.sessions[msg.Code]; sess != nil {
					msg.Reply <- sess
					break
				}
				msg.Reply <- h.startSession(msg.Code, msg.State)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				if sess := h.sessions[msg.Code]; sess != nil {
					msg.Reply <- sess
					break
				}
				initial := engine.NewSetupState()
				if saved := h.adapter.LoadGameState(h.ctx, msg.Code); saved != nil {
					h.logger.Info("resuming saved game", zap.String("code", msg.Code))
					initial = *saved
				}
				msg.Reply <- h.startSession(msg.Code, initial)

			case RemoveSession:
				delete(h.sessions, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) startSession(code string, initial engine.State) *session.Session {
	sess := session.New(h.ctx, code, initial, h.gateway, h.adapter, h.opts)
	h.sessions[code] = sess
	return sess
}

func (h *Hub) shutdown() {
	for _, sess := range h.sessions {
		sess.Inbox() <- session.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
