package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/hub"
	"github.com/KevMathews/jeopardy/internal/session"
	"github.com/KevMathews/jeopardy/internal/types"
)

func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		// Ensure rather than Get so a reload after a server restart can
		// reattach to the saved game under the same code.
		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()

		sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- session.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				payload, _ := json.Marshal(toServerMessage(snap))
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		errs := make(chan error, 1)

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (session.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			sess.Inbox() <- session.FromClient{Cmd: cmd, Errs: errs}
			if applyErr := <-errs; applyErr != nil {
				logger.Debug("command rejected",
					zap.String("client", clientID), zap.String("type", cm.Type), zap.Error(applyErr))
				writeError(r.Context(), conn, applyErr.Error())
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func toServerMessage(snap session.Snapshot) types.ServerMessage {
	return types.ServerMessage{
		Type:        "StateSnapshot",
		Version:     snap.Version,
		State:       &snap.State,
		RemainingMS: snap.RemainingMS,
		Timings: &types.Timings{
			BuzzWindowMS:            snap.Timings.BuzzWindow.Milliseconds(),
			AnswerWindowMS:          snap.Timings.AnswerWindow.Milliseconds(),
			RevealDelayMS:           snap.Timings.RevealDelay.Milliseconds(),
			DailyDoubleCloseDelayMS: snap.Timings.DailyDoubleCloseDelay.Milliseconds(),
		},
	}
}

func toCommand(m types.ClientMessage) (session.Command, bool) {
	switch m.Type {
	case "StartGame":
		return session.Command{Type: session.CmdStartGame, PlayerNames: m.PlayerNames}, true
	case "StartRound1":
		return session.Command{Type: session.CmdStartRound1}, true
	case "StartRound2":
		return session.Command{Type: session.CmdStartRound2}, true
	case "StartFinalJeopardy":
		return session.Command{Type: session.CmdStartFinalJeopardy}, true
	case "SelectCell":
		return session.Command{Type: session.CmdSelectCell, CellID: m.CellID}, true
	case "SubmitWager":
		return session.Command{Type: session.CmdSubmitWager, Wager: m.Wager}, true
	case "SubmitAnswer":
		return session.Command{Type: session.CmdSubmitAnswer, Correct: m.Correct}, true
	case "Buzz":
		return session.Command{Type: session.CmdBuzz, PlayerID: m.PlayerID}, true
	case "ShowAnswer":
		return session.Command{Type: session.CmdShowAnswer}, true
	case "Judge":
		return session.Command{Type: session.CmdJudge, Correct: m.Correct}, true
	case "CloseQuestion":
		return session.Command{Type: session.CmdCloseQuestion}, true
	case "FinalWager":
		return session.Command{Type: session.CmdFinalWager, PlayerID: m.PlayerID, Wager: m.Wager}, true
	case "FinalJudge":
		return session.Command{Type: session.CmdFinalJudge, PlayerID: m.PlayerID, Correct: m.Correct}, true
	case "NewGame":
		return session.Command{Type: session.CmdNewGame}, true
	default:
		return session.Command{}, false
	}
}
