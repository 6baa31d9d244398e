package session

import (
	"time"

	"github.com/KevMathews/jeopardy/internal/engine"
)

type CommandType string

const (
	CmdStartGame          CommandType = "StartGame"
	CmdStartRound1        CommandType = "StartRound1"
	CmdStartRound2        CommandType = "StartRound2"
	CmdStartFinalJeopardy CommandType = "StartFinalJeopardy"
	CmdSelectCell         CommandType = "SelectCell"
	CmdSubmitWager        CommandType = "SubmitWager"
	CmdSubmitAnswer       CommandType = "SubmitAnswer"
	CmdBuzz               CommandType = "Buzz"
	CmdShowAnswer         CommandType = "ShowAnswer"
	CmdJudge              CommandType = "Judge"
	CmdCloseQuestion      CommandType = "CloseQuestion"
	CmdFinalWager         CommandType = "FinalWager"
	CmdFinalJudge         CommandType = "FinalJudge"
	CmdNewGame            CommandType = "NewGame"
)

type Command struct {
	Type        CommandType
	PlayerNames []string
	CellID      string
	PlayerID    int
	Correct     bool
	Wager       int
}

type Msg interface{ isSessionMsg() }

type FromClient struct {
	Cmd Command
	// Errs, when non-nil, receives the apply result so the transport can
	// report rejected commands (wager validation in particular) back to the
	// client that sent them.
	Errs chan<- error
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// timerFired carries the generation it was armed under; fires from a
// superseded generation are ignored rather than applied.
type timerFired struct{ gen int }

func (timerFired) isSessionMsg() {}

// Timings are the countdown durations the protocol runs on. They ride along
// in every snapshot so the browser can render countdowns without hardcoding.
type Timings struct {
	BuzzWindow            time.Duration
	AnswerWindow          time.Duration
	RevealDelay           time.Duration
	DailyDoubleCloseDelay time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		BuzzWindow:            5 * time.Second,
		AnswerWindow:          5 * time.Second,
		RevealDelay:           3 * time.Second,
		DailyDoubleCloseDelay: 2 * time.Second,
	}
}

type Snapshot struct {
	Version     int
	State       engine.State
	RemainingMS int64 // countdown remaining for the active stage, 0 when idle
	Timings     Timings
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}
