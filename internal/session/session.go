package session

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/board"
	"github.com/KevMathews/jeopardy/internal/engine"
	"github.com/KevMathews/jeopardy/internal/store"
	"github.com/KevMathews/jeopardy/internal/trivia"
)

// Gateway is the slice of the trivia client a session needs; tests swap in a
// stub serving canned categories.
type Gateway interface {
	SelectRandomCategories(ctx context.Context, count int, usedIDs map[int]bool) ([]trivia.Category, error)
	SelectFinalJeopardyCategory(ctx context.Context, usedIDs map[int]bool) (trivia.Category, error)
}

// Session owns one game's authoritative state. All mutation flows through a
// single inbox, so transitions are strictly sequential: commands from
// clients, and timer fires from the countdown it arms for the buzz-in
// protocol. Every applied transition is persisted fire-and-forget and
// broadcast to joined clients as a versioned snapshot.
type Session struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc

	clock    clockwork.Clock
	timings  Timings
	timer    clockwork.Timer
	timerGen int
	deadline time.Time

	gateway Gateway
	adapter *store.Adapter
	logger  *zap.Logger

	// pendingWager is the Daily Double wager, fixed before the clue is
	// revealed and consumed by the answer that follows.
	pendingWager *int

	// Final Jeopardy bookkeeping: eligible players in order, then one
	// sequential pass collecting wagers and one judging answers.
	finalists    []engine.Player
	finalWagers  map[int]int
	finalResults map[int]engine.FinalResult
}

type Options struct {
	Clock   clockwork.Clock
	Timings Timings
	Logger  *zap.Logger
}

func New(parent context.Context, code string, initial engine.State, gateway Gateway, adapter *store.Adapter, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Timings == (Timings{}) {
		opts.Timings = DefaultTimings()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		clock:   opts.Clock,
		timings: opts.Timings,
		gateway: gateway,
		adapter: adapter,
		logger:  opts.Logger.With(zap.String("session", code)),
	}

	go s.loop()
	return s
}

// Inbox exposes the message channel to the ws layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) Code() string { return s.code }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- s.snapshot()

			case Leave:
				delete(s.clients, msg.ClientID)

			case FromClient:
				err := s.apply(msg.Cmd)
				if msg.Errs != nil {
					msg.Errs <- err
				}
				if err != nil {
					s.logger.Debug("command rejected",
						zap.String("command", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				s.commit()

			case timerFired:
				if msg.gen != s.timerGen {
					// Stale fire from a superseded countdown.
					break
				}
				if err := s.applyTimeout(); err != nil {
					s.logger.Warn("timeout transition failed", zap.Error(err))
					break
				}
				s.commit()

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// commit runs after every successful transition: bump the version, persist
// best-effort, re-arm the countdown for the new protocol stage, broadcast.
func (s *Session) commit() {
	s.version++
	s.persist()
	s.rearmTimer()
	s.broadcast(s.snapshot())
}

func (s *Session) apply(cmd Command) error {
	now := s.clock.Now()

	switch cmd.Type {
	case CmdStartGame:
		if s.state.Phase != engine.PhaseSetup && s.state.Phase != engine.PhaseComplete {
			return engine.ErrWrongPhase
		}
		next, err := engine.InitializeGame(cmd.PlayerNames)
		if err != nil {
			return err
		}
		s.state = next
		s.resetFlowState()
		s.adapter.ClearAll(s.ctx, s.code)
		return nil

	case CmdStartRound1, CmdStartRound2:
		round := 1
		if cmd.Type == CmdStartRound2 {
			round = 2
		}
		categories, err := s.gateway.SelectRandomCategories(s.ctx, board.CategoriesPerRound, s.state.UsedCategoryIDs)
		if err != nil {
			return err
		}
		next, err := engine.BeginRound(s.state, round, categories)
		if err != nil {
			return err
		}
		s.state = next
		s.adapter.SaveUsedCategories(s.ctx, s.code, s.state.UsedCategoryIDs)
		return nil

	case CmdStartFinalJeopardy:
		category, err := s.gateway.SelectFinalJeopardyCategory(s.ctx, s.state.UsedCategoryIDs)
		if err != nil {
			return err
		}
		next, err := engine.BeginFinalJeopardy(s.state, category)
		if err != nil {
			return err
		}
		s.state = next
		s.finalists = engine.EligibleFinalists(s.state)
		s.finalWagers = make(map[int]int)
		s.finalResults = make(map[int]engine.FinalResult)
		s.adapter.SaveUsedCategories(s.ctx, s.code, s.state.UsedCategoryIDs)
		if len(s.finalists) == 0 {
			// Nobody can wager, so there is no final round to play out.
			done, err := engine.CompleteGame(s.state)
			if err != nil {
				return err
			}
			s.state = done
		}
		return nil

	case CmdSelectCell:
		// Daily Doubles take the single-answerer path: the wager must be
		// fixed before the clue is revealed, so there is nothing to buzz for.
		if s.state.DailyDoubleLocations[cmd.CellID] {
			next, err := engine.SelectCell(s.state, cmd.CellID)
			if err != nil {
				return err
			}
			s.state = next
			s.pendingWager = nil
			return nil
		}
		next, err := engine.OpenQuestion(s.state, cmd.CellID, now)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case CmdSubmitWager:
		if s.state.ActiveQuestion != nil {
			return engine.ErrQuestionOpen
		}
		if s.state.SelectedCell == "" {
			return engine.ErrNoSelection
		}
		current := s.state.Players[s.state.CurrentPlayerIndex]
		if err := engine.ValidateDailyDoubleWager(current.Score, s.state.CurrentRound, cmd.Wager); err != nil {
			return err
		}
		wager := cmd.Wager
		s.pendingWager = &wager
		return nil

	case CmdSubmitAnswer:
		if s.state.DailyDoubleLocations[s.state.SelectedCell] && s.pendingWager == nil {
			// The wager is fixed before the clue is shown; there is no
			// ladder-value fallback on a Daily Double.
			return ErrWagerRequired
		}
		value, err := s.cellValue(s.state.SelectedCell)
		if err != nil {
			return err
		}
		next, err := engine.SubmitAnswer(s.state, cmd.Correct, value, s.pendingWager)
		if err != nil {
			return err
		}
		s.state = next
		s.pendingWager = nil
		return nil

	case CmdBuzz:
		next, err := engine.RegisterBuzzIn(s.state, cmd.PlayerID, now)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case CmdShowAnswer:
		next, err := engine.RevealAnswer(s.state)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case CmdJudge:
		aq := s.state.ActiveQuestion
		if aq == nil {
			return engine.ErrNoActiveQuestion
		}
		value, err := s.cellValue(aq.CellID)
		if err != nil {
			return err
		}
		next, err := engine.SubmitBuzzAnswer(s.state, aq.CurrentBuzzer, cmd.Correct, value, nil, now)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case CmdCloseQuestion:
		next, err := engine.CloseQuestion(s.state)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case CmdFinalWager:
		return s.applyFinalWager(cmd)

	case CmdFinalJudge:
		return s.applyFinalJudge(cmd)

	case CmdNewGame:
		s.state = engine.NewSetupState()
		s.resetFlowState()
		s.adapter.ClearAll(s.ctx, s.code)
		return nil

	default:
		return ErrUnsupportedCommand
	}
}

// applyTimeout is the countdown's side of the protocol: which transition an
// expiry means depends on the stage the timer was armed for.
func (s *Session) applyTimeout() error {
	aq := s.state.ActiveQuestion
	if aq == nil {
		return engine.ErrNoActiveQuestion
	}

	switch aq.Stage {
	case engine.StageBuzzerActive:
		// Nobody buzzed: reveal read-only, auto-close follows.
		next, err := engine.BuzzTimeout(s.state)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case engine.StageLockedIn:
		// Timeout counts as the buzzer answering wrong.
		value, err := s.cellValue(aq.CellID)
		if err != nil {
			return err
		}
		next, err := engine.AnswerTimeout(s.state, value, s.clock.Now())
		if err != nil {
			return err
		}
		s.state = next
		return nil

	case engine.StageAllWrong:
		next, err := engine.CloseQuestion(s.state)
		if err != nil {
			return err
		}
		s.state = next
		return nil

	default:
		return engine.ErrWrongStage
	}
}

func (s *Session) applyFinalWager(cmd Command) error {
	if s.state.Phase != engine.PhaseFinal || len(s.finalists) == 0 {
		return engine.ErrWrongPhase
	}
	if len(s.finalWagers) >= len(s.finalists) {
		return ErrWagersClosed
	}
	expected := s.finalists[len(s.finalWagers)]
	if cmd.PlayerID != expected.ID {
		return ErrOutOfTurn
	}
	if err := engine.ValidateFinalWager(expected.Score, cmd.Wager); err != nil {
		return err
	}
	s.finalWagers[expected.ID] = cmd.Wager
	return nil
}

func (s *Session) applyFinalJudge(cmd Command) error {
	if s.state.Phase != engine.PhaseFinal || len(s.finalists) == 0 {
		return engine.ErrWrongPhase
	}
	if len(s.finalWagers) < len(s.finalists) {
		return ErrWagersOpen
	}
	expected := s.finalists[len(s.finalResults)]
	if cmd.PlayerID != expected.ID {
		return ErrOutOfTurn
	}
	s.finalResults[expected.ID] = engine.FinalResult{
		Wager:   s.finalWagers[expected.ID],
		Correct: cmd.Correct,
	}

	if len(s.finalResults) < len(s.finalists) {
		return nil
	}

	// Everyone judged: apply the batch and finish the game.
	next, err := engine.ApplyFinalResults(s.state, s.finalResults)
	if err != nil {
		return err
	}
	next, err = engine.CompleteGame(next)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Session) resetFlowState() {
	s.pendingWager = nil
	s.finalists = nil
	s.finalWagers = nil
	s.finalResults = nil
}

func (s *Session) cellValue(cellID string) (int, error) {
	_, valueIndex, err := board.ParseCellID(cellID)
	if err != nil {
		return 0, engine.ErrInvalidCell
	}
	return board.CellValue(s.state.CurrentRound, valueIndex), nil
}

// rearmTimer cancels the countdown armed for the previous stage and arms the
// one the current stage needs. The generation bump makes any in-flight fire
// from the old timer a no-op.
func (s *Session) rearmTimer() {
	s.timerGen++
	if s.timer != nil {
		stopAndDrainTimer(s.timer)
		s.timer = nil
	}
	s.deadline = time.Time{}

	duration, ok := s.stageDuration()
	if !ok {
		return
	}

	timer := s.clock.NewTimer(duration)
	s.timer = timer
	s.deadline = s.clock.Now().Add(duration)

	go func(gen int, t clockwork.Timer) {
		select {
		case <-t.Chan():
			select {
			case s.inbox <- timerFired{gen: gen}:
			case <-s.ctx.Done():
			}
		case <-s.ctx.Done():
		}
	}(s.timerGen, timer)
}

func (s *Session) stageDuration() (time.Duration, bool) {
	aq := s.state.ActiveQuestion
	if aq == nil {
		return 0, false
	}
	switch aq.Stage {
	case engine.StageBuzzerActive:
		return s.timings.BuzzWindow, true
	case engine.StageLockedIn:
		return s.timings.AnswerWindow, true
	case engine.StageAllWrong:
		return s.timings.RevealDelay, true
	default:
		// Judging runs without a clock; the scorer takes the time they need.
		return 0, false
	}
}

func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// persist never blocks a transition on storage: failures are logged inside
// the adapter and the in-memory state stays authoritative.
func (s *Session) persist() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.adapter.SaveGameState(ctx, s.code, s.state)
}

func (s *Session) snapshot() Snapshot {
	var remaining int64
	if !s.deadline.IsZero() {
		if ms := s.deadline.Sub(s.clock.Now()).Milliseconds(); ms > 0 {
			remaining = ms
		}
	}
	return Snapshot{
		Version:     s.version,
		State:       s.state,
		RemainingMS: remaining,
		Timings:     s.timings,
	}
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	if s.timer != nil {
		stopAndDrainTimer(s.timer)
		s.timer = nil
	}
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}
