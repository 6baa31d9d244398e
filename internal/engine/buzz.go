package engine

import (
	"time"

	"github.com/KevMathews/jeopardy/internal/board"
)

// OpenQuestion opens a regular cell for contested answering. Every player is
// eligible to buzz and the original selector is remembered so board control
// can revert if nobody answers correctly. Daily Double cells never take
// buzzes; they go through SelectCell/SubmitAnswer with a fixed wager instead.
func OpenQuestion(s State, cellID string, now time.Time) (State, error) {
	if !s.inRound() {
		return s, ErrWrongPhase
	}
	if !board.ValidCellID(cellID) {
		return s, ErrInvalidCell
	}
	if s.AnsweredCells[cellID] {
		return s, ErrCellAnswered
	}
	if s.ActiveQuestion != nil {
		return s, ErrQuestionOpen
	}
	if s.DailyDoubleLocations[cellID] {
		return s, ErrDailyDouble
	}

	remaining := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		remaining[p.ID] = true
	}

	next := s.clone()
	next.SelectedCell = cellID
	next.ActiveQuestion = &ActiveQuestion{
		CellID:           cellID,
		Stage:            StageBuzzerActive,
		OriginalSelector: s.CurrentPlayerIndex,
		BuzzedPlayers:    []int{},
		AttemptedAnswers: map[int]Attempt{},
		TimerStart:       now,
		RemainingPlayers: remaining,
	}
	return next, nil
}

// RegisterBuzzIn locks the question for one eligible player. Buzzing restarts
// the countdown at full duration rather than consuming the remainder of the
// buzz window, and board control moves to the buzzer immediately, before
// their answer is judged.
func RegisterBuzzIn(s State, playerID int, now time.Time) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}
	if aq.Stage != StageBuzzerActive || aq.IsLocked {
		return s, ErrQuestionLocked
	}
	if !aq.RemainingPlayers[playerID] {
		return s, ErrNotEligible
	}
	idx, ok := s.playerIndexByID(playerID)
	if !ok {
		return s, ErrUnknownPlayer
	}

	next := s.clone()
	naq := next.ActiveQuestion
	naq.Stage = StageLockedIn
	naq.IsLocked = true
	naq.CurrentBuzzer = playerID
	naq.BuzzedPlayers = append(naq.BuzzedPlayers, playerID)
	naq.TimerStart = now
	next.CurrentPlayerIndex = idx
	return next, nil
}

// RevealAnswer moves a locked question into judging. The answering countdown
// is suspended; the scorer gets unlimited time to judge.
func RevealAnswer(s State) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}
	if aq.Stage != StageLockedIn {
		return s, ErrWrongStage
	}

	next := s.clone()
	next.ActiveQuestion.Stage = StageJudging
	return next, nil
}

// SubmitBuzzAnswer judges the current buzzer. Correct awards the points,
// closes the question and leaves board control with the buzzer. Incorrect
// deducts the points, removes the buzzer from the eligible set and either
// reopens the buzz window or, with nobody left, parks the question in
// StageAllWrong pending auto-close.
func SubmitBuzzAnswer(s State, playerID int, isCorrect bool, value int, wager *int, now time.Time) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}
	if aq.Stage != StageLockedIn && aq.Stage != StageJudging {
		return s, ErrWrongStage
	}
	if aq.CurrentBuzzer != playerID {
		return s, ErrNotCurrentBuzzer
	}
	idx, ok := s.playerIndexByID(playerID)
	if !ok {
		return s, ErrUnknownPlayer
	}

	points := value
	if wager != nil {
		points = *wager
	}

	next := s.clone()
	naq := next.ActiveQuestion

	change := points
	if !isCorrect {
		change = -points
	}
	next.Players[idx].Score += change
	naq.AttemptedAnswers[playerID] = Attempt{
		Correct:     isCorrect,
		Timestamp:   now,
		PointChange: change,
	}

	if isCorrect {
		next.AnsweredCells[aq.CellID] = true
		next.CurrentPlayerIndex = idx
		next.ActiveQuestion = nil
		next.SelectedCell = ""
		return next, nil
	}

	delete(naq.RemainingPlayers, playerID)
	naq.CurrentBuzzer = 0
	naq.IsLocked = false
	if len(naq.RemainingPlayers) == 0 {
		naq.Stage = StageAllWrong
	} else {
		naq.Stage = StageBuzzerActive
		naq.TimerStart = now
	}
	return next, nil
}

// BuzzTimeout handles the buzz window expiring with nobody locked in: the
// answer is revealed read-only and the question waits out the auto-close
// delay with no score change.
func BuzzTimeout(s State) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}
	if aq.Stage != StageBuzzerActive {
		return s, ErrWrongStage
	}

	next := s.clone()
	next.ActiveQuestion.Stage = StageAllWrong
	next.ActiveQuestion.IsLocked = true
	return next, nil
}

// AnswerTimeout treats an expired answering window as the current buzzer
// answering incorrectly.
func AnswerTimeout(s State, value int, now time.Time) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}
	if aq.Stage != StageLockedIn {
		return s, ErrWrongStage
	}
	return SubmitBuzzAnswer(s, aq.CurrentBuzzer, false, value, nil, now)
}

// CloseQuestion resolves an open question without a correct answer: the cell
// is marked answered and board control reverts to whoever selected it.
func CloseQuestion(s State) (State, error) {
	aq := s.ActiveQuestion
	if aq == nil {
		return s, ErrNoActiveQuestion
	}

	next := s.clone()
	next.AnsweredCells[aq.CellID] = true
	next.CurrentPlayerIndex = aq.OriginalSelector
	next.ActiveQuestion = nil
	next.SelectedCell = ""
	return next, nil
}
