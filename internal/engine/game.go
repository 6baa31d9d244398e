package engine

import (
	"fmt"

	"github.com/KevMathews/jeopardy/internal/board"
	"github.com/KevMathews/jeopardy/internal/trivia"
)

// InitializeGame builds a fresh setup-phase state from 1-3 player names.
// Blank names fall back to "Player {n}".
func InitializeGame(playerNames []string) (State, error) {
	if len(playerNames) < 1 || len(playerNames) > 3 {
		return State{}, ErrPlayerCount
	}

	s := NewSetupState()
	for i, name := range playerNames {
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		s.Players = append(s.Players, Player{ID: i + 1, Name: name})
	}
	return s, nil
}

// BeginRound moves the game onto a freshly fetched six-category board.
// Round 1 starts from setup; round 2 requires round 1's board to be exhausted.
// Category ids are marked used and Daily Double locations drawn for the round.
func BeginRound(s State, round int, categories []trivia.Category) (State, error) {
	switch round {
	case 1:
		if s.Phase != PhaseSetup {
			return s, ErrWrongPhase
		}
	case 2:
		if s.Phase != PhaseRound1 {
			return s, ErrWrongPhase
		}
		if !IsRoundComplete(s) {
			return s, ErrRoundIncomplete
		}
	default:
		return s, fmt.Errorf("%w: round %d", ErrWrongPhase, round)
	}

	if len(categories) != board.CategoriesPerRound {
		return s, ErrBadCategoryCount
	}

	next := s.clone()
	if round == 1 {
		next.Phase = PhaseRound1
	} else {
		next.Phase = PhaseRound2
	}
	next.CurrentRound = round
	next.Categories = append([]trivia.Category(nil), categories...)
	next.AnsweredCells = map[string]bool{}
	next.DailyDoubleLocations = board.GenerateDailyDoubleLocations(board.DailyDoubleCount(round))
	next.SelectedCell = ""
	next.ActiveQuestion = nil
	for _, cat := range categories {
		next.UsedCategoryIDs[cat.ID] = true
	}
	return next, nil
}

// BeginFinalJeopardy swaps the board for the single final category. The
// category's FinalClue must already be chosen by the content gateway.
func BeginFinalJeopardy(s State, category trivia.Category) (State, error) {
	if s.Phase != PhaseRound2 {
		return s, ErrWrongPhase
	}
	if !IsRoundComplete(s) {
		return s, ErrRoundIncomplete
	}

	next := s.clone()
	next.Phase = PhaseFinal
	next.Categories = []trivia.Category{category}
	next.AnsweredCells = map[string]bool{}
	next.DailyDoubleLocations = map[string]bool{}
	next.SelectedCell = ""
	next.ActiveQuestion = nil
	next.UsedCategoryIDs[category.ID] = true
	return next, nil
}

// CompleteGame sets the terminal phase. Final Jeopardy scoring must already
// have been applied by the caller.
func CompleteGame(s State) (State, error) {
	if s.Phase != PhaseFinal {
		return s, ErrWrongPhase
	}
	next := s.clone()
	next.Phase = PhaseComplete
	return next, nil
}

// IsRoundComplete reports whether every cell on the current board has been
// answered. The state machine never auto-advances on completeness; advancing
// is always a distinct operation.
func IsRoundComplete(s State) bool {
	return len(s.AnsweredCells) == board.TotalCellsPerRound
}

// SelectCell marks a cell for the single-answerer protocol (Daily Doubles and
// the legacy flow). Answered cells are not selectable.
func SelectCell(s State, cellID string) (State, error) {
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

	next := s.clone()
	next.SelectedCell = cellID
	return next, nil
}

// SubmitAnswer resolves the selected cell against the current player:
// ±(wager ?? value) to their score, cell marked answered, board control kept
// on correct and passed to the next player on incorrect.
func SubmitAnswer(s State, isCorrect bool, value int, wager *int) (State, error) {
	if !s.inRound() {
		return s, ErrWrongPhase
	}
	if s.ActiveQuestion != nil {
		// A cell open for buzzing resolves through SubmitBuzzAnswer only;
		// letting the legacy path in here would score the cell twice.
		return s, ErrQuestionOpen
	}
	if s.SelectedCell == "" {
		return s, ErrNoSelection
	}

	next := s.clone()
	points := value
	if wager != nil {
		points = *wager
	}
	if isCorrect {
		next.Players[next.CurrentPlayerIndex].Score += points
	} else {
		next.Players[next.CurrentPlayerIndex].Score -= points
		next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
	}
	next.AnsweredCells[s.SelectedCell] = true
	next.SelectedCell = ""
	return next, nil
}

// Winners returns every player whose score equals the maximum. Ties share
// the win; there is no tiebreak.
func Winners(s State) []Player {
	if len(s.Players) == 0 {
		return nil
	}
	max := s.Players[0].Score
	for _, p := range s.Players[1:] {
		if p.Score > max {
			max = p.Score
		}
	}
	var winners []Player
	for _, p := range s.Players {
		if p.Score == max {
			winners = append(winners, p)
		}
	}
	return winners
}
