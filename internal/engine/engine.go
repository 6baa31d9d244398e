package engine

import (
	"errors"
	"time"

	"github.com/KevMathews/jeopardy/internal/trivia"
)

var ErrPlayerCount = errors.New("player count must be between 1 and 3")
var ErrWrongPhase = errors.New("operation not valid in current phase")
var ErrRoundIncomplete = errors.New("round is not complete")
var ErrInvalidCell = errors.New("invalid cell id")
var ErrCellAnswered = errors.New("cell already answered")
var ErrNoSelection = errors.New("no cell selected")
var ErrQuestionOpen = errors.New("another question is already open")
var ErrNoActiveQuestion = errors.New("no active question")
var ErrQuestionLocked = errors.New("question is locked by another buzzer")
var ErrNotEligible = errors.New("player not eligible to buzz")
var ErrNotCurrentBuzzer = errors.New("player is not the current buzzer")
var ErrWrongStage = errors.New("operation not valid in current question stage")
var ErrDailyDouble = errors.New("daily double cells do not take buzzes")
var ErrBadCategoryCount = errors.New("wrong number of categories for a round")
var ErrUnknownPlayer = errors.New("unknown player id")

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseRound1   Phase = "round1"
	PhaseRound2   Phase = "round2"
	PhaseFinal    Phase = "final"
	PhaseComplete Phase = "complete"
)

// Stage tracks where a contested clue is within the buzz-in protocol.
type Stage string

const (
	// StageBuzzerActive: the buzz window is open to every remaining player.
	StageBuzzerActive Stage = "buzzer_active"
	// StageLockedIn: one player holds the exclusive right to answer.
	StageLockedIn Stage = "locked_in"
	// StageJudging: the answer is shown and a human scorer judges the buzzer.
	StageJudging Stage = "judging"
	// StageAllWrong: the answer is revealed with nobody left to score;
	// the question auto-closes after a short delay.
	StageAllWrong Stage = "all_wrong"
)

type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Attempt records one player's judged answer against the open question.
type Attempt struct {
	Correct     bool      `json:"correct"`
	Timestamp   time.Time `json:"timestamp"`
	PointChange int       `json:"point_change"`
}

// ActiveQuestion exists only while a cell is open for buzzing and answering.
type ActiveQuestion struct {
	CellID           string          `json:"cell_id"`
	Stage            Stage           `json:"stage"`
	OriginalSelector int             `json:"original_selector"`
	BuzzedPlayers    []int           `json:"buzzed_players"`
	AttemptedAnswers map[int]Attempt `json:"attempted_answers"`
	CurrentBuzzer    int             `json:"current_buzzer"` // 0 when nobody holds the buzzer
	TimerStart       time.Time       `json:"timer_start_time"`
	IsLocked         bool            `json:"is_locked"`
	RemainingPlayers map[int]bool    `json:"remaining_players"`
}

// State is the root aggregate. Transition functions never mutate a State in
// place; each returns a fresh value so callers can re-render deterministically
// from the result.
type State struct {
	Phase                Phase             `json:"phase"`
	Players              []Player          `json:"players"`
	CurrentPlayerIndex   int               `json:"current_player_index"`
	CurrentRound         int               `json:"current_round"`
	Categories           []trivia.Category `json:"categories"`
	AnsweredCells        map[string]bool   `json:"answered_cells"`
	DailyDoubleLocations map[string]bool   `json:"daily_double_locations"`
	UsedCategoryIDs      map[int]bool      `json:"used_category_ids"`
	SelectedCell         string            `json:"selected_cell,omitempty"`
	ActiveQuestion       *ActiveQuestion   `json:"active_question,omitempty"`
}

func NewSetupState() State {
	return State{
		Phase:                PhaseSetup,
		Players:              []Player{},
		CurrentRound:         1,
		Categories:           []trivia.Category{},
		AnsweredCells:        map[string]bool{},
		DailyDoubleLocations: map[string]bool{},
		UsedCategoryIDs:      map[int]bool{},
	}
}

func (s State) clone() State {
	next := s
	next.Players = append([]Player(nil), s.Players...)
	next.Categories = append([]trivia.Category(nil), s.Categories...)
	next.AnsweredCells = cloneSet(s.AnsweredCells)
	next.DailyDoubleLocations = cloneSet(s.DailyDoubleLocations)
	next.UsedCategoryIDs = cloneSet(s.UsedCategoryIDs)
	if s.ActiveQuestion != nil {
		aq := *s.ActiveQuestion
		aq.BuzzedPlayers = append([]int(nil), s.ActiveQuestion.BuzzedPlayers...)
		aq.AttemptedAnswers = make(map[int]Attempt, len(s.ActiveQuestion.AttemptedAnswers))
		for id, attempt := range s.ActiveQuestion.AttemptedAnswers {
			aq.AttemptedAnswers[id] = attempt
		}
		aq.RemainingPlayers = cloneSet(s.ActiveQuestion.RemainingPlayers)
		next.ActiveQuestion = &aq
	}
	return next
}

func cloneSet[K comparable](set map[K]bool) map[K]bool {
	out := make(map[K]bool, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}

func (s State) playerIndexByID(playerID int) (int, bool) {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i, true
		}
	}
	return 0, false
}

func (s State) inRound() bool {
	return s.Phase == PhaseRound1 || s.Phase == PhaseRound2
}
