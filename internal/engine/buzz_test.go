package engine

import (
	"errors"
	"testing"
	"time"
)

func openQuestionState(t *testing.T, players ...Player) State {
	t.Helper()
	s := roundState(1, players...)
	next, err := OpenQuestion(s, "0-1", time.Unix(100, 0))
	if err != nil {
		t.Fatalf("OpenQuestion: %v", err)
	}
	return next
}

func TestOpenQuestion(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1, Name: "A"}, Player{ID: 2, Name: "B"})

	aq := s.ActiveQuestion
	if aq == nil {
		t.Fatalf("no active question")
	}
	if aq.Stage != StageBuzzerActive || aq.IsLocked {
		t.Fatalf("fresh question not open for buzzing: %+v", aq)
	}
	if !aq.RemainingPlayers[1] || !aq.RemainingPlayers[2] {
		t.Fatalf("all players should be eligible: %+v", aq.RemainingPlayers)
	}
	if aq.OriginalSelector != 0 {
		t.Fatalf("original selector: got %d, want 0", aq.OriginalSelector)
	}
}

func TestOpenQuestion_RejectsDailyDoubleCell(t *testing.T) {
	s := roundState(1, Player{ID: 1})
	s.DailyDoubleLocations["0-1"] = true

	if _, err := OpenQuestion(s, "0-1", time.Unix(100, 0)); !errors.Is(err, ErrDailyDouble) {
		t.Fatalf("want ErrDailyDouble, got %v", err)
	}
}

func TestRegisterBuzzIn_TransfersControlImmediately(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1, Name: "A"}, Player{ID: 2, Name: "B"})

	next, err := RegisterBuzzIn(s, 2, time.Unix(101, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	aq := next.ActiveQuestion
	if aq.Stage != StageLockedIn || !aq.IsLocked || aq.CurrentBuzzer != 2 {
		t.Fatalf("buzz not locked in: %+v", aq)
	}
	// Board control anticipates the buzzer before judgment.
	if next.CurrentPlayerIndex != 1 {
		t.Fatalf("currentPlayerIndex: got %d, want 1", next.CurrentPlayerIndex)
	}
	if len(aq.BuzzedPlayers) != 1 || aq.BuzzedPlayers[0] != 2 {
		t.Fatalf("buzz history: %+v", aq.BuzzedPlayers)
	}
	// The buzzer gets a fresh full answering window.
	if !aq.TimerStart.Equal(time.Unix(101, 0)) {
		t.Fatalf("countdown not restarted on buzz")
	}
}

func TestRegisterBuzzIn_Guards(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})

	locked, err := RegisterBuzzIn(s, 1, time.Unix(101, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// Racing buzz against an already-locked question is rejected.
	if _, err := RegisterBuzzIn(locked, 2, time.Unix(101, 0)); !errors.Is(err, ErrQuestionLocked) {
		t.Fatalf("want ErrQuestionLocked, got %v", err)
	}

	// A player who already missed cannot buzz again.
	reopened, err := SubmitBuzzAnswer(locked, 1, false, 400, nil, time.Unix(102, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := RegisterBuzzIn(reopened, 1, time.Unix(103, 0)); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("want ErrNotEligible, got %v", err)
	}
}

// The reference two-player exchange: A buzzes and misses, B buzzes and wins.
func TestBuzzExchange_WrongThenRight(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1, Name: "A"}, Player{ID: 2, Name: "B"})

	s, err := RegisterBuzzIn(s, 1, time.Unix(101, 0))
	if err != nil {
		t.Fatalf("A buzz: %v", err)
	}

	s, err = SubmitBuzzAnswer(s, 1, false, 400, nil, time.Unix(102, 0))
	if err != nil {
		t.Fatalf("A answer: %v", err)
	}
	if s.Players[0].Score != -400 {
		t.Fatalf("A score: got %d, want -400", s.Players[0].Score)
	}
	aq := s.ActiveQuestion
	if aq == nil || aq.Stage != StageBuzzerActive || aq.IsLocked {
		t.Fatalf("question should reopen: %+v", aq)
	}
	if aq.RemainingPlayers[1] || !aq.RemainingPlayers[2] {
		t.Fatalf("remaining players: %+v", aq.RemainingPlayers)
	}
	if aq.CurrentBuzzer != 0 {
		t.Fatalf("current buzzer not cleared")
	}

	s, err = RegisterBuzzIn(s, 2, time.Unix(103, 0))
	if err != nil {
		t.Fatalf("B buzz: %v", err)
	}
	s, err = SubmitBuzzAnswer(s, 2, true, 400, nil, time.Unix(104, 0))
	if err != nil {
		t.Fatalf("B answer: %v", err)
	}

	if s.Players[1].Score != 400 {
		t.Fatalf("B score: got %d, want 400", s.Players[1].Score)
	}
	if !s.AnsweredCells["0-1"] {
		t.Fatalf("cell not marked answered")
	}
	if s.CurrentPlayerIndex != 1 {
		t.Fatalf("board control: got %d, want B's index 1", s.CurrentPlayerIndex)
	}
	if s.ActiveQuestion != nil {
		t.Fatalf("active question should be cleared")
	}
}

func TestSubmitBuzzAnswer_AllWrong(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})

	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))
	s, _ = SubmitBuzzAnswer(s, 1, false, 400, nil, time.Unix(102, 0))
	s, _ = RegisterBuzzIn(s, 2, time.Unix(103, 0))
	s, err := SubmitBuzzAnswer(s, 2, false, 400, nil, time.Unix(104, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	aq := s.ActiveQuestion
	if aq == nil || aq.Stage != StageAllWrong {
		t.Fatalf("want all-wrong stage, got %+v", aq)
	}
	if len(aq.RemainingPlayers) != 0 {
		t.Fatalf("remaining players should be empty")
	}
}

func TestCloseQuestion_RestoresOriginalSelector(t *testing.T) {
	s := roundState(1, Player{ID: 1}, Player{ID: 2}, Player{ID: 3})
	s.CurrentPlayerIndex = 2

	s, err := OpenQuestion(s, "4-3", time.Unix(100, 0))
	if err != nil {
		t.Fatalf("OpenQuestion: %v", err)
	}
	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))
	s, _ = SubmitBuzzAnswer(s, 1, false, 800, nil, time.Unix(102, 0))

	s, err = CloseQuestion(s)
	if err != nil {
		t.Fatalf("CloseQuestion: %v", err)
	}
	if s.CurrentPlayerIndex != 2 {
		t.Fatalf("board control: got %d, want original selector 2", s.CurrentPlayerIndex)
	}
	if !s.AnsweredCells["4-3"] {
		t.Fatalf("cell not marked answered")
	}
	if s.ActiveQuestion != nil {
		t.Fatalf("active question should be cleared")
	}
}

func TestBuzzTimeout_NoBuzzers(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})

	s, err := BuzzTimeout(s)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ActiveQuestion.Stage != StageAllWrong {
		t.Fatalf("want all-wrong stage, got %v", s.ActiveQuestion.Stage)
	}

	// Auto-close with no score changes.
	s, err = CloseQuestion(s)
	if err != nil {
		t.Fatalf("CloseQuestion: %v", err)
	}
	for _, p := range s.Players {
		if p.Score != 0 {
			t.Fatalf("score changed on no-buzz timeout: %+v", p)
		}
	}
}

func TestAnswerTimeout_CountsAsIncorrect(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})
	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))

	s, err := AnswerTimeout(s, 400, time.Unix(106, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Players[0].Score != -400 {
		t.Fatalf("timeout should deduct: got %d", s.Players[0].Score)
	}
	if s.ActiveQuestion.RemainingPlayers[1] {
		t.Fatalf("timed-out buzzer still eligible")
	}
	if s.ActiveQuestion.Stage != StageBuzzerActive {
		t.Fatalf("question should reopen for remaining player")
	}
}

func TestRevealAnswer_SuspendsIntoJudging(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})

	if _, err := RevealAnswer(s); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("want ErrWrongStage before a buzz, got %v", err)
	}

	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))
	s, err := RevealAnswer(s)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ActiveQuestion.Stage != StageJudging {
		t.Fatalf("want judging stage, got %v", s.ActiveQuestion.Stage)
	}

	// Judging still resolves against the buzzer.
	s, err = SubmitBuzzAnswer(s, 1, true, 400, nil, time.Unix(102, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Players[0].Score != 400 {
		t.Fatalf("score: got %d, want 400", s.Players[0].Score)
	}
}

// A cell open for buzzing must be untouchable by the single-answerer path;
// otherwise one cell could pay out twice.
func TestSubmitAnswer_RejectedWhileQuestionOpen(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1, Name: "A"}, Player{ID: 2, Name: "B"})

	if _, err := SubmitAnswer(s, true, 400, nil); !errors.Is(err, ErrQuestionOpen) {
		t.Fatalf("want ErrQuestionOpen, got %v", err)
	}
	if s.AnsweredCells["0-1"] || s.Players[0].Score != 0 {
		t.Fatalf("rejected answer changed state: %+v", s)
	}

	// The buzz path still scores the cell exactly once.
	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))
	s, err := SubmitBuzzAnswer(s, 1, true, 400, nil, time.Unix(102, 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Players[0].Score != 400 {
		t.Fatalf("score: got %d, want 400", s.Players[0].Score)
	}
	if _, err := SubmitAnswer(s, true, 400, nil); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("resolved cell should leave nothing to answer, got %v", err)
	}
}

func TestAnsweredCellsOnlyGrow(t *testing.T) {
	s := openQuestionState(t, Player{ID: 1}, Player{ID: 2})
	s.AnsweredCells["5-4"] = true

	s, _ = RegisterBuzzIn(s, 1, time.Unix(101, 0))
	s, _ = SubmitBuzzAnswer(s, 1, false, 400, nil, time.Unix(102, 0))
	s, _ = RegisterBuzzIn(s, 2, time.Unix(103, 0))
	s, _ = SubmitBuzzAnswer(s, 2, true, 400, nil, time.Unix(104, 0))

	if !s.AnsweredCells["5-4"] || !s.AnsweredCells["0-1"] {
		t.Fatalf("answered cells lost members: %+v", s.AnsweredCells)
	}
}
