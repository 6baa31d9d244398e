package engine

import (
	"fmt"

	"github.com/KevMathews/jeopardy/internal/board"
)

// WagerError is a field-level validation failure. It never accompanies a
// state change; the caller re-prompts the same player.
type WagerError struct {
	Min int
	Max int
	Msg string
}

func (e *WagerError) Error() string {
	return e.Msg
}

// DailyDoubleWagerRange is the legal wager window for a Daily Double: at
// least the house minimum, at most the round's top clue value or the
// player's score, whichever is greater, with non-positive scores capped at
// the board maximum.
func DailyDoubleWagerRange(playerScore, round int) (min, max int) {
	min = board.MinDailyDoubleWager
	max = board.MaxClueValue(round)
	if playerScore > max {
		max = playerScore
	}
	return min, max
}

func ValidateDailyDoubleWager(playerScore, round, wager int) error {
	min, max := DailyDoubleWagerRange(playerScore, round)
	if wager < min {
		return &WagerError{Min: min, Max: max, Msg: fmt.Sprintf("minimum wager is $%d", min)}
	}
	if wager > max {
		return &WagerError{Min: min, Max: max, Msg: fmt.Sprintf("maximum wager is $%d", max)}
	}
	return nil
}

// ValidateFinalWager allows anything from nothing up to the player's whole
// score. Players with no score to risk never reach this check; they are
// excluded from Final Jeopardy entirely.
func ValidateFinalWager(playerScore, wager int) error {
	if wager < 0 {
		return &WagerError{Min: 0, Max: playerScore, Msg: "minimum wager is $0"}
	}
	if wager > playerScore {
		return &WagerError{Min: 0, Max: playerScore, Msg: fmt.Sprintf("maximum wager is $%d", playerScore)}
	}
	return nil
}
