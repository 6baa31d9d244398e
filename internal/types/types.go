package types

import "github.com/KevMathews/jeopardy/internal/engine"

type ClientMessage struct {
	Type        string   `json:"type"`
	PlayerNames []string `json:"player_names,omitempty"`
	CellID      string   `json:"cell_id,omitempty"`
	PlayerID    int      `json:"player_id,omitempty"`
	Correct     bool     `json:"correct,omitempty"`
	Wager       int      `json:"wager,omitempty"`
}

// Timings in milliseconds, the unit the browser's render loop works in.
type Timings struct {
	BuzzWindowMS            int64 `json:"buzz_window_ms"`
	AnswerWindowMS          int64 `json:"answer_window_ms"`
	RevealDelayMS           int64 `json:"reveal_delay_ms"`
	DailyDoubleCloseDelayMS int64 `json:"daily_double_close_delay_ms"`
}

type ServerMessage struct {
	Type        string        `json:"type"` // "StateSnapshot" | "Error"
	Version     int           `json:"version,omitempty"`
	State       *engine.State `json:"state,omitempty"`
	RemainingMS int64         `json:"remaining_ms,omitempty"`
	Timings     *Timings      `json:"timings,omitempty"`
	Error       string        `json:"error,omitempty"`
}
