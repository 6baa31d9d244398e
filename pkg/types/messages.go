package types

// Client -> Server
// StartGame:
//   player_names: string[]  // 1-3 entries, blanks become "Player {n}"
//
// StartRound1: {}
// StartRound2: {}            // only once round 1's board is exhausted
// StartFinalJeopardy: {}     // only once round 2's board is exhausted
//
// SelectCell:
//   cell_id: "{categoryIndex}-{valueIndex}"
//
// SubmitWager:               // Daily Double only, before the clue is shown
//   wager: number
//
// SubmitAnswer:              // single-answerer (Daily Double / legacy) path
//   correct: boolean
//
// Buzz:
//   player_id: number
//   // Keyboard bindings live in the browser: one key per player position
//   // (e.g. left-shift / space / enter) sends this same message. Gate on
//   // the snapshot's stage being "buzzer_active" and the player still in
//   // remaining_players, and preventDefault on the bound keys while a buzz
//   // window is open.
//
// ShowAnswer: {}             // locked-in player reveals for judging
//
// Judge:                     // scorer judges the current buzzer
//   correct: boolean
//
// CloseQuestion: {}
//
// FinalWager:
//   player_id: number        // must follow the eligible-player order
//   wager: number
//
// FinalJudge:
//   player_id: number        // same order again, once all wagers are in
//   correct: boolean
//
// NewGame: {}                // discard state, back to setup

// Server -> Client
// StateSnapshot:
//   version: number
//   state: full game state (phase, players, board, active_question, ...)
//   remaining_ms: number     // countdown left for the active stage, 0 if idle
//   timings: { buzz_window_ms, answer_window_ms, reveal_delay_ms,
//              daily_double_close_delay_ms }
//
// Error:
//   error: string            // e.g. rejected wager -> re-prompt same player
