package engine

// EligibleFinalists returns, in player order, everyone allowed into Final
// Jeopardy: only players holding a positive score may wager.
func EligibleFinalists(s State) []Player {
	var eligible []Player
	for _, p := range s.Players {
		if p.Score > 0 {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// FinalResult is one finalist's wager and judgment.
type FinalResult struct {
	Wager   int  `json:"wager"`
	Correct bool `json:"correct"`
}

// ApplyFinalResults applies ±wager for every judged finalist in one batch,
// once the sequential wager and judgment passes are both complete. Results
// for unknown or ineligible players are rejected without touching state.
func ApplyFinalResults(s State, results map[int]FinalResult) (State, error) {
	if s.Phase != PhaseFinal {
		return s, ErrWrongPhase
	}

	eligible := make(map[int]bool)
	for _, p := range EligibleFinalists(s) {
		eligible[p.ID] = true
	}
	for playerID := range results {
		if !eligible[playerID] {
			return s, ErrNotEligible
		}
	}

	next := s.clone()
	for i, p := range next.Players {
		result, ok := results[p.ID]
		if !ok {
			continue
		}
		if result.Correct {
			next.Players[i].Score += result.Wager
		} else {
			next.Players[i].Score -= result.Wager
		}
	}
	return next, nil
}
