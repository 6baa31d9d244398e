package trivia

// Clue is one question/answer pair. Value is nil for clues used outside the
// standard value ladder (Final Jeopardy).
type Clue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Value    *int   `json:"value"`
}

type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Clues []Clue `json:"clues,omitempty"`

	// FinalClue is set only on the category returned for Final Jeopardy.
	FinalClue *Clue `json:"final_jeopardy_clue,omitempty"`
}

// HardestClue picks the clue with the maximum value, ties broken by first
// occurrence. Clues without a value count as zero.
func HardestClue(clues []Clue) *Clue {
	if len(clues) == 0 {
		return nil
	}
	hardest := 0
	for i, clue := range clues {
		if clueValue(clue) > clueValue(clues[hardest]) {
			hardest = i
		}
	}
	return &clues[hardest]
}

func clueValue(c Clue) int {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}
