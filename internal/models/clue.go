package models

// Clue is the hint currently in play for the guessing team. The zero value
// means no clue has been given this turn.
type Clue struct {
	Word             string `json:"word"`
	Number           int    `json:"number"`
	RemainingGuesses int    `json:"remainingGuesses"`
}

// Active reports whether guesses may still be made against this clue.
func (c Clue) Active() bool {
	return c.Word != "" && c.RemainingGuesses > 0
}
