package models

// BoardSize is the number of cells on a generated board.
const BoardSize = 25

// CardType identifies who a board cell belongs to.
type CardType string

const (
	CardRed      CardType = "red"
	CardBlue     CardType = "blue"
	CardNeutral  CardType = "neutral"
	CardAssassin CardType = "assassin"
)

// Card is a single board cell. Revealed only ever flips false to true.
type Card struct {
	Word     string   `json:"word"`
	Type     CardType `json:"type"`
	Revealed bool     `json:"revealed"`
}

// Board is the ordered grid of cards for one session. Cell indices are stable
// for the lifetime of the session.
type Board []Card

// UnrevealedCount returns how many cards of the given type are still hidden.
func (b Board) UnrevealedCount(t CardType) int {
	n := 0
	for _, c := range b {
		if c.Type == t && !c.Revealed {
			n++
		}
	}
	return n
}

// CountType returns how many cards of the given type the board holds,
// revealed or not.
func (b Board) CountType(t CardType) int {
	n := 0
	for _, c := range b {
		if c.Type == t {
			n++
		}
	}
	return n
}

// AllRevealed reports whether every card of the given type has been revealed.
func (b Board) AllRevealed(t CardType) bool {
	return b.UnrevealedCount(t) == 0
}
