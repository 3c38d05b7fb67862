package game

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vinibarbieri/codenames/internal/models"
)

// Layout fixes how many cells each card type receives on a fresh board.
type Layout struct {
	PerTeam   int
	Neutral   int
	Assassins int
}

// DefaultLayout is the standard 25-cell deal.
var DefaultLayout = Layout{PerTeam: 8, Neutral: 8, Assassins: 1}

// Total returns the number of cells the layout fills.
func (l Layout) Total() int {
	return 2*l.PerTeam + l.Neutral + l.Assassins
}

// GenerateBoard deals a board: it samples distinct words from the source,
// shuffles a card-type multiset per the layout, and zips the two together.
// Words are trimmed and upper-cased before the distinctness check.
func GenerateBoard(wordSource []string, rng *rand.Rand, layout Layout) (models.Board, error) {
	if layout.Total() != models.BoardSize {
		return nil, fmt.Errorf("%w: layout fills %d cells, want %d", ErrValidation, layout.Total(), models.BoardSize)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil rng", ErrValidation)
	}

	words := distinctWords(wordSource)
	if len(words) < models.BoardSize {
		return nil, fmt.Errorf("%w: %d distinct words, need %d", ErrInsufficientWordPool, len(words), models.BoardSize)
	}
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	types := make([]models.CardType, 0, models.BoardSize)
	for i := 0; i < layout.PerTeam; i++ {
		types = append(types, models.CardRed, models.CardBlue)
	}
	for i := 0; i < layout.Neutral; i++ {
		types = append(types, models.CardNeutral)
	}
	for i := 0; i < layout.Assassins; i++ {
		types = append(types, models.CardAssassin)
	}
	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	board := make(models.Board, models.BoardSize)
	for i := range board {
		board[i] = models.Card{Word: words[i], Type: types[i]}
	}
	return board, nil
}

// distinctWords normalizes the source and drops duplicates, preserving first
// occurrence order.
func distinctWords(source []string) []string {
	seen := make(map[string]struct{}, len(source))
	out := make([]string, 0, len(source))
	for _, w := range source {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
