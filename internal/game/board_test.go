// internal/game/board_test.go
package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinibarbieri/codenames/internal/models"
)

// testWords returns n distinct already-normalized words.
func testWords(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("WORD-%02d", i)
	}
	return out
}

func TestGenerateBoardDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	board, err := GenerateBoard(testWords(40), rng, DefaultLayout)
	require.NoError(t, err)
	require.Len(t, board, models.BoardSize)

	assert.Equal(t, 8, board.CountType(models.CardRed), "red card count")
	assert.Equal(t, 8, board.CountType(models.CardBlue), "blue card count")
	assert.Equal(t, 8, board.CountType(models.CardNeutral), "neutral card count")
	assert.Equal(t, 1, board.CountType(models.CardAssassin), "assassin card count")

	seen := make(map[string]bool)
	for i, c := range board {
		assert.False(t, c.Revealed, "cell %d should start unrevealed", i)
		assert.False(t, seen[c.Word], "word %q dealt twice", c.Word)
		seen[c.Word] = true
	}
}

func TestGenerateBoardNormalizesAndDedupes(t *testing.T) {
	// 24 distinct words dressed up as more via case and whitespace.
	src := testWords(24)
	src = append(src, " word-00 ", "Word-01", "word-02")
	_, err := GenerateBoard(src, rand.New(rand.NewSource(1)), DefaultLayout)
	assert.ErrorIs(t, err, ErrInsufficientWordPool, "duplicates must not count toward the 25")
}

func TestGenerateBoardExactPool(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	board, err := GenerateBoard(testWords(25), rng, DefaultLayout)
	require.NoError(t, err)
	assert.Len(t, board, models.BoardSize)
}

func TestGenerateBoardInsufficientPool(t *testing.T) {
	_, err := GenerateBoard(testWords(24), rand.New(rand.NewSource(1)), DefaultLayout)
	assert.ErrorIs(t, err, ErrInsufficientWordPool)
}

func TestGenerateBoardDeterministicPerSeed(t *testing.T) {
	words := testWords(60)
	a, err := GenerateBoard(words, rand.New(rand.NewSource(42)), DefaultLayout)
	require.NoError(t, err)
	b, err := GenerateBoard(words, rand.New(rand.NewSource(42)), DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed should deal the same board")

	c, err := GenerateBoard(words, rand.New(rand.NewSource(43)), DefaultLayout)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should deal different boards")
}

func TestGenerateBoardRejectsBadLayout(t *testing.T) {
	bad := Layout{PerTeam: 9, Neutral: 8, Assassins: 1}
	_, err := GenerateBoard(testWords(40), rand.New(rand.NewSource(1)), bad)
	assert.ErrorIs(t, err, ErrValidation)
}
