// internal/bot/heuristic_test.go
package bot

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/models"
)

// testBoard deals a small fixed board: three red cards, two blue, one neutral
// and the assassin.
func testBoard() models.Board {
	return models.Board{
		{Word: "PLANE", Type: models.CardRed},
		{Word: "TRAIN", Type: models.CardRed},
		{Word: "CAR", Type: models.CardRed},
		{Word: "OCEAN", Type: models.CardBlue},
		{Word: "RIVER", Type: models.CardBlue},
		{Word: "SPOON", Type: models.CardNeutral},
		{Word: "VIRUS", Type: models.CardAssassin},
	}
}

func testLexicon() []string {
	return []string{"PLANET", "TRACK", "OXYGEN", "SPORT", "VIOLIN", "CARGO"}
}

func TestGenerateClueStaysOffTheBoard(t *testing.T) {
	board := testBoard()
	onBoard := make(map[string]bool)
	for _, c := range board {
		onBoard[c.Word] = true
	}

	for seed := int64(0); seed < 50; seed++ {
		p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(seed)))
		word, count, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyHard)
		require.NoError(t, err)
		assert.NotEmpty(t, word)
		assert.False(t, onBoard[word], "seed %d clued a board word %q", seed, word)
		assert.GreaterOrEqual(t, count, 1)
		assert.LessOrEqual(t, count, 3, "hard clues target at most three cards")
	}
}

func TestGenerateClueCountCappedByDifficulty(t *testing.T) {
	board := testBoard()
	for seed := int64(0); seed < 50; seed++ {
		p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(seed)))
		_, count, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyEasy)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "easy clues target one card")
	}
}

func TestGenerateClueCountCappedByRemainingTargets(t *testing.T) {
	board := testBoard()
	board[1].Revealed = true
	board[2].Revealed = true

	for seed := int64(0); seed < 50; seed++ {
		p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(seed)))
		_, count, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyHard)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "one hidden red card left")
	}
}

func TestGenerateClueAvoidsHazardWords(t *testing.T) {
	board := testBoard()
	// Leave a single red target so the choice is free of shuffle noise.
	board[1].Revealed = true
	board[2].Revealed = true

	// PLANES associates with the target; VIRAL associates with the assassin.
	p := NewHeuristicPolicy([]string{"VIRAL", "PLANES"}, rand.New(rand.NewSource(1)))
	word, _, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, "PLANES", word)
}

func TestGenerateClueNoTargetsLeft(t *testing.T) {
	board := testBoard()
	for i := range board {
		if board[i].Type == models.CardRed {
			board[i].Revealed = true
		}
	}
	p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(1)))
	_, _, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyHard)
	assert.ErrorIs(t, err, ErrNoValidMove)
}

func TestGenerateClueBackupWhenLexiconExhausted(t *testing.T) {
	board := testBoard()
	// Every lexicon word already sits on the board.
	lex := make([]string, 0, len(board))
	for _, c := range board {
		lex = append(lex, c.Word)
	}
	p := NewHeuristicPolicy(lex, rand.New(rand.NewSource(1)))
	word, count, err := p.GenerateClue(game.NewSpymasterBoard(board), models.TeamRed, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Contains(t, backupClueWords, word)
	assert.Equal(t, 1, count)
}

func TestGenerateClueDeterministicPerSeed(t *testing.T) {
	board := game.NewSpymasterBoard(testBoard())

	p1 := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(9)))
	p2 := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(9)))
	w1, c1, err := p1.GenerateClue(board, models.TeamRed, models.DifficultyMedium)
	require.NoError(t, err)
	w2, c2, err := p2.GenerateClue(board, models.TeamRed, models.DifficultyMedium)
	require.NoError(t, err)

	assert.Equal(t, w1, w2)
	assert.Equal(t, c1, c2)
}

func TestGenerateGuessPrefersAssociatedWord(t *testing.T) {
	view := game.NewOperativeBoard(testBoard())
	clue := models.Clue{Word: "PLANET", Number: 1, RemainingGuesses: 2}

	// A hard bot misses one guess in twenty; over many seeds the associated
	// cell must dominate.
	hits := 0
	for seed := int64(0); seed < 200; seed++ {
		p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(seed)))
		idx, err := p.GenerateGuess(view, clue, models.TeamRed, models.DifficultyHard)
		require.NoError(t, err)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(view))
		assert.False(t, view[idx].Revealed, "seed %d guessed a revealed cell", seed)
		if view[idx].Word == "PLANE" {
			hits++
		}
	}
	assert.Greater(t, hits, 120, "the overlap heuristic should pick PLANE far more often than chance")
}

func TestGenerateGuessOnlyUnrevealedCells(t *testing.T) {
	board := testBoard()
	board[0].Revealed = true
	board[3].Revealed = true
	view := game.NewOperativeBoard(board)
	clue := models.Clue{Word: "PLANET", Number: 1, RemainingGuesses: 1}

	for seed := int64(0); seed < 100; seed++ {
		p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(seed)))
		idx, err := p.GenerateGuess(view, clue, models.TeamRed, models.DifficultyEasy)
		require.NoError(t, err)
		assert.False(t, view[idx].Revealed, "seed %d guessed a revealed cell", seed)
	}
}

func TestGenerateGuessNoCellsLeft(t *testing.T) {
	board := testBoard()
	for i := range board {
		board[i].Revealed = true
	}
	p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(1)))
	_, err := p.GenerateGuess(game.NewOperativeBoard(board), models.Clue{Word: "X", Number: 1, RemainingGuesses: 1}, models.TeamRed, models.DifficultyHard)
	assert.ErrorIs(t, err, ErrNoValidMove)
}

func TestThinkingDelayWithinProfile(t *testing.T) {
	p := NewHeuristicPolicy(testLexicon(), rand.New(rand.NewSource(1)))
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		prof := ProfileFor(d)
		for i := 0; i < 100; i++ {
			delay := p.ThinkingDelay(d)
			assert.GreaterOrEqual(t, delay, prof.ThinkMin, "difficulty %s", d)
			assert.LessOrEqual(t, delay, prof.ThinkMax, "difficulty %s", d)
		}
	}
}

func TestProfileForUnknownDefaultsToMedium(t *testing.T) {
	assert.Equal(t, ProfileFor(models.DifficultyMedium), ProfileFor("nightmare"))
}

func TestFallbackClue(t *testing.T) {
	view := game.NewSpymasterBoard(testBoard())
	word, count, ok := FallbackClue(view, models.TeamBlue)
	require.True(t, ok)
	assert.Equal(t, "OCEAN", word, "first hidden blue card")
	assert.Equal(t, 1, count)

	board := testBoard()
	for i := range board {
		if board[i].Type == models.CardBlue {
			board[i].Revealed = true
		}
	}
	_, _, ok = FallbackClue(game.NewSpymasterBoard(board), models.TeamBlue)
	assert.False(t, ok)
}

func TestFallbackGuess(t *testing.T) {
	board := testBoard()
	board[0].Revealed = true
	idx, ok := FallbackGuess(game.NewOperativeBoard(board))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	for i := range board {
		board[i].Revealed = true
	}
	_, ok = FallbackGuess(game.NewOperativeBoard(board))
	assert.False(t, ok)
}

func TestLetterOverlap(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"PLANE", "PLANET", 5},
		{"planet", "PLANE", 5},
		{"AAA", "A", 1},
		{"XYZ", "ABC", 0},
		{"", "WORD", 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s vs %s", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.want, letterOverlap(tc.a, tc.b))
		})
	}
}
