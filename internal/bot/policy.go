// Package bot holds the decision policies that drive bot seats.
package bot

import (
	"errors"
	"time"

	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/models"
)

// ErrNoValidMove reports a board with nothing left for the bot to do.
var ErrNoValidMove = errors.New("no valid move")

// DecisionPolicy produces bot moves from restricted board views. GenerateClue
// sees the spymaster projection; GenerateGuess only ever receives the
// operative projection, so unrevealed card types cannot reach it. Difficulty
// tunes how sharp and how fast the policy plays. Implementations must be safe
// for concurrent use; one policy serves every session.
type DecisionPolicy interface {
	GenerateClue(view game.SpymasterBoard, team models.Team, d models.Difficulty) (word string, count int, err error)
	GenerateGuess(view game.OperativeBoard, clue models.Clue, team models.Team, d models.Difficulty) (int, error)
	ThinkingDelay(d models.Difficulty) time.Duration
}

// FallbackClue is the deterministic degraded clue: the first unrevealed card
// owned by the team, cluing exactly itself. The second return is false when
// the team has nothing left to clue.
func FallbackClue(view game.SpymasterBoard, team models.Team) (string, int, bool) {
	ct := team.CardType()
	for _, c := range view {
		if c.Type == ct && !c.Revealed {
			return c.Word, 1, true
		}
	}
	return "", 0, false
}

// FallbackGuess is the deterministic degraded guess: the first unrevealed
// cell. The second return is false when the board is fully revealed.
func FallbackGuess(view game.OperativeBoard) (int, bool) {
	for i, c := range view {
		if !c.Revealed {
			return i, true
		}
	}
	return 0, false
}
