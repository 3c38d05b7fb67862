// internal/game/view_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinibarbieri/codenames/internal/models"
)

func TestViewForSpymasterSeesAllTypes(t *testing.T) {
	sess, ids := setupClassicSession(t, 1, nil)

	v := sess.ViewFor(ids.spymaster[models.TeamRed])
	require.Len(t, v.SpymasterBoard, models.BoardSize)
	assert.Nil(t, v.OperativeBoard)
	for i, c := range v.SpymasterBoard {
		assert.NotEmpty(t, c.Type, "cell %d type hidden from a spymaster", i)
	}
}

func TestViewForOperativeHidesUnrevealedTypes(t *testing.T) {
	sess, ids := setupClassicSession(t, 1, nil)
	team := sess.CurrentTurn

	// Reveal one cell so the projection has both kinds to show.
	_, err := sess.GiveClue(ids.spymaster[team], "TREE", 1)
	require.NoError(t, err)
	idx := cellOfType(t, sess, team.CardType())
	_, _, err = sess.MakeGuess(ids.operative[team], idx)
	require.NoError(t, err)

	v := sess.ViewFor(ids.operative[team])
	require.Len(t, v.OperativeBoard, models.BoardSize)
	assert.Nil(t, v.SpymasterBoard)
	for i, c := range v.OperativeBoard {
		if i == idx {
			assert.True(t, c.Revealed)
			assert.Equal(t, team.CardType(), c.Type, "revealed cells show their owner")
			continue
		}
		assert.Empty(t, c.Type, "cell %d leaks its type to an operative", i)
	}
}

func TestViewForSpectatorGetsOperativeProjection(t *testing.T) {
	sess, _ := setupClassicSession(t, 1, nil)

	v := sess.ViewFor(uuid.New())
	assert.Nil(t, v.SpymasterBoard)
	require.Len(t, v.OperativeBoard, models.BoardSize)
}

func TestViewForFinishedSessionIsPublic(t *testing.T) {
	sess, ids := setupClassicSession(t, 1, nil)
	_, err := sess.ForceEnd(ids.operative[models.TeamRed])
	require.NoError(t, err)

	v := sess.ViewFor(ids.operative[models.TeamRed])
	assert.Nil(t, v.OperativeBoard)
	require.Len(t, v.SpymasterBoard, models.BoardSize, "finished boards are public")
	assert.Equal(t, StatusFinished, v.Status)
}

func TestOperativeBoardUnrevealed(t *testing.T) {
	board := models.Board{
		{Word: "A", Type: models.CardRed},
		{Word: "B", Type: models.CardBlue, Revealed: true},
		{Word: "C", Type: models.CardNeutral},
	}
	ob := NewOperativeBoard(board)
	assert.Equal(t, []int{0, 2}, ob.Unrevealed())
}
