package game

import (
	"github.com/google/uuid"

	"github.com/vinibarbieri/codenames/internal/models"
)

// SpymasterCard is a cell as a clue-giver sees it: the owner is always
// visible.
type SpymasterCard struct {
	Word     string          `json:"word"`
	Type     models.CardType `json:"type"`
	Revealed bool            `json:"revealed"`
}

// OperativeCard is a cell as a guesser sees it. Type is only populated once
// the cell has been revealed; the projection in NewOperativeBoard is the only
// place a type crosses over.
type OperativeCard struct {
	Word     string          `json:"word"`
	Revealed bool            `json:"revealed"`
	Type     models.CardType `json:"type,omitempty"`
}

// SpymasterBoard and OperativeBoard are distinct types on purpose: APIs that
// must not see hidden card types take an OperativeBoard, and the compiler
// keeps the full board out.
type SpymasterBoard []SpymasterCard

// OperativeBoard is the hidden-information projection of a board.
type OperativeBoard []OperativeCard

// NewSpymasterBoard projects the full board for a clue-giver.
func NewSpymasterBoard(b models.Board) SpymasterBoard {
	out := make(SpymasterBoard, len(b))
	for i, c := range b {
		out[i] = SpymasterCard{Word: c.Word, Type: c.Type, Revealed: c.Revealed}
	}
	return out
}

// NewOperativeBoard projects the board for a guesser, stripping the types of
// unrevealed cells.
func NewOperativeBoard(b models.Board) OperativeBoard {
	out := make(OperativeBoard, len(b))
	for i, c := range b {
		oc := OperativeCard{Word: c.Word, Revealed: c.Revealed}
		if c.Revealed {
			oc.Type = c.Type
		}
		out[i] = oc
	}
	return out
}

// Unrevealed returns the indices of cells still face down, in board order.
func (ob OperativeBoard) Unrevealed() []int {
	var idx []int
	for i, c := range ob {
		if !c.Revealed {
			idx = append(idx, i)
		}
	}
	return idx
}

// View is the role-filtered snapshot served to one viewer. Exactly one board
// projection is set.
type View struct {
	ID             uuid.UUID       `json:"id"`
	Mode           Mode            `json:"mode"`
	Status         Status          `json:"status"`
	Winner         models.Winner   `json:"winner"`
	CurrentTurn    models.Team     `json:"currentTurn"`
	CurrentClue    models.Clue     `json:"currentClue"`
	TurnCount      int             `json:"turnCount"`
	Players        []models.Player `json:"players"`
	SpymasterBoard SpymasterBoard  `json:"spymasterBoard,omitempty"`
	OperativeBoard OperativeBoard  `json:"operativeBoard,omitempty"`
}

// ViewFor projects the session for one viewer. Spymasters see the full
// board; operatives and spectators see the stripped one. Once the session is
// finished everything is public.
func (s *Session) ViewFor(viewerID uuid.UUID) View {
	v := View{
		ID:          s.ID,
		Mode:        s.Mode,
		Status:      s.Status,
		Winner:      s.Winner,
		CurrentTurn: s.CurrentTurn,
		CurrentClue: s.CurrentClue,
		TurnCount:   s.TurnCount,
		Players:     append([]models.Player(nil), s.Players...),
	}
	p, seated := s.PlayerByActor(viewerID)
	full := s.Status == StatusFinished || (seated && p.Role == models.RoleSpymaster)
	if full {
		v.SpymasterBoard = NewSpymasterBoard(s.Board)
	} else {
		v.OperativeBoard = NewOperativeBoard(s.Board)
	}
	return v
}
