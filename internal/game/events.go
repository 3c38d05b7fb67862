package game

import (
	"github.com/google/uuid"

	"github.com/vinibarbieri/codenames/internal/models"
)

// EventType tags every payload the engine publishes.
type EventType string

const (
	EventClueGiven    EventType = "clue-given"
	EventCellRevealed EventType = "cell-revealed"
	EventTurnChanged  EventType = "turn-changed"
	EventGameEnded    EventType = "game-ended"
)

// Event is one engine occurrence bound for subscribers of a session. Exactly
// one payload pointer is set, matching Type.
type Event struct {
	Type   EventType      `json:"type"`
	Clue   *CluePayload   `json:"clue,omitempty"`
	Reveal *RevealPayload `json:"reveal,omitempty"`
	Turn   *TurnPayload   `json:"turn,omitempty"`
	End    *EndPayload    `json:"end,omitempty"`
}

// CluePayload mirrors the clue now in play.
type CluePayload struct {
	Team             models.Team `json:"team"`
	Word             string      `json:"word"`
	Number           int         `json:"number"`
	RemainingGuesses int         `json:"remainingGuesses"`
}

// RevealPayload reports one flipped cell. Correct means the card belonged to
// the guessing team.
type RevealPayload struct {
	CellIndex int             `json:"cellIndex"`
	CardType  models.CardType `json:"cardType"`
	Correct   bool            `json:"correct"`
}

// TurnPayload reports whose turn it now is. CurrentClue is the clue now in
// play, which is the empty clue whenever the change came from a turn ending.
type TurnPayload struct {
	CurrentTurn models.Team `json:"currentTurn"`
	TurnCount   int         `json:"turnCount"`
	CurrentClue models.Clue `json:"currentClue"`
}

// RatingChange reports one player's rating movement after a ranked session.
type RatingChange struct {
	UserID uuid.UUID `json:"userId"`
	Rating int       `json:"rating"`
	Delta  int       `json:"delta"`
}

// EndPayload reports the final outcome. Ratings is only populated for ranked
// sessions, after the coordinator has applied the result.
type EndPayload struct {
	Winner  models.Winner  `json:"winner"`
	Ratings []RatingChange `json:"ratings,omitempty"`
}

func clueEvent(team models.Team, c models.Clue) Event {
	return Event{Type: EventClueGiven, Clue: &CluePayload{
		Team:             team,
		Word:             c.Word,
		Number:           c.Number,
		RemainingGuesses: c.RemainingGuesses,
	}}
}

func revealEvent(idx int, ct models.CardType, correct bool) Event {
	return Event{Type: EventCellRevealed, Reveal: &RevealPayload{
		CellIndex: idx,
		CardType:  ct,
		Correct:   correct,
	}}
}

func turnEvent(team models.Team, count int, clue models.Clue) Event {
	return Event{Type: EventTurnChanged, Turn: &TurnPayload{
		CurrentTurn: team,
		TurnCount:   count,
		CurrentClue: clue,
	}}
}

func endEvent(w models.Winner) Event {
	return Event{Type: EventGameEnded, End: &EndPayload{Winner: w}}
}
