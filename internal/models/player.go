package models

import "github.com/google/uuid"

// Human identifies a seat held by a real user.
type Human struct {
	UserID uuid.UUID `json:"userId"`
}

// Bot identifies a seat driven by a decision policy.
type Bot struct {
	BotID uuid.UUID `json:"botId"`
}

// Difficulty tunes how well (and how fast) a bot seat plays.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Player is one seat in a session. Exactly one of Human or Bot is set; the
// constructors below are the only intended way to build one.
type Player struct {
	Human       *Human `json:"human,omitempty"`
	Bot         *Bot   `json:"bot,omitempty"`
	Team        Team   `json:"team"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
}

// NewHumanPlayer seats a user.
func NewHumanPlayer(userID uuid.UUID, name string, team Team, role Role) Player {
	return Player{
		Human:       &Human{UserID: userID},
		Team:        team,
		Role:        role,
		DisplayName: name,
	}
}

// NewBotPlayer seats a bot with a fresh identity.
func NewBotPlayer(name string, team Team, role Role) Player {
	return Player{
		Bot:         &Bot{BotID: uuid.New()},
		Team:        team,
		Role:        role,
		DisplayName: name,
	}
}

// IsBot reports whether the seat is bot-driven.
func (p Player) IsBot() bool {
	return p.Bot != nil
}

// ActorID returns the id that acts for this seat: the user id for humans,
// the bot id for bots.
func (p Player) ActorID() uuid.UUID {
	if p.Human != nil {
		return p.Human.UserID
	}
	if p.Bot != nil {
		return p.Bot.BotID
	}
	return uuid.Nil
}

// WellFormed reports whether the seat carries exactly one identity and known
// team and role values.
func (p Player) WellFormed() bool {
	if (p.Human == nil) == (p.Bot == nil) {
		return false
	}
	return p.Team.Valid() && p.Role.Valid()
}
