package game

import (
	"fmt"

	"github.com/vinibarbieri/codenames/internal/models"
)

// Mode selects the rule set for a session.
type Mode string

const (
	// ModeClassic is the plain human-vs-human game.
	ModeClassic Mode = "classic"
	// ModeSolo is a human playing against or alongside bot seats.
	ModeSolo Mode = "solo"
	// ModeRanked is a paired match whose outcome moves player ratings.
	ModeRanked Mode = "ranked"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeClassic || m == ModeSolo || m == ModeRanked
}

// BotMode says which seat the bot fills in a solo session.
type BotMode string

const (
	// BotSpymaster puts the bot behind the clues and the human behind the
	// guesses, both on the same team. The turn never passes to the empty
	// opposing team; a finished clue cycle loops back to a fresh bot clue.
	BotSpymaster BotMode = "bot_spymaster"

	// BotOperative gives the human the spymaster seat with a bot teammate
	// guessing, against a fully bot-run opposing team. Turns alternate
	// normally.
	BotOperative BotMode = "bot_operative"
)

// StartingTeam selects who opens a session.
type StartingTeam string

const (
	StartRandom    StartingTeam = "random"
	StartHumanTeam StartingTeam = "human_team"
	StartBotTeam   StartingTeam = "bot_team"
)

// SoloConfig describes the bot side of a solo session.
type SoloConfig struct {
	BotMode    BotMode           `json:"botMode"`
	Difficulty models.Difficulty `json:"difficulty"`
	HumanTeam  models.Team       `json:"humanTeam"`
	BotTeam    models.Team       `json:"botTeam"`
}

func (c *SoloConfig) validate() error {
	if !c.HumanTeam.Valid() || !c.BotTeam.Valid() {
		return fmt.Errorf("%w: solo config names unknown teams", ErrValidation)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrValidation, c.Difficulty)
	}
	switch c.BotMode {
	case BotSpymaster:
		if c.BotTeam != c.HumanTeam {
			return fmt.Errorf("%w: bot spymaster must share the human's team", ErrValidation)
		}
	case BotOperative:
		if c.BotTeam != c.HumanTeam.Opponent() {
			return fmt.Errorf("%w: bot team must oppose the human's team", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown bot mode %q", ErrValidation, c.BotMode)
	}
	return nil
}

// Rules capture the mode-dependent knobs of a session.
type Rules struct {
	// Layout fixes the card-type distribution of the dealt board.
	Layout Layout

	// GuessBonus is how many extra guesses a clue grants beyond its number.
	GuessBonus int

	// StartingTeam is how the opening team is chosen.
	StartingTeam StartingTeam
}

// DefaultRules returns the standard rules for a mode. Solo sessions open on
// the human's team so the first move is always playable; other modes flip a
// coin.
func DefaultRules(mode Mode) Rules {
	r := Rules{
		Layout:       DefaultLayout,
		GuessBonus:   1,
		StartingTeam: StartRandom,
	}
	if mode == ModeSolo {
		r.StartingTeam = StartHumanTeam
	}
	return r
}
