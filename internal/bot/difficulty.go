package bot

import (
	"math/rand"
	"time"

	"github.com/vinibarbieri/codenames/internal/models"
)

// Profile fixes how a difficulty level plays: how many cards a clue may
// target, how often a guess goes wide, and how long the bot pretends to
// think before acting.
type Profile struct {
	MaxTargets int
	ErrorRate  float64
	ThinkMin   time.Duration
	ThinkMax   time.Duration
}

var profiles = map[models.Difficulty]Profile{
	models.DifficultyEasy: {
		MaxTargets: 1,
		ErrorRate:  0.35,
		ThinkMin:   800 * time.Millisecond,
		ThinkMax:   2 * time.Second,
	},
	models.DifficultyMedium: {
		MaxTargets: 2,
		ErrorRate:  0.15,
		ThinkMin:   1200 * time.Millisecond,
		ThinkMax:   3 * time.Second,
	},
	models.DifficultyHard: {
		MaxTargets: 3,
		ErrorRate:  0.05,
		ThinkMin:   1500 * time.Millisecond,
		ThinkMax:   4 * time.Second,
	},
}

// ProfileFor returns the profile for a difficulty, defaulting to medium for
// anything unknown.
func ProfileFor(d models.Difficulty) Profile {
	p, ok := profiles[d]
	if !ok {
		return profiles[models.DifficultyMedium]
	}
	return p
}

// delay samples a thinking pause in [ThinkMin, ThinkMax].
func (p Profile) delay(rng *rand.Rand) time.Duration {
	if p.ThinkMax <= p.ThinkMin {
		return p.ThinkMin
	}
	return p.ThinkMin + time.Duration(rng.Int63n(int64(p.ThinkMax-p.ThinkMin)))
}
