package bot

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/models"
)

// backupClueWords keeps clue generation total when the lexicon has nothing
// usable left.
var backupClueWords = []string{
	"ALPHA", "BRAVO", "DELTA", "ECHO", "FOXTROT", "INDIGO",
	"OSCAR", "SIERRA", "TANGO", "VICTOR", "WHISKEY", "ZULU",
}

// HeuristicPolicy is the built-in decision policy. Clues and guesses are
// scored with the same letter-overlap metric, so a bot spymaster and a bot
// operative on the same team land on the same cards more often than chance.
// Difficulty widens the clue, shrinks the error rate and stretches the
// thinking pause.
type HeuristicPolicy struct {
	mu      sync.Mutex
	rng     *rand.Rand
	lexicon []string
}

// NewHeuristicPolicy builds a policy cluing from the given lexicon. A nil
// rng gets a time-seeded source; tests inject a fixed seed.
func NewHeuristicPolicy(lexicon []string, rng *rand.Rand) *HeuristicPolicy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	lex := make([]string, 0, len(lexicon))
	for _, w := range lexicon {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			lex = append(lex, w)
		}
	}
	return &HeuristicPolicy{rng: rng, lexicon: lex}
}

// GenerateClue picks up to MaxTargets of the team's unrevealed words and the
// lexicon word that associates best with them while steering clear of the
// assassin and enemy cards. Board words are never used as clues.
func (p *HeuristicPolicy) GenerateClue(view game.SpymasterBoard, team models.Team, d models.Difficulty) (string, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	own := team.CardType()
	var targets, hazards []string
	onBoard := make(map[string]struct{}, len(view))
	for _, c := range view {
		onBoard[c.Word] = struct{}{}
		if c.Revealed {
			continue
		}
		switch c.Type {
		case own:
			targets = append(targets, c.Word)
		case models.CardAssassin, team.Opponent().CardType():
			hazards = append(hazards, c.Word)
		}
	}
	if len(targets) == 0 {
		return "", 0, ErrNoValidMove
	}

	prof := ProfileFor(d)
	count := 1 + p.rng.Intn(prof.MaxTargets)
	if count > len(targets) {
		count = len(targets)
	}
	p.rng.Shuffle(len(targets), func(i, j int) {
		targets[i], targets[j] = targets[j], targets[i]
	})
	chosen := targets[:count]

	best, bestScore := "", -1<<30
	for _, cand := range p.lexicon {
		if _, taken := onBoard[cand]; taken {
			continue
		}
		score := 0
		for _, t := range chosen {
			score += letterOverlap(cand, t)
		}
		for _, h := range hazards {
			score -= 2 * letterOverlap(cand, h)
		}
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	if best == "" {
		best = backupClueWords[p.rng.Intn(len(backupClueWords))]
	}
	return best, count, nil
}

// GenerateGuess returns the unrevealed cell whose word associates best with
// the clue. With probability ErrorRate the guess goes wide to a random
// unrevealed cell instead.
func (p *HeuristicPolicy) GenerateGuess(view game.OperativeBoard, clue models.Clue, team models.Team, d models.Difficulty) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	open := view.Unrevealed()
	if len(open) == 0 {
		return 0, ErrNoValidMove
	}
	prof := ProfileFor(d)
	if p.rng.Float64() < prof.ErrorRate {
		return open[p.rng.Intn(len(open))], nil
	}
	best, bestScore := open[0], -1
	for _, i := range open {
		if s := letterOverlap(clue.Word, view[i].Word); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, nil
}

// ThinkingDelay samples the difficulty's thinking pause.
func (p *HeuristicPolicy) ThinkingDelay(d models.Difficulty) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileFor(d).delay(p.rng)
}

// letterOverlap counts distinct letters the two words share. Crude, but
// symmetric and cheap, which is all the pairing trick needs.
func letterOverlap(a, b string) int {
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	var inA ['Z' - 'A' + 1]bool
	for _, r := range a {
		if r >= 'A' && r <= 'Z' {
			inA[r-'A'] = true
		}
	}
	n := 0
	var counted ['Z' - 'A' + 1]bool
	for _, r := range b {
		if r >= 'A' && r <= 'Z' && inA[r-'A'] && !counted[r-'A'] {
			counted[r-'A'] = true
			n++
		}
	}
	return n
}
