package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinibarbieri/codenames/internal/models"
)

// Status is the lifecycle phase of a session.
type Status string

const (
	// StatusWaiting covers the window between allocation and the first deal.
	// NewSession deals atomically, so sessions it returns are already active.
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Session owns all mutable state for one match. Its methods implement the
// state transitions and return the events each mutation produced, in commit
// order. The session itself does no locking: callers must serialize access so
// at most one mutation is in flight per session, and must publish the
// returned events before releasing that critical section.
type Session struct {
	ID          uuid.UUID       `json:"id"`
	Mode        Mode            `json:"mode"`
	Players     []models.Player `json:"players"`
	Board       models.Board    `json:"board"`
	CurrentTurn models.Team     `json:"currentTurn"`
	CurrentClue models.Clue     `json:"currentClue"`
	Status      Status          `json:"status"`
	Winner      models.Winner   `json:"winner"`
	TurnCount   int             `json:"turnCount"`
	Solo        *SoloConfig     `json:"solo,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	FinishedAt  time.Time       `json:"finishedAt"`

	rules Rules
}

// Config assembles everything needed to open a session.
type Config struct {
	Players []models.Player
	Mode    Mode
	Solo    *SoloConfig
	Words   []string

	// Rules overrides DefaultRules(Mode) when non-nil.
	Rules *Rules

	// Rand drives the deal and the opening coin flip. A nil Rand gets a
	// time-seeded source; tests inject a fixed seed.
	Rand *rand.Rand
}

// NewSession validates the config, deals a board and returns a session
// already in the active state with the opening team set.
func NewSession(cfg Config) (*Session, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrValidation, cfg.Mode)
	}
	if cfg.Mode == ModeSolo {
		if cfg.Solo == nil {
			return nil, fmt.Errorf("%w: solo sessions need a solo config", ErrValidation)
		}
		if err := cfg.Solo.validate(); err != nil {
			return nil, err
		}
	} else if cfg.Solo != nil {
		return nil, fmt.Errorf("%w: solo config on a %s session", ErrValidation, cfg.Mode)
	}
	if err := validateRoster(cfg.Players, cfg.Mode, cfg.Solo); err != nil {
		return nil, err
	}

	rules := DefaultRules(cfg.Mode)
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	board, err := GenerateBoard(cfg.Words, rng, rules.Layout)
	if err != nil {
		return nil, err
	}
	start, err := resolveStartingTeam(rules.StartingTeam, cfg.Solo, rng)
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, len(cfg.Players))
	copy(players, cfg.Players)

	return &Session{
		ID:          uuid.New(),
		Mode:        cfg.Mode,
		Players:     players,
		Board:       board,
		CurrentTurn: start,
		Status:      StatusActive,
		Winner:      models.WinnerNone,
		Solo:        cfg.Solo,
		StartedAt:   time.Now(),
		rules:       rules,
	}, nil
}

func resolveStartingTeam(policy StartingTeam, solo *SoloConfig, rng *rand.Rand) (models.Team, error) {
	switch policy {
	case StartRandom:
		if rng.Intn(2) == 0 {
			return models.TeamRed, nil
		}
		return models.TeamBlue, nil
	case StartHumanTeam:
		if solo == nil {
			return "", fmt.Errorf("%w: starting team %q needs a solo config", ErrValidation, policy)
		}
		return solo.HumanTeam, nil
	case StartBotTeam:
		if solo == nil {
			return "", fmt.Errorf("%w: starting team %q needs a solo config", ErrValidation, policy)
		}
		return solo.BotTeam, nil
	default:
		return "", fmt.Errorf("%w: unknown starting team %q", ErrValidation, policy)
	}
}

// validateRoster enforces the composition rules: every seat well formed with
// a unique actor id, and every playing team holding both roles. Mode-specific
// structure (which seats are bots) is checked on top.
func validateRoster(players []models.Player, mode Mode, solo *SoloConfig) error {
	if len(players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidRoster)
	}
	seen := make(map[uuid.UUID]struct{}, len(players))
	type roleCount struct {
		spymasters    int
		operatives    int
		botSpymasters int
		botOperatives int
		humans        int
		bots          int
	}
	teams := map[models.Team]*roleCount{}
	for _, p := range players {
		if !p.WellFormed() {
			return fmt.Errorf("%w: malformed seat %q", ErrInvalidRoster, p.DisplayName)
		}
		id := p.ActorID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate actor %s", ErrInvalidRoster, id)
		}
		seen[id] = struct{}{}

		rc := teams[p.Team]
		if rc == nil {
			rc = &roleCount{}
			teams[p.Team] = rc
		}
		if p.Role == models.RoleSpymaster {
			rc.spymasters++
			if p.IsBot() {
				rc.botSpymasters++
			}
		} else {
			rc.operatives++
			if p.IsBot() {
				rc.botOperatives++
			}
		}
		if p.IsBot() {
			rc.bots++
		} else {
			rc.humans++
		}
	}
	for team, rc := range teams {
		if rc.spymasters == 0 || rc.operatives == 0 {
			return fmt.Errorf("%w: team %s needs a spymaster and an operative", ErrInvalidRoster, team)
		}
	}

	switch {
	case mode == ModeSolo && solo != nil && solo.BotMode == BotSpymaster:
		// Single participating team: the human's, clued by a bot.
		if len(teams) != 1 {
			return fmt.Errorf("%w: bot-spymaster sessions seat only the human's team", ErrInvalidRoster)
		}
		rc := teams[solo.HumanTeam]
		if rc == nil {
			return fmt.Errorf("%w: no seats on the human's team", ErrInvalidRoster)
		}
		if rc.botSpymasters == 0 {
			return fmt.Errorf("%w: bot-spymaster sessions need a bot in the spymaster seat", ErrInvalidRoster)
		}
		if rc.operatives == rc.botOperatives {
			return fmt.Errorf("%w: bot-spymaster sessions need a human operative", ErrInvalidRoster)
		}
	case mode == ModeSolo && solo != nil && solo.BotMode == BotOperative:
		if len(teams) != 2 {
			return fmt.Errorf("%w: bot-operative sessions seat both teams", ErrInvalidRoster)
		}
		human := teams[solo.HumanTeam]
		bot := teams[solo.BotTeam]
		if human.spymasters == human.botSpymasters {
			return fmt.Errorf("%w: bot-operative sessions need a human spymaster", ErrInvalidRoster)
		}
		if human.botOperatives == 0 {
			return fmt.Errorf("%w: bot-operative sessions need a bot operative teammate", ErrInvalidRoster)
		}
		if bot.humans != 0 {
			return fmt.Errorf("%w: the opposing team must be fully bot-run", ErrInvalidRoster)
		}
	default:
		if len(teams) != 2 {
			return fmt.Errorf("%w: %s sessions seat both teams", ErrInvalidRoster, mode)
		}
	}
	return nil
}

// GiveClue records a new clue for the current team. The actor must be a
// spymaster on the team whose turn it is. A clue given while another is still
// active overwrites it.
func (s *Session) GiveClue(actorID uuid.UUID, word string, number int) ([]Event, error) {
	if s.Status != StatusActive {
		return nil, fmt.Errorf("%w: status %s", ErrSessionNotActive, s.Status)
	}
	p, ok := s.PlayerByActor(actorID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not seated in this session", ErrForbidden, actorID)
	}
	if p.Role != models.RoleSpymaster {
		return nil, fmt.Errorf("%w: only spymasters give clues", ErrForbidden)
	}
	if p.Team != s.CurrentTurn {
		return nil, fmt.Errorf("%w: it is %s's turn", ErrForbidden, s.CurrentTurn)
	}
	word = normalizeClueWord(word)
	if word == "" {
		return nil, fmt.Errorf("%w: empty clue word", ErrValidation)
	}
	if number < 1 || number > 9 {
		return nil, fmt.Errorf("%w: clue number %d out of range [1,9]", ErrValidation, number)
	}

	s.CurrentClue = models.Clue{
		Word:             word,
		Number:           number,
		RemainingGuesses: number + s.rules.GuessBonus,
	}
	return []Event{clueEvent(s.CurrentTurn, s.CurrentClue)}, nil
}

// GuessResult describes what one guess did to the board.
type GuessResult struct {
	CellIndex int
	Card      models.Card
	Correct   bool
}

// MakeGuess reveals one cell for the current team. The actor must be an
// operative on the team whose turn it is, and a clue must be active. The
// reveal is committed before any outcome is evaluated, so a guess that ends
// the game still shows up on the board.
func (s *Session) MakeGuess(actorID uuid.UUID, cellIndex int) (GuessResult, []Event, error) {
	if s.Status != StatusActive {
		return GuessResult{}, nil, fmt.Errorf("%w: status %s", ErrSessionNotActive, s.Status)
	}
	p, ok := s.PlayerByActor(actorID)
	if !ok {
		return GuessResult{}, nil, fmt.Errorf("%w: %s is not seated in this session", ErrForbidden, actorID)
	}
	if p.Role != models.RoleOperative {
		return GuessResult{}, nil, fmt.Errorf("%w: only operatives guess", ErrForbidden)
	}
	if p.Team != s.CurrentTurn {
		return GuessResult{}, nil, fmt.Errorf("%w: it is %s's turn", ErrForbidden, s.CurrentTurn)
	}
	if !s.CurrentClue.Active() {
		return GuessResult{}, nil, fmt.Errorf("%w: no active clue", ErrValidation)
	}
	if cellIndex < 0 || cellIndex >= len(s.Board) {
		return GuessResult{}, nil, fmt.Errorf("%w: cell %d out of range", ErrValidation, cellIndex)
	}
	card := &s.Board[cellIndex]
	if card.Revealed {
		return GuessResult{}, nil, fmt.Errorf("%w: cell %d already revealed", ErrValidation, cellIndex)
	}

	card.Revealed = true
	s.CurrentClue.RemainingGuesses--
	guessing := s.CurrentTurn
	correct := card.Type == guessing.CardType()
	events := []Event{revealEvent(cellIndex, card.Type, correct)}

	switch {
	case card.Type == models.CardAssassin:
		events = append(events, s.finish(models.WinnerFor(guessing.Opponent()))...)
	case s.teamExhausted(card.Type):
		owner, _ := models.TeamFor(card.Type)
		events = append(events, s.finish(models.WinnerFor(owner))...)
	case !correct || s.CurrentClue.RemainingGuesses == 0:
		events = append(events, s.endTurn()...)
	}

	return GuessResult{CellIndex: cellIndex, Card: *card, Correct: correct}, events, nil
}

// teamExhausted reports whether ct is a team's card type whose cards are now
// all revealed. Revealing the last card of either team ends the game in that
// team's favor, no matter who flipped it.
func (s *Session) teamExhausted(ct models.CardType) bool {
	if _, ok := models.TeamFor(ct); !ok {
		return false
	}
	return s.Board.AllRevealed(ct)
}

// ForceEnd finishes the session with no winner. Any seated participant may
// call it.
func (s *Session) ForceEnd(actorID uuid.UUID) ([]Event, error) {
	if s.Status != StatusActive {
		return nil, fmt.Errorf("%w: status %s", ErrSessionNotActive, s.Status)
	}
	if _, ok := s.PlayerByActor(actorID); !ok {
		return nil, fmt.Errorf("%w: %s is not seated in this session", ErrForbidden, actorID)
	}
	return s.finish(models.WinnerNone), nil
}

// ApplyTimeout expires the current turn: the clue is discarded and the turn
// moves on under the session's mode rules. In a bot-spymaster solo session
// that means the human's team keeps the turn with a fresh clue cycle.
func (s *Session) ApplyTimeout() ([]Event, error) {
	if s.Status != StatusActive {
		return nil, fmt.Errorf("%w: status %s", ErrSessionNotActive, s.Status)
	}
	return s.endTurn(), nil
}

// endTurn closes the current clue cycle: clear the clue, advance the turn
// counter, and hand the turn to whoever plays next.
func (s *Session) endTurn() []Event {
	s.CurrentClue = models.Clue{}
	s.CurrentTurn = s.nextTeam()
	s.TurnCount++
	return []Event{turnEvent(s.CurrentTurn, s.TurnCount, s.CurrentClue)}
}

// nextTeam applies the mode's turn-passing rule. Bot-spymaster solo sessions
// have no opposing seats, so the turn loops back to the human's team.
func (s *Session) nextTeam() models.Team {
	if s.Mode == ModeSolo && s.Solo != nil && s.Solo.BotMode == BotSpymaster {
		return s.Solo.HumanTeam
	}
	return s.CurrentTurn.Opponent()
}

func (s *Session) finish(w models.Winner) []Event {
	s.Status = StatusFinished
	s.Winner = w
	s.CurrentClue = models.Clue{}
	s.FinishedAt = time.Now()
	return []Event{endEvent(w)}
}

// TurnToken pins scheduled work to the turn it was issued for. Delayed
// actions compare the session's current token against the one they captured
// and drop themselves when the turn has moved on.
type TurnToken struct {
	Team models.Team
	Turn int
}

// Token returns the current turn token.
func (s *Session) Token() TurnToken {
	return TurnToken{Team: s.CurrentTurn, Turn: s.TurnCount}
}

// PlayerByActor finds the seat acting under the given id.
func (s *Session) PlayerByActor(actorID uuid.UUID) (models.Player, bool) {
	if actorID == uuid.Nil {
		return models.Player{}, false
	}
	for _, p := range s.Players {
		if p.ActorID() == actorID {
			return p, true
		}
	}
	return models.Player{}, false
}

// BotSeatFor finds a bot seated on the given team in the given role.
func (s *Session) BotSeatFor(team models.Team, role models.Role) (models.Player, bool) {
	for _, p := range s.Players {
		if p.IsBot() && p.Team == team && p.Role == role {
			return p, true
		}
	}
	return models.Player{}, false
}

// Snapshot returns a deep copy safe to hand outside the session's critical
// section.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Board = make(models.Board, len(s.Board))
	copy(cp.Board, s.Board)
	cp.Players = make([]models.Player, len(s.Players))
	for i, p := range s.Players {
		if p.Human != nil {
			h := *p.Human
			p.Human = &h
		}
		if p.Bot != nil {
			b := *p.Bot
			p.Bot = &b
		}
		cp.Players[i] = p
	}
	if s.Solo != nil {
		solo := *s.Solo
		cp.Solo = &solo
	}
	return &cp
}

func normalizeClueWord(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}
