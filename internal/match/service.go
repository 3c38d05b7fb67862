// Package match coordinates live sessions. It serializes mutations so each
// session sees at most one in-flight change, publishes engine events in
// commit order, drives bot seats and turn countdowns, journals history, and
// applies ranked results to ratings.
package match

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vinibarbieri/codenames/internal/bot"
	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/history"
	"github.com/vinibarbieri/codenames/internal/models"
	"github.com/vinibarbieri/codenames/internal/notify"
	"github.com/vinibarbieri/codenames/internal/rating"
	"github.com/vinibarbieri/codenames/internal/words"
)

// Options tune the service.
type Options struct {
	// TurnTimeout arms a countdown per turn when positive; a turn that
	// outlives it is expired as if ApplyTimeout had been called.
	TurnTimeout time.Duration

	// Words is the default pool for sessions that don't bring their own.
	// Nil falls back to the embedded pool.
	Words *words.Pool
}

// handle carries per-session coordination state. Its mutex is the session's
// critical section: every mutation, view and scheduled wake goes through it.
type handle struct {
	mu        sync.Mutex
	seq       int
	countdown *time.Timer

	// botToken is the turn a guess loop is pending or running for; the zero
	// token means none. Keying the latch by token lets a fresh turn schedule
	// its own loop while a stale task is still waiting to wake.
	botToken game.TurnToken

	// recTail signals completion of the newest journal write; chaining on it
	// delivers a session's records in commit order.
	recTail chan struct{}
}

// releaseBotLoop clears the guess-loop latch if it is still held by the loop
// scheduled under token. A stale loop must not clobber the latch of a fresh
// one scheduled for a later turn.
func (h *handle) releaseBotLoop(token game.TurnToken) {
	if h.botToken == token {
		h.botToken = game.TurnToken{}
	}
}

// Service is the transport-independent entry point for everything that reads
// or mutates sessions.
type Service struct {
	store    game.SessionStore
	notifier notify.Notifier
	policy   bot.DecisionPolicy
	recorder history.Recorder
	ratings  *rating.Book
	logger   *logrus.Logger
	opts     Options

	mu      sync.Mutex
	handles map[uuid.UUID]*handle
}

// New wires a service. A nil notifier or recorder gets a no-op; a nil logger
// gets a fresh one.
func New(store game.SessionStore, notifier notify.Notifier, policy bot.DecisionPolicy, recorder history.Recorder, logger *logrus.Logger, opts Options) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if recorder == nil {
		recorder = history.Nop{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Words == nil {
		opts.Words = words.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		policy:   policy,
		recorder: recorder,
		ratings:  rating.NewBook(),
		logger:   logger,
		opts:     opts,
		handles:  make(map[uuid.UUID]*handle),
	}
}

// CreateParams carries everything a caller may set when opening a session.
type CreateParams struct {
	Players []models.Player
	Mode    game.Mode
	Solo    *game.SoloConfig

	// Words overrides the service's default pool.
	Words []string

	// StartingTeam overrides the mode's default opening policy.
	StartingTeam game.StartingTeam

	// Rand seeds the deal; tests inject a fixed source.
	Rand *rand.Rand
}

// CreateSession validates, deals and registers a new session, then kicks off
// whatever the opening turn needs (countdown, bot clue). Returns a snapshot.
func (s *Service) CreateSession(p CreateParams) (*game.Session, error) {
	src := p.Words
	if src == nil {
		src = s.opts.Words.Words()
	}
	rules := game.DefaultRules(p.Mode)
	if p.StartingTeam != "" {
		rules.StartingTeam = p.StartingTeam
	}
	sess, err := game.NewSession(game.Config{
		Players: p.Players,
		Mode:    p.Mode,
		Solo:    p.Solo,
		Words:   src,
		Rules:   &rules,
		Rand:    p.Rand,
	})
	if err != nil {
		return nil, err
	}

	h := &handle{}
	s.mu.Lock()
	s.handles[sess.ID] = h
	s.mu.Unlock()
	s.store.Save(sess)

	h.mu.Lock()
	defer h.mu.Unlock()
	s.logger.WithFields(logrus.Fields{
		"session": sess.ID,
		"mode":    sess.Mode,
		"turn":    sess.CurrentTurn,
		"players": len(sess.Players),
	}).Info("session created")
	s.armCountdown(h, sess)
	s.maybeScheduleBotClue(h, sess)
	return sess.Snapshot(), nil
}

// PairSession opens a ranked session for two queued players. Each human
// takes a spymaster seat with a bot operative teammate, so the match is
// decided by clue-giving.
func (s *Service) PairSession(a, b uuid.UUID) (*game.Session, error) {
	players := []models.Player{
		models.NewHumanPlayer(a, shortName(a), models.TeamRed, models.RoleSpymaster),
		models.NewBotPlayer("Red Operative", models.TeamRed, models.RoleOperative),
		models.NewHumanPlayer(b, shortName(b), models.TeamBlue, models.RoleSpymaster),
		models.NewBotPlayer("Blue Operative", models.TeamBlue, models.RoleOperative),
	}
	return s.CreateSession(CreateParams{Players: players, Mode: game.ModeRanked})
}

// GiveClue submits a clue for the current team's spymaster and returns the
// resulting snapshot.
func (s *Service) GiveClue(sessionID, actorID uuid.UUID, word string, number int) (*game.Session, error) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	events, err := sess.GiveClue(actorID, word, number)
	if err != nil {
		return nil, err
	}
	s.commit(h, sess, actorID, events)
	return sess.Snapshot(), nil
}

// GuessResponse bundles what one guess changed.
type GuessResponse struct {
	Session   *game.Session
	CellIndex int
	Card      models.Card
	Correct   bool
}

// MakeGuess reveals a cell for the current team's operative.
func (s *Service) MakeGuess(sessionID, actorID uuid.UUID, cellIndex int) (GuessResponse, error) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return GuessResponse{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	res, events, err := sess.MakeGuess(actorID, cellIndex)
	if err != nil {
		return GuessResponse{}, err
	}
	s.commit(h, sess, actorID, events)
	return GuessResponse{
		Session:   sess.Snapshot(),
		CellIndex: res.CellIndex,
		Card:      res.Card,
		Correct:   res.Correct,
	}, nil
}

// ForceEnd finishes a session with no winner on behalf of a participant.
func (s *Service) ForceEnd(sessionID, actorID uuid.UUID) (*game.Session, error) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	events, err := sess.ForceEnd(actorID)
	if err != nil {
		return nil, err
	}
	s.commit(h, sess, actorID, events)
	return sess.Snapshot(), nil
}

// ApplyTimeout expires the current turn on behalf of an external timer.
func (s *Service) ApplyTimeout(sessionID uuid.UUID) (*game.Session, error) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	events, err := sess.ApplyTimeout()
	if err != nil {
		return nil, err
	}
	s.commit(h, sess, uuid.Nil, events)
	return sess.Snapshot(), nil
}

// View returns the role-filtered snapshot for one viewer.
func (s *Service) View(sessionID, viewerID uuid.UUID) (game.View, error) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return game.View{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return sess.ViewFor(viewerID), nil
}

// Rating returns a player's current ranked rating, seeding it if the player
// is new.
func (s *Service) Rating(userID uuid.UUID) rating.Rating {
	return s.ratings.Get(userID)
}

// SweepFinished deletes sessions that finished longer than ttl ago and
// returns how many were removed.
func (s *Service) SweepFinished(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	n := 0
	for _, sess := range s.store.All() {
		h := s.handleFor(sess.ID)
		h.mu.Lock()
		if sess.Status == game.StatusFinished && !sess.FinishedAt.IsZero() && sess.FinishedAt.Before(cutoff) {
			s.stopCountdown(h)
			s.store.Delete(sess.ID)
			s.mu.Lock()
			delete(s.handles, sess.ID)
			s.mu.Unlock()
			n++
		}
		h.mu.Unlock()
	}
	if n > 0 {
		s.logger.Infof("match: swept %d finished sessions", n)
	}
	return n
}

func (s *Service) lookup(id uuid.UUID) (*handle, *game.Session, error) {
	sess, ok := s.store.Load(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: session %s", game.ErrNotFound, id)
	}
	return s.handleFor(id), sess, nil
}

func (s *Service) handleFor(id uuid.UUID) *handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	if !ok {
		h = &handle{}
		s.handles[id] = h
	}
	return h
}

func shortName(id uuid.UUID) string {
	return "player-" + id.String()[:8]
}
