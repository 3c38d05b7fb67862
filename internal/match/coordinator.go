package match

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vinibarbieri/codenames/internal/bot"
	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/history"
	"github.com/vinibarbieri/codenames/internal/models"
)

// commit finishes a successful mutation: save, enrich ranked endings with
// rating movements, publish events in commit order, journal them, then react
// with timers and bot scheduling. Callers hold the session's critical
// section throughout, so subscribers observe every session's events in the
// order the state machine produced them.
func (s *Service) commit(h *handle, sess *game.Session, actorID uuid.UUID, events []game.Event) {
	s.store.Save(sess)
	for _, ev := range events {
		if ev.Type == game.EventGameEnded {
			s.applyRatings(sess, ev.End)
		}
	}
	for _, ev := range events {
		h.seq++
		s.notifier.Publish(sess.ID, ev)
		s.record(h, sess.ID, h.seq, actorID, ev)
	}
	s.react(h, sess, events)
}

// record journals one committed event off the hot path. Each write waits for
// the session's previous one, so the recorder sees records in commit order.
// Failures are logged and never block or fail the mutation.
func (s *Service) record(h *handle, sessionID uuid.UUID, seq int, actorID uuid.UUID, ev game.Event) {
	rec := history.Record{
		SessionID: sessionID,
		Seq:       seq,
		ActorID:   actorID,
		EventType: string(ev.Type),
		Payload:   eventPayload(ev),
		Timestamp: time.Now().UnixMilli(),
	}
	prev := h.recTail
	done := make(chan struct{})
	h.recTail = done
	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.recorder.Record(ctx, rec); err != nil {
			s.logger.Warnf("history: record %s #%d failed: %v", sessionID, seq, err)
		}
	}()
}

func eventPayload(ev game.Event) any {
	switch ev.Type {
	case game.EventClueGiven:
		return ev.Clue
	case game.EventCellRevealed:
		return ev.Reveal
	case game.EventTurnChanged:
		return ev.Turn
	case game.EventGameEnded:
		return ev.End
	default:
		return nil
	}
}

// applyRatings fills a ranked ending with rating movements before it is
// published. The first human on the winning team is scored against the
// first human on the losing team.
func (s *Service) applyRatings(sess *game.Session, end *game.EndPayload) {
	if sess.Mode != game.ModeRanked || end == nil || end.Winner == models.WinnerNone {
		return
	}
	winTeam := models.TeamRed
	if end.Winner == models.WinnerBlue {
		winTeam = models.TeamBlue
	}
	w, okW := firstHuman(sess, winTeam)
	l, okL := firstHuman(sess, winTeam.Opponent())
	if !okW || !okL {
		return
	}
	nw, nl, dw, dl := s.ratings.ApplyResult(w.Human.UserID, l.Human.UserID)
	end.Ratings = []game.RatingChange{
		{UserID: w.Human.UserID, Rating: nw.Elo, Delta: dw},
		{UserID: l.Human.UserID, Rating: nl.Elo, Delta: dl},
	}
	s.logger.WithFields(logrus.Fields{
		"session": sess.ID,
		"winner":  w.Human.UserID,
		"loser":   l.Human.UserID,
		"deltas":  []int{dw, dl},
	}).Info("ranked result applied")
}

func firstHuman(sess *game.Session, team models.Team) (models.Player, bool) {
	for _, p := range sess.Players {
		if !p.IsBot() && p.Team == team {
			return p, true
		}
	}
	return models.Player{}, false
}

// react schedules the follow-up work committed events call for. It runs
// inside the critical section; everything it schedules re-validates against
// the session's turn token on wake.
func (s *Service) react(h *handle, sess *game.Session, events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EventTurnChanged:
			s.armCountdown(h, sess)
			s.maybeScheduleBotClue(h, sess)
		case game.EventClueGiven:
			s.maybeScheduleBotGuesses(h, sess)
		case game.EventGameEnded:
			s.stopCountdown(h)
		}
	}
}

// armCountdown restarts the turn countdown for the current turn. The timer
// is not cancelled when the turn moves on; it fires, notices its token is
// stale and discards itself.
func (s *Service) armCountdown(h *handle, sess *game.Session) {
	if s.opts.TurnTimeout <= 0 {
		return
	}
	if h.countdown != nil {
		h.countdown.Stop()
	}
	id, token := sess.ID, sess.Token()
	h.countdown = time.AfterFunc(s.opts.TurnTimeout, func() {
		s.fireTimeout(id, token)
	})
}

func (s *Service) stopCountdown(h *handle) {
	if h.countdown != nil {
		h.countdown.Stop()
		h.countdown = nil
	}
}

func (s *Service) fireTimeout(sessionID uuid.UUID, token game.TurnToken) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if sess.Status != game.StatusActive || sess.Token() != token {
		s.logger.Debugf("match: stale countdown for session %s, ignoring", sessionID)
		return
	}
	events, err := sess.ApplyTimeout()
	if err != nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"team":    token.Team,
	}).Info("turn timed out")
	s.commit(h, sess, uuid.Nil, events)
}

// difficulty picks the profile bot seats play at: solo sessions use their
// configured level, ranked bot operatives play hard so the humans' clues
// decide the match, everything else defaults to medium.
func (s *Service) difficulty(sess *game.Session) models.Difficulty {
	switch {
	case sess.Solo != nil:
		return sess.Solo.Difficulty
	case sess.Mode == game.ModeRanked:
		return models.DifficultyHard
	default:
		return models.DifficultyMedium
	}
}

func (s *Service) maybeScheduleBotClue(h *handle, sess *game.Session) {
	if sess.Status != game.StatusActive || sess.CurrentClue.Active() {
		return
	}
	if _, ok := sess.BotSeatFor(sess.CurrentTurn, models.RoleSpymaster); !ok {
		return
	}
	id, token := sess.ID, sess.Token()
	time.AfterFunc(s.policy.ThinkingDelay(s.difficulty(sess)), func() {
		s.runBotClue(id, token)
	})
}

func (s *Service) runBotClue(sessionID uuid.UUID, token game.TurnToken) {
	h, sess, err := s.lookup(sessionID)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if sess.Status != game.StatusActive || sess.Token() != token {
		s.logger.Debugf("match: stale bot clue for session %s, ignoring", sessionID)
		return
	}
	seat, ok := sess.BotSeatFor(sess.CurrentTurn, models.RoleSpymaster)
	if !ok {
		return
	}
	view := game.NewSpymasterBoard(sess.Board)
	word, count, err := s.policy.GenerateClue(view, seat.Team, s.difficulty(sess))
	if err != nil {
		if !errors.Is(err, bot.ErrNoValidMove) {
			s.logger.Warnf("match: clue policy failed for session %s: %v", sessionID, err)
		}
		word, count, ok = bot.FallbackClue(view, seat.Team)
		if !ok {
			return
		}
	}
	events, err := sess.GiveClue(seat.ActorID(), word, count)
	if err != nil {
		s.logger.Warnf("match: bot clue rejected for session %s: %v", sessionID, err)
		return
	}
	s.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"team":    seat.Team,
		"clue":    word,
		"count":   count,
	}).Info("bot clue given")
	s.commit(h, sess, seat.ActorID(), events)
}

func (s *Service) maybeScheduleBotGuesses(h *handle, sess *game.Session) {
	if sess.Status != game.StatusActive || !sess.CurrentClue.Active() {
		return
	}
	if _, ok := sess.BotSeatFor(sess.CurrentTurn, models.RoleOperative); !ok {
		return
	}
	id, token := sess.ID, sess.Token()
	if h.botToken == token {
		return
	}
	h.botToken = token
	time.AfterFunc(s.policy.ThinkingDelay(s.difficulty(sess)), func() {
		s.runBotGuesses(id, token)
	})
}

// runBotGuesses plays out the bot operative's clue cycle one reveal at a
// time, pausing between reveals so subscribers can watch the board change.
// The token latch keeps a second loop off this turn when the spymaster
// re-clues mid-run, without barring a later turn from scheduling its own
// loop while a stale task is still asleep. Guesses never advance the turn
// counter, so the token captured at scheduling time stays valid exactly as
// long as the turn does.
func (s *Service) runBotGuesses(sessionID uuid.UUID, token game.TurnToken) {
	for {
		h, sess, err := s.lookup(sessionID)
		if err != nil {
			return
		}
		h.mu.Lock()
		if sess.Status != game.StatusActive || sess.Token() != token || !sess.CurrentClue.Active() {
			if sess.Status == game.StatusActive && sess.Token() != token {
				s.logger.Debugf("match: stale bot guess for session %s, ignoring", sessionID)
			}
			h.releaseBotLoop(token)
			h.mu.Unlock()
			return
		}
		seat, ok := sess.BotSeatFor(sess.CurrentTurn, models.RoleOperative)
		if !ok {
			h.releaseBotLoop(token)
			h.mu.Unlock()
			return
		}

		view := game.NewOperativeBoard(sess.Board)
		diff := s.difficulty(sess)
		idx, gerr := s.policy.GenerateGuess(view, sess.CurrentClue, seat.Team, diff)
		if gerr != nil || idx < 0 || idx >= len(view) || view[idx].Revealed {
			if gerr != nil && !errors.Is(gerr, bot.ErrNoValidMove) {
				s.logger.Warnf("match: guess policy failed for session %s: %v", sessionID, gerr)
			}
			fb, open := bot.FallbackGuess(view)
			if !open {
				// Nothing left to reveal; close the session out.
				if events, ferr := sess.ForceEnd(seat.ActorID()); ferr == nil {
					s.commit(h, sess, seat.ActorID(), events)
				}
				h.releaseBotLoop(token)
				h.mu.Unlock()
				return
			}
			idx = fb
		}

		res, events, merr := sess.MakeGuess(seat.ActorID(), idx)
		if merr != nil {
			s.logger.Warnf("match: bot guess rejected for session %s: %v", sessionID, merr)
			h.releaseBotLoop(token)
			h.mu.Unlock()
			return
		}
		s.logger.WithFields(logrus.Fields{
			"session": sessionID,
			"team":    seat.Team,
			"cell":    res.CellIndex,
			"card":    res.Card.Type,
		}).Debug("bot guessed")
		s.commit(h, sess, seat.ActorID(), events)

		done := sess.Status != game.StatusActive || !res.Correct || !sess.CurrentClue.Active()
		if done {
			h.releaseBotLoop(token)
			h.mu.Unlock()
			return
		}
		pause := s.policy.ThinkingDelay(diff)
		h.mu.Unlock()
		time.Sleep(pause)
	}
}
