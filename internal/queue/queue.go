// Package queue implements the matchmaking waiting list: FIFO by join time,
// capacity-bounded, with heartbeat-based liveness and atomic pairing.
package queue

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vinibarbieri/codenames/internal/notify"
)

// ErrQueueFull is returned when a join would exceed capacity.
var ErrQueueFull = errors.New("queue is full")

// entry is one waiting player. seq breaks join-time ties so ordering is
// total even when two joins land on the same clock reading.
type entry struct {
	userID        uuid.UUID
	joinedAt      time.Time
	lastHeartbeat time.Time
	seq           uint64
}

// Queue is the waiting list. One mutex owns all entry state; every public
// method is a single critical section, so position reads, pairing and
// eviction can never interleave halfway.
type Queue struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*entry
	capacity int
	nextSeq  uint64
	notifier notify.Notifier
	logger   *logrus.Logger
}

// New builds an empty queue. Capacity must be positive.
func New(capacity int, notifier notify.Notifier, logger *logrus.Logger) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Queue{
		entries:  make(map[uuid.UUID]*entry),
		capacity: capacity,
		notifier: notifier,
		logger:   logger,
	}
}

// Join adds a player to the back of the queue and reports their position.
// Re-joining while already queued is idempotent: the current position comes
// back and nothing else changes.
func (q *Queue) Join(userID uuid.UUID) (JoinResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.entries[userID]; ok {
		return JoinResult{Position: q.positionLocked(e), TotalInQueue: len(q.entries)}, nil
	}
	if len(q.entries) >= q.capacity {
		return JoinResult{}, ErrQueueFull
	}

	now := time.Now()
	q.nextSeq++
	e := &entry{userID: userID, joinedAt: now, lastHeartbeat: now, seq: q.nextSeq}
	q.entries[userID] = e

	res := JoinResult{Position: q.positionLocked(e), TotalInQueue: len(q.entries)}
	q.logger.WithFields(logrus.Fields{
		"user":     userID,
		"position": res.Position,
		"total":    res.TotalInQueue,
	}).Info("queue: player joined")
	q.notifier.Broadcast(Event{Type: EventJoined, UserID: userID, Join: &res})
	q.broadcastStatusLocked()
	return res, nil
}

// Leave removes a player. Returns false if they were not queued.
func (q *Queue) Leave(userID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.entries[userID]; !ok {
		return false
	}
	delete(q.entries, userID)
	q.logger.WithField("user", userID).Info("queue: player left")
	q.notifier.Broadcast(Event{Type: EventLeft, UserID: userID})
	q.broadcastStatusLocked()
	return true
}

// Heartbeat marks a queued player as alive. Unknown players are a no-op.
func (q *Queue) Heartbeat(userID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[userID]
	if !ok {
		q.logger.Warnf("queue: heartbeat from unqueued player %s", userID)
		return false
	}
	e.lastHeartbeat = time.Now()
	return true
}

// FindMatch removes and returns the two longest-waiting players in one
// critical section. ok is false when fewer than two players wait; the queue
// is untouched in that case.
func (q *Queue) FindMatch() (a, b uuid.UUID, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return uuid.Nil, uuid.Nil, false
	}
	ordered := q.orderedLocked()
	first, second := ordered[0], ordered[1]
	delete(q.entries, first.userID)
	delete(q.entries, second.userID)

	q.logger.WithFields(logrus.Fields{
		"first":  first.userID,
		"second": second.userID,
	}).Info("queue: paired players")
	q.notifier.Broadcast(Event{Type: EventRemoved, UserID: first.userID, Reason: ReasonMatched})
	q.notifier.Broadcast(Event{Type: EventRemoved, UserID: second.userID, Reason: ReasonMatched})
	q.broadcastStatusLocked()
	return first.userID, second.userID, true
}

// EvictInactive removes every player whose last heartbeat is older than
// timeout and returns their ids, oldest first.
func (q *Queue) EvictInactive(timeout time.Duration) []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := time.Now().Add(-timeout)
	var removed []uuid.UUID
	for _, e := range q.orderedLocked() {
		if e.lastHeartbeat.Before(cutoff) {
			delete(q.entries, e.userID)
			removed = append(removed, e.userID)
			q.notifier.Broadcast(Event{Type: EventRemoved, UserID: e.userID, Reason: ReasonInactive})
		}
	}
	if len(removed) > 0 {
		q.logger.Infof("queue: evicted %d inactive players", len(removed))
		q.broadcastStatusLocked()
	}
	return removed
}

// Len returns how many players are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns the queue ordered by position.
func (q *Queue) Snapshot() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.statusLocked()
}

// positionLocked counts entries ordered strictly before e. The front of the
// queue is position 0.
func (q *Queue) positionLocked(e *entry) int {
	pos := 0
	for _, other := range q.entries {
		if other.before(e) {
			pos++
		}
	}
	return pos
}

func (e *entry) before(other *entry) bool {
	if e.joinedAt.Equal(other.joinedAt) {
		return e.seq < other.seq
	}
	return e.joinedAt.Before(other.joinedAt)
}

func (q *Queue) orderedLocked() []*entry {
	out := make([]*entry, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].before(out[j]) })
	return out
}

func (q *Queue) statusLocked() Status {
	ordered := q.orderedLocked()
	st := Status{TotalInQueue: len(ordered), Entries: make([]EntryStatus, len(ordered))}
	for i, e := range ordered {
		st.Entries[i] = EntryStatus{UserID: e.userID, Position: i, JoinedAt: e.joinedAt}
	}
	return st
}

func (q *Queue) broadcastStatusLocked() {
	st := q.statusLocked()
	q.notifier.Broadcast(Event{Type: EventStatus, Status: &st})
}
