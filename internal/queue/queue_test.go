// internal/queue/queue_test.go
package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureNotifier records broadcast queue events in order.
type captureNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureNotifier) Publish(_ uuid.UUID, payload any) { c.Broadcast(payload) }

func (c *captureNotifier) Broadcast(payload any) {
	ev, ok := payload.(Event)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureNotifier) ofType(et EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, ev := range c.events {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func newTestQueue(capacity int) (*Queue, *captureNotifier) {
	notifier := &captureNotifier{}
	return New(capacity, notifier, quietLogger()), notifier
}

func TestJoinAssignsPositionsInOrder(t *testing.T) {
	q, _ := newTestQueue(10)

	for i := 0; i < 3; i++ {
		res, err := q.Join(uuid.New())
		require.NoError(t, err)
		assert.Equal(t, i, res.Position)
		assert.Equal(t, i+1, res.TotalInQueue)
	}
	assert.Equal(t, 3, q.Len())
}

func TestJoinIsIdempotent(t *testing.T) {
	q, notifier := newTestQueue(10)
	u1, u2 := uuid.New(), uuid.New()

	_, err := q.Join(u1)
	require.NoError(t, err)
	_, err = q.Join(u2)
	require.NoError(t, err)

	res, err := q.Join(u1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Position, "re-joining keeps the original place in line")
	assert.Equal(t, 2, res.TotalInQueue)
	assert.Equal(t, 2, q.Len())
	assert.Len(t, notifier.ofType(EventJoined), 2, "a re-join announces nothing")
}

func TestJoinRespectsCapacity(t *testing.T) {
	q, _ := newTestQueue(2)
	u1 := uuid.New()

	_, err := q.Join(u1)
	require.NoError(t, err)
	_, err = q.Join(uuid.New())
	require.NoError(t, err)

	_, err = q.Join(uuid.New())
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, q.Len())

	require.True(t, q.Leave(u1))
	_, err = q.Join(uuid.New())
	assert.NoError(t, err, "a freed slot is usable again")
}

func TestLeaveCompactsPositions(t *testing.T) {
	q, _ := newTestQueue(10)
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	for _, u := range []uuid.UUID{u1, u2, u3} {
		_, err := q.Join(u)
		require.NoError(t, err)
	}

	require.True(t, q.Leave(u2))
	assert.False(t, q.Leave(u2), "double leave")
	assert.False(t, q.Leave(uuid.New()), "unknown player")

	st := q.Snapshot()
	require.Len(t, st.Entries, 2)
	assert.Equal(t, u1, st.Entries[0].UserID)
	assert.Equal(t, 0, st.Entries[0].Position)
	assert.Equal(t, u3, st.Entries[1].UserID)
	assert.Equal(t, 1, st.Entries[1].Position, "everyone behind a leaver moves up")
}

func TestHeartbeat(t *testing.T) {
	q, _ := newTestQueue(10)
	u := uuid.New()
	_, err := q.Join(u)
	require.NoError(t, err)

	assert.True(t, q.Heartbeat(u))
	assert.False(t, q.Heartbeat(uuid.New()), "unqueued heartbeats are a no-op")
	assert.Equal(t, 1, q.Len())
}

func TestHeartbeatUnknownPlayerWarns(t *testing.T) {
	logger, hook := test.NewNullLogger()
	q := New(4, nil, logger)

	assert.False(t, q.Heartbeat(uuid.New()))

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "heartbeat from unqueued player")
}

func TestFindMatchTakesTheTwoOldest(t *testing.T) {
	q, notifier := newTestQueue(10)
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	for _, u := range []uuid.UUID{u1, u2, u3} {
		_, err := q.Join(u)
		require.NoError(t, err)
	}

	a, b, ok := q.FindMatch()
	require.True(t, ok)
	assert.Equal(t, u1, a)
	assert.Equal(t, u2, b)
	assert.Equal(t, 1, q.Len())

	st := q.Snapshot()
	require.Len(t, st.Entries, 1)
	assert.Equal(t, u3, st.Entries[0].UserID)
	assert.Equal(t, 0, st.Entries[0].Position)

	removed := notifier.ofType(EventRemoved)
	require.Len(t, removed, 2)
	assert.Equal(t, ReasonMatched, removed[0].Reason)
	assert.Equal(t, ReasonMatched, removed[1].Reason)

	_, _, ok = q.FindMatch()
	assert.False(t, ok, "one waiting player cannot be paired")
	assert.Equal(t, 1, q.Len(), "a failed pairing touches nothing")
}

func TestFindMatchEmptyQueue(t *testing.T) {
	q, _ := newTestQueue(10)
	_, _, ok := q.FindMatch()
	assert.False(t, ok)
}

func TestEvictInactive(t *testing.T) {
	q, notifier := newTestQueue(10)
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	for _, u := range []uuid.UUID{u1, u2, u3} {
		_, err := q.Join(u)
		require.NoError(t, err)
	}

	// Backdate two heartbeats past the timeout.
	q.mu.Lock()
	q.entries[u1].lastHeartbeat = time.Now().Add(-61 * time.Second)
	q.entries[u2].lastHeartbeat = time.Now().Add(-61 * time.Second)
	q.mu.Unlock()

	removed := q.EvictInactive(60 * time.Second)
	assert.Equal(t, []uuid.UUID{u1, u2}, removed, "evicted oldest first")
	assert.Equal(t, 1, q.Len())

	events := notifier.ofType(EventRemoved)
	require.Len(t, events, 2)
	assert.Equal(t, ReasonInactive, events[0].Reason)
}

func TestHeartbeatPreventsEviction(t *testing.T) {
	q, _ := newTestQueue(10)
	u1, u2 := uuid.New(), uuid.New()
	_, err := q.Join(u1)
	require.NoError(t, err)
	_, err = q.Join(u2)
	require.NoError(t, err)

	q.mu.Lock()
	q.entries[u1].lastHeartbeat = time.Now().Add(-61 * time.Second)
	q.entries[u2].lastHeartbeat = time.Now().Add(-61 * time.Second)
	q.mu.Unlock()

	require.True(t, q.Heartbeat(u2))

	removed := q.EvictInactive(60 * time.Second)
	assert.Equal(t, []uuid.UUID{u1}, removed)
	assert.Equal(t, 1, q.Len())
}

func TestEvictInactiveAllFresh(t *testing.T) {
	q, notifier := newTestQueue(10)
	_, err := q.Join(uuid.New())
	require.NoError(t, err)

	before := len(notifier.ofType(EventStatus))
	assert.Empty(t, q.EvictInactive(60*time.Second))
	assert.Equal(t, before, len(notifier.ofType(EventStatus)), "nothing evicted, nothing announced")
}

func TestStatusBroadcastTracksTheQueue(t *testing.T) {
	q, notifier := newTestQueue(10)
	u1, u2 := uuid.New(), uuid.New()
	_, err := q.Join(u1)
	require.NoError(t, err)
	_, err = q.Join(u2)
	require.NoError(t, err)

	statuses := notifier.ofType(EventStatus)
	require.NotEmpty(t, statuses)
	last := statuses[len(statuses)-1].Status
	require.NotNil(t, last)
	assert.Equal(t, 2, last.TotalInQueue)
	require.Len(t, last.Entries, 2)
	assert.Equal(t, u1, last.Entries[0].UserID)
	assert.Equal(t, u2, last.Entries[1].UserID)
}

// TestConcurrentFindMatch pairs an even queue from several goroutines and
// checks no player is handed out twice.
func TestConcurrentFindMatch(t *testing.T) {
	q, _ := newTestQueue(16)
	joined := make(map[uuid.UUID]bool)
	for i := 0; i < 8; i++ {
		u := uuid.New()
		joined[u] = true
		_, err := q.Join(u)
		require.NoError(t, err)
	}

	results := make(chan [2]uuid.UUID, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b, ok := q.FindMatch()
			if ok {
				results <- [2]uuid.UUID{a, b}
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[uuid.UUID]bool)
	pairs := 0
	for pair := range results {
		pairs++
		for _, u := range pair {
			assert.True(t, joined[u], "paired an unknown player")
			assert.False(t, seen[u], "player %s paired twice", u)
			seen[u] = true
		}
	}
	assert.Equal(t, 4, pairs, "eight players make four pairs")
	assert.Zero(t, q.Len())
}
