// Package notify fans engine and queue events out to in-process subscribers.
// A transport layer (websocket, SSE) subscribes here and forwards; nothing in
// this package knows about sockets.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Envelope is what a subscriber receives. SessionID is uuid.Nil for
// broadcast traffic such as queue updates.
type Envelope struct {
	SessionID uuid.UUID `json:"sessionId,omitempty"`
	Payload   any       `json:"payload"`
}

// Notifier delivers events. Publish scopes delivery to one session's
// subscribers; Broadcast reaches everyone. Implementations must not block
// the caller: publication happens inside session critical sections.
type Notifier interface {
	Publish(sessionID uuid.UUID, payload any)
	Broadcast(payload any)
}

// Nop drops everything.
type Nop struct{}

func (Nop) Publish(uuid.UUID, any) {}
func (Nop) Broadcast(any)          {}

type subscriber struct {
	id        int
	sessionID uuid.UUID // uuid.Nil subscribes to everything
	ch        chan Envelope
}

// Fanout is the in-process Notifier: buffered channels per subscriber,
// non-blocking delivery. A subscriber that falls behind loses events rather
// than stalling the engine.
type Fanout struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	logger *logrus.Logger
}

// NewFanout builds an empty fan-out.
func NewFanout(logger *logrus.Logger) *Fanout {
	if logger == nil {
		logger = logrus.New()
	}
	return &Fanout{subs: make(map[int]*subscriber), logger: logger}
}

// Subscribe registers a listener. A Nil sessionID receives all traffic;
// otherwise only that session's events plus broadcasts. The returned cancel
// func unregisters and closes the channel.
func (f *Fanout) Subscribe(sessionID uuid.UUID, buffer int) (<-chan Envelope, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &subscriber{id: f.nextID, sessionID: sessionID, ch: make(chan Envelope, buffer)}
	f.subs[sub.id] = sub
	id := sub.id
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish delivers to the session's subscribers and to catch-all listeners.
func (f *Fanout) Publish(sessionID uuid.UUID, payload any) {
	f.deliver(Envelope{SessionID: sessionID, Payload: payload}, func(s *subscriber) bool {
		return s.sessionID == sessionID || s.sessionID == uuid.Nil
	})
}

// Broadcast delivers to every subscriber.
func (f *Fanout) Broadcast(payload any) {
	f.deliver(Envelope{Payload: payload}, func(*subscriber) bool { return true })
}

func (f *Fanout) deliver(env Envelope, match func(*subscriber) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if !match(sub) {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			f.logger.Warnf("notify: subscriber %d full, dropping event", sub.id)
		}
	}
}
