// Package history journals committed session events for replay and audit.
package history

import (
	"context"

	"github.com/google/uuid"
)

// Record holds the minimal info the replay pipeline needs for one committed
// event. Seq is the per-session commit index, so a journal can be replayed
// in order.
type Record struct {
	SessionID uuid.UUID `json:"session_id"`
	Seq       int       `json:"seq"`
	ActorID   uuid.UUID `json:"actor_id"`
	EventType string    `json:"event_type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Recorder receives records. Implementations must be safe for concurrent use
// and should fail fast: the coordinator records off the hot path and only
// logs failures.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }
