package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags queue traffic sent to subscribers.
type EventType string

const (
	EventJoined  EventType = "queue-joined"
	EventLeft    EventType = "queue-left"
	EventRemoved EventType = "queue-removed"
	EventStatus  EventType = "queue-status"
)

// Removal reasons.
const (
	ReasonMatched  = "matched"
	ReasonInactive = "inactive"
)

// Event is one queue occurrence. UserID is set for per-user events; Status
// is set on queue-status broadcasts.
type Event struct {
	Type   EventType   `json:"type"`
	UserID uuid.UUID   `json:"userId,omitempty"`
	Join   *JoinResult `json:"join,omitempty"`
	Reason string      `json:"reason,omitempty"`
	Status *Status     `json:"status,omitempty"`
}

// JoinResult tells a joining player where they stand.
type JoinResult struct {
	Position     int `json:"position"`
	TotalInQueue int `json:"totalInQueue"`
}

// EntryStatus is one waiting player as shown in a status broadcast.
type EntryStatus struct {
	UserID   uuid.UUID `json:"userId"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Status is the whole queue as shown in a status broadcast, ordered by
// position.
type Status struct {
	TotalInQueue int           `json:"totalInQueue"`
	Entries      []EntryStatus `json:"entries"`
}
