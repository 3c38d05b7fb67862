package game

import "errors"

// Sentinel errors for the engine. Callers classify failures with errors.Is;
// the engine wraps these with request context via fmt.Errorf and %w.
var (
	// ErrValidation covers malformed input: bad clue words or numbers,
	// out-of-range or already-revealed cells, inconsistent configs.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden covers well-formed requests from the wrong actor: not a
	// participant, wrong role, or not this team's turn.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers references to unknown sessions.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotActive covers mutations against finished sessions.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrInvalidRoster covers team compositions that cannot play.
	ErrInvalidRoster = errors.New("invalid roster")

	// ErrInsufficientWordPool is returned when a board cannot be dealt.
	ErrInsufficientWordPool = errors.New("insufficient word pool")
)
