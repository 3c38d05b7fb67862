package rating

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// Rating is one player's Glicko-2 state on the familiar 1500 scale. Elo is
// what gets shown; Phi and Sigma carry the uncertainty into the next match.
type Rating struct {
	Elo   int
	Phi   float64
	Sigma float64
}

// Seed is the rating every player starts from.
func Seed() Rating {
	return Rating{Elo: int(DefaultMu), Phi: DefaultPhi, Sigma: DefaultSigma}
}

// UpdateHeadToHead applies one decisive result between two players and
// returns their new ratings.
func UpdateHeadToHead(winner, loser Rating) (Rating, Rating) {
	w := NewGlicko2Rating(float64(winner.Elo), winner.Phi, winner.Sigma)
	l := NewGlicko2Rating(float64(loser.Elo), loser.Phi, loser.Sigma)
	nw := updateGlicko(w, l, 1.0)
	nl := updateGlicko(l, w, 0.0)
	return fromGlicko(nw), fromGlicko(nl)
}

func fromGlicko(r Glicko2Rating) Rating {
	return Rating{
		Elo:   int(math.Round(r.ToElo())),
		Phi:   r.Phi * GlickoScale,
		Sigma: r.Sigma,
	}
}

// Book keeps in-memory ratings keyed by player id, seeding unknown players
// on first sight. Safe for concurrent use.
type Book struct {
	mu      sync.Mutex
	ratings map[uuid.UUID]Rating
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{ratings: make(map[uuid.UUID]Rating)}
}

// Get returns the player's current rating.
func (b *Book) Get(id uuid.UUID) Rating {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.get(id)
}

func (b *Book) get(id uuid.UUID) Rating {
	r, ok := b.ratings[id]
	if !ok {
		r = Seed()
		b.ratings[id] = r
	}
	return r
}

// ApplyResult records a decisive match and returns each player's new rating
// and its movement.
func (b *Book) ApplyResult(winnerID, loserID uuid.UUID) (winner, loser Rating, winnerDelta, loserDelta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := b.get(winnerID)
	l := b.get(loserID)
	nw, nl := UpdateHeadToHead(w, l)
	b.ratings[winnerID] = nw
	b.ratings[loserID] = nl
	return nw, nl, nw.Elo - w.Elo, nl.Elo - l.Elo
}
