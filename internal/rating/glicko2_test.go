package rating

import (
	"testing"

	"github.com/google/uuid"
)

func TestUpdateHeadToHead(t *testing.T) {
	winner := Seed()
	loser := Seed()

	newW, newL := UpdateHeadToHead(winner, loser)
	if newW.Elo <= winner.Elo {
		t.Errorf("winner's rating should have gone up, got %d", newW.Elo)
	}
	if newL.Elo >= loser.Elo {
		t.Errorf("loser's rating should have gone down, got %d", newL.Elo)
	}
	if newW.Phi >= winner.Phi {
		t.Errorf("winner's deviation should shrink after a match, got %f", newW.Phi)
	}
}

func TestUpdateHeadToHeadUpset(t *testing.T) {
	underdog := Rating{Elo: 1200, Phi: DefaultPhi, Sigma: DefaultSigma}
	favorite := Rating{Elo: 1800, Phi: DefaultPhi, Sigma: DefaultSigma}

	newW, _ := UpdateHeadToHead(underdog, favorite)
	expected, _ := UpdateHeadToHead(favorite, underdog)
	upsetGain := newW.Elo - underdog.Elo
	expectedGain := expected.Elo - favorite.Elo
	if upsetGain <= expectedGain {
		t.Errorf("an upset should move ratings more than an expected win: upset +%d, expected +%d", upsetGain, expectedGain)
	}
}

func TestBookSeedsAndApplies(t *testing.T) {
	book := NewBook()
	a, b := uuid.New(), uuid.New()

	if got := book.Get(a).Elo; got != Seed().Elo {
		t.Fatalf("fresh player should start at %d, got %d", Seed().Elo, got)
	}

	newW, newL, dw, dl := book.ApplyResult(a, b)
	if dw <= 0 || dl >= 0 {
		t.Errorf("deltas should move in opposite directions, got +%d / %d", dw, dl)
	}
	if book.Get(a) != newW || book.Get(b) != newL {
		t.Errorf("book should remember applied results")
	}
}
