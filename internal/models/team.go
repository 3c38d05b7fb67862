package models

// Team is one of the two competing sides.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// CardType returns the card type owned by this team.
func (t Team) CardType() CardType {
	if t == TeamRed {
		return CardRed
	}
	return CardBlue
}

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Role is what a seated player is allowed to do on their turn.
type Role string

const (
	RoleSpymaster Role = "spymaster"
	RoleOperative Role = "operative"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSpymaster || r == RoleOperative
}

// Winner is the outcome of a finished session.
type Winner string

const (
	WinnerNone Winner = "none"
	WinnerRed  Winner = "red"
	WinnerBlue Winner = "blue"
)

// WinnerFor converts a team into its winner value.
func WinnerFor(t Team) Winner {
	if t == TeamRed {
		return WinnerRed
	}
	return WinnerBlue
}

// TeamFor converts a team-owned card type back into its team. The second
// return is false for neutral and assassin cards.
func TeamFor(ct CardType) (Team, bool) {
	switch ct {
	case CardRed:
		return TeamRed, true
	case CardBlue:
		return TeamBlue, true
	default:
		return "", false
	}
}
