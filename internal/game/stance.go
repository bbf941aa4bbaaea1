package game

import (
	"fmt"
	"strings"
)

// Stance is one of the six fighting stances, laid out on a fixed cycle.
// The cycle order is load-bearing: relationships and adjacency both
// derive from the index distance between two stances.
type Stance int

const (
	Bagr Stance = iota
	Radae
	Darda
	Tigr
	Riposje
	Tortad
)

// StanceCount is the length of the stance cycle.
const StanceCount = 6

// AllStances lists every stance in cycle order.
var AllStances = [StanceCount]Stance{Bagr, Radae, Darda, Tigr, Riposje, Tortad}

var stanceNamesTable = [StanceCount]string{"Bagr", "Radae", "Darda", "Tigr", "Riposje", "Tortad"}

func (s Stance) String() string {
	if s < 0 || s >= StanceCount {
		return fmt.Sprintf("Stance(%d)", int(s))
	}
	return stanceNamesTable[s]
}

// ParseStance resolves a stance by name, case-insensitively.
func ParseStance(name string) (Stance, error) {
	for i, n := range stanceNamesTable {
		if strings.EqualFold(name, n) {
			return Stance(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stance %q", ErrInvalidPick, name)
}

// Relationship is one seat's advantage state against the other's pick.
type Relationship int

const (
	RelNeutral Relationship = iota
	RelAdvantage
	RelDisadvantage
)

func (r Relationship) String() string {
	switch r {
	case RelAdvantage:
		return "Advantage"
	case RelDisadvantage:
		return "Disadvantage"
	default:
		return "Neutral"
	}
}

// RelationshipOf computes a's advantage state against b. With
// d = (b - a) mod 6: one or two steps clockwise is Advantage, four or
// five is Disadvantage, and same or opposite stance is Neutral. It
// follows that RelationshipOf(a, b) == Advantage exactly when
// RelationshipOf(b, a) == Disadvantage.
func RelationshipOf(a, b Stance) Relationship {
	d := (int(b) - int(a) + StanceCount) % StanceCount
	switch d {
	case 1, 2:
		return RelAdvantage
	case 4, 5:
		return RelDisadvantage
	default:
		return RelNeutral
	}
}

// Adjacency classifies the positioning of two picks on the cycle,
// independent of advantage.
type Adjacency int

const (
	AdjacencyOther Adjacency = iota
	AdjacencyAdjacent
	AdjacencyOpposite
)

func (a Adjacency) String() string {
	switch a {
	case AdjacencyAdjacent:
		return "Adjacent"
	case AdjacencyOpposite:
		return "Opposite"
	default:
		return "Other"
	}
}

// AdjacencyOf computes the cyclic distance class of two stances:
// neighbors on the cycle are Adjacent, stances three apart are
// Opposite, everything else (including the same stance) is Other.
func AdjacencyOf(a, b Stance) Adjacency {
	d := (int(b) - int(a) + StanceCount) % StanceCount
	if d > StanceCount/2 {
		d = StanceCount - d
	}
	switch d {
	case 1:
		return AdjacencyAdjacent
	case 3:
		return AdjacencyOpposite
	default:
		return AdjacencyOther
	}
}
