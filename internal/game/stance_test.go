package game

import "testing"

// TestRelationshipAntisymmetry: over every ordered pair, advantage from
// one side must mean disadvantage from the other, and neutral must be
// mutual.
func TestRelationshipAntisymmetry(t *testing.T) {
	for _, a := range AllStances {
		for _, b := range AllStances {
			ab := RelationshipOf(a, b)
			ba := RelationshipOf(b, a)
			switch ab {
			case RelAdvantage:
				if ba != RelDisadvantage {
					t.Errorf("%s adv %s but %s vs %s = %s", a, b, b, a, ba)
				}
			case RelDisadvantage:
				if ba != RelAdvantage {
					t.Errorf("%s disadv %s but %s vs %s = %s", a, b, b, a, ba)
				}
			case RelNeutral:
				if ba != RelNeutral {
					t.Errorf("%s neutral %s but %s vs %s = %s", a, b, b, a, ba)
				}
			}
		}
	}
}

// TestRelationshipDistribution: each stance has advantage over exactly
// two stances, disadvantage against exactly two, and is neutral against
// its opposite and itself.
func TestRelationshipDistribution(t *testing.T) {
	for _, a := range AllStances {
		var adv, dis, neutral int
		for _, b := range AllStances {
			switch RelationshipOf(a, b) {
			case RelAdvantage:
				adv++
			case RelDisadvantage:
				dis++
			case RelNeutral:
				neutral++
			}
		}
		if adv != 2 || dis != 2 || neutral != 2 {
			t.Errorf("%s: adv=%d dis=%d neutral=%d, want 2/2/2", a, adv, dis, neutral)
		}
	}
}

func TestRelationshipExamples(t *testing.T) {
	cases := []struct {
		a, b Stance
		want Relationship
	}{
		{Bagr, Radae, RelAdvantage}, // one step clockwise
		{Bagr, Darda, RelAdvantage}, // two steps
		{Bagr, Tigr, RelNeutral},    // opposite
		{Bagr, Riposje, RelDisadvantage},
		{Bagr, Tortad, RelDisadvantage},
		{Bagr, Bagr, RelNeutral}, // same stance
		{Radae, Bagr, RelDisadvantage},
		{Tortad, Bagr, RelAdvantage}, // wraps around the cycle
	}
	for _, c := range cases {
		if got := RelationshipOf(c.a, c.b); got != c.want {
			t.Errorf("RelationshipOf(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

// TestAdjacency: neighbors are Adjacent, three apart is Opposite,
// everything else (including a mirror pick) is Other, and the relation
// is symmetric.
func TestAdjacency(t *testing.T) {
	cases := []struct {
		a, b Stance
		want Adjacency
	}{
		{Bagr, Radae, AdjacencyAdjacent},
		{Bagr, Tortad, AdjacencyAdjacent}, // wraps
		{Bagr, Tigr, AdjacencyOpposite},
		{Bagr, Darda, AdjacencyOther},
		{Bagr, Riposje, AdjacencyOther},
		{Bagr, Bagr, AdjacencyOther},
	}
	for _, c := range cases {
		if got := AdjacencyOf(c.a, c.b); got != c.want {
			t.Errorf("AdjacencyOf(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
		if got := AdjacencyOf(c.b, c.a); got != c.want {
			t.Errorf("AdjacencyOf(%s, %s) = %s, want %s", c.b, c.a, got, c.want)
		}
	}
}

func TestParseStance(t *testing.T) {
	for _, s := range AllStances {
		got, err := ParseStance(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStance(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseStance("tortad"); err != nil || got != Tortad {
		t.Errorf("ParseStance is not case-insensitive: %v, %v", got, err)
	}
	if _, err := ParseStance("Lunge"); err == nil {
		t.Error("ParseStance accepted an unknown stance")
	}
}
