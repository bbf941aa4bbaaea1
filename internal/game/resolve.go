package game

// resolveRound runs the dice-combat algorithm for one round. It is a
// pure function of the two picks, the adjacency flag, the registered
// modifier totals, and the roller; the caller owns scorekeeping and
// history. Seat 0 always rolls first so scripted rollers stay
// deterministic.
func resolveRound(roller Roller, adjacency bool, round int, picks [2]Stance, mods [2]int) RoundResult {
	res := RoundResult{
		Round:    round,
		Picks:    picks,
		Modifier: mods,
		Winner:   NoWinner,
	}

	res.Relationship[0] = RelationshipOf(picks[0], picks[1])
	res.Relationship[1] = RelationshipOf(picks[1], picks[0])

	for seat := 0; seat < 2; seat++ {
		res.Kept[seat], res.Rolls[seat] = rollProfile(roller, res.Relationship[seat])
	}

	// Adjacency reflects stance positioning, not advantage, so the
	// delta applies to both seats symmetrically.
	res.Adjacency = AdjacencyOf(picks[0], picks[1])
	if adjacency {
		switch res.Adjacency {
		case AdjacencyAdjacent:
			res.AdjacencyMod = 1
		case AdjacencyOpposite:
			res.AdjacencyMod = -1
		}
	}

	for seat := 0; seat < 2; seat++ {
		res.Raw[seat] = res.Kept[seat] + res.AdjacencyMod + mods[seat]
		res.Final[seat] = clampDie(res.Raw[seat])
	}

	if res.Final[0] > res.Final[1] {
		res.Winner = 0
	} else if res.Final[1] > res.Final[0] {
		res.Winner = 1
	}
	return res
}
