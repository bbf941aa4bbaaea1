package game

import "fmt"

// Modifier bounds for moderator-applied adjustments.
const (
	ModifierMin = -3
	ModifierMax = 3
)

// modifierRegistry tracks moderator-applied roll adjustments for one
// match, keyed by participant id. Round entries are wiped when a round
// resolves; match entries live until the match ends. The registry is
// owned by its Match and shares its locking.
type modifierRegistry struct {
	round map[string]int
	match map[string]int
}

func newModifierRegistry() *modifierRegistry {
	return &modifierRegistry{
		round: make(map[string]int),
		match: make(map[string]int),
	}
}

// set records a modifier for the given scope. A zero value removes the
// entry; callers that care about "explicitly set to zero" read it from
// the event log.
func (mr *modifierRegistry) set(id string, scope ModifierScope, value int) error {
	if value < ModifierMin || value > ModifierMax {
		return fmt.Errorf("%w: %+d not in [%d, %+d]", ErrModifierRange, value, ModifierMin, ModifierMax)
	}
	m := mr.round
	if scope == ScopeMatch {
		m = mr.match
	}
	if value == 0 {
		delete(m, id)
	} else {
		m[id] = value
	}
	return nil
}

// active returns the round-scoped, match-scoped, and combined modifier
// for a participant. Absent entries contribute zero.
func (mr *modifierRegistry) active(id string) (round, match, total int) {
	round = mr.round[id]
	match = mr.match[id]
	return round, match, round + match
}

// clearRound wipes all round-scoped entries. Called when a round resolves.
func (mr *modifierRegistry) clearRound() {
	clear(mr.round)
}
