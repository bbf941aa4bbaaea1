package game

import (
	"math/rand"
	"time"
)

// DieSides is the size of the duel die.
const DieSides = 6

// Roller produces uniformly random die values in [1,6]. The match holds
// exactly one roller; tests inject a scripted one.
type Roller interface {
	Roll() int
}

type randRoller struct {
	r *rand.Rand
}

// NewRoller returns a Roller backed by math/rand. A zero seed draws one
// from the clock.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randRoller{r: rand.New(rand.NewSource(seed))}
}

func (rr *randRoller) Roll() int {
	return 1 + rr.r.Intn(DieSides)
}

// rollProfile rolls for one seat according to its advantage state:
// Neutral is a single die, Advantage rolls two and keeps the higher,
// Disadvantage rolls two and keeps the lower.
func rollProfile(r Roller, rel Relationship) (kept int, rolls []int) {
	switch rel {
	case RelAdvantage:
		a, b := r.Roll(), r.Roll()
		rolls = []int{a, b}
		kept = max(a, b)
	case RelDisadvantage:
		a, b := r.Roll(), r.Roll()
		rolls = []int{a, b}
		kept = min(a, b)
	default:
		kept = r.Roll()
		rolls = []int{kept}
	}
	return kept, rolls
}

// clampDie forces a modified value back into the die's natural range.
func clampDie(v int) int {
	if v < 1 {
		return 1
	}
	if v > DieSides {
		return DieSides
	}
	return v
}
