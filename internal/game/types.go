package game

// --- Enums ---

// MatchState is the lifecycle state of a match.
type MatchState int

const (
	StatePendingChallenge MatchState = iota
	StateActive
	StateCompleted
	StateCancelled
)

func (s MatchState) String() string {
	switch s {
	case StatePendingChallenge:
		return "Pending Challenge"
	case StateActive:
		return "Active"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions leave this state.
func (s MatchState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// RoundPhase is the sub-state of the current round while a match is Active.
type RoundPhase int

const (
	PhaseNone RoundPhase = iota
	PhaseDeclaring
	PhaseSwitching
	PhasePicking
)

func (p RoundPhase) String() string {
	switch p {
	case PhaseDeclaring:
		return "Declaring"
	case PhaseSwitching:
		return "Switching"
	case PhasePicking:
		return "Picking"
	default:
		return "None"
	}
}

// ModifierScope distinguishes round-scoped from match-scoped modifiers.
type ModifierScope int

const (
	ScopeRound ModifierScope = iota
	ScopeMatch
)

func (s ModifierScope) String() string {
	if s == ScopeRound {
		return "round"
	}
	return "match"
}

// ParseScope resolves a modifier scope by name.
func ParseScope(name string) (ModifierScope, bool) {
	switch name {
	case "round":
		return ScopeRound, true
	case "match":
		return ScopeMatch, true
	default:
		return 0, false
	}
}

// NoWinner marks a round with no winner (tie) in a RoundResult.
const NoWinner = -1

// --- Configuration ---

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	BestOf       int  // 3, 5, or 7
	NoRepeat     bool // forbid declaring last round's picked stance
	AdjacencyMod bool // ±1 for adjacent/opposite picks
	BaitSwitch   bool // one-time stance switch between declare and pick

	Seed   int64  // RNG seed (0 for time-based)
	Roller Roller // dice source override (nil = seeded rand roller)

	// Per-seat privileges, resolved from Settings by the caller.
	TripleStance [2]bool // may declare three stances instead of two
	TalentBonus  [2]bool // standing +1 match modifier, applied at accept
}

// WinThreshold returns the round wins needed to take the match.
func (c MatchConfig) WinThreshold() int {
	return (c.BestOf + 1) / 2
}

// --- Round results ---

// RoundResult is the immutable record of one resolved round.
// Indices are seat numbers: 0 is the challenger, 1 the challenged.
type RoundResult struct {
	Round        int
	Picks        [2]Stance
	Relationship [2]Relationship // each seat's advantage state vs the other
	Rolls        [2][]int        // raw dice, in roll order
	Kept         [2]int          // the die that counted
	Adjacency    Adjacency       // positioning of the two picks
	AdjacencyMod int             // ±1 applied to both seats, or 0
	Modifier     [2]int          // round + match custom modifier totals
	Raw          [2]int          // kept + adjacency + modifier, before clamping
	Final        [2]int          // after clamping to [1,6]
	Winner       int             // seat 0, seat 1, or NoWinner on a tie
	Scores       [2]int          // cumulative scores after this round
}

// Tie reports whether the round produced no winner.
func (r RoundResult) Tie() bool {
	return r.Winner == NoWinner
}

// --- Participants ---

// participant is one seat's per-match state. Owned exclusively by its Match.
type participant struct {
	id       string
	score    int
	declared []Stance
	picked   bool
	pick     Stance
	switched bool
	passed   bool // explicitly declined to switch this round
	hasLast  bool
	lastPick Stance // previous round's pick, for the no-repeat rule
}

// declaredContains reports whether s is in the current declared set.
func (p *participant) declaredContains(s Stance) bool {
	for _, d := range p.declared {
		if d == s {
			return true
		}
	}
	return false
}

// resetRound clears per-round state for the next declaration phase.
func (p *participant) resetRound() {
	p.declared = nil
	p.picked = false
	p.switched = false
	p.passed = false
}
