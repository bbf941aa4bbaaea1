package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventChallenge EventType = iota
	EventAccept
	EventDeclareLocked
	EventReveal
	EventSwitch
	EventPassSwitch
	EventPickLocked
	EventRoundResolved
	EventRoundTie
	EventModifierSet
	EventMatchWon
	EventMatchCancelled
)

func (e EventType) String() string {
	switch e {
	case EventChallenge:
		return "Challenge"
	case EventAccept:
		return "Accept"
	case EventDeclareLocked:
		return "DeclareLocked"
	case EventReveal:
		return "Reveal"
	case EventSwitch:
		return "Switch"
	case EventPassSwitch:
		return "PassSwitch"
	case EventPickLocked:
		return "PickLocked"
	case EventRoundResolved:
		return "RoundResolved"
	case EventRoundTie:
		return "RoundTie"
	case EventModifierSet:
		return "ModifierSet"
	case EventMatchWon:
		return "MatchWon"
	case EventMatchCancelled:
		return "MatchCancelled"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match. Events
// carry only information that is public at the moment they are emitted:
// declare/pick events name the participant but never the stance.
type GameEvent struct {
	Seq         int       // monotonic sequence number
	Round       int       // which round (1-based; 0 before accept)
	Phase       string    // round phase name (e.g. "Picking")
	Participant string    // acting participant id (empty for match-level events)
	Type        EventType // event type
	Details     string    // human-readable detail string
}
