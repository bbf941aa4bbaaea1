package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 10 chars for alignment
	for len(phase) < 10 {
		phase += " "
	}
	return fmt.Sprintf("R%-2d %s| %s", e.Round, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewChallengeEvent(challenger, opponent string, bestOf int, options string) GameEvent {
	return GameEvent{
		Participant: challenger,
		Type:        EventChallenge,
		Details:     fmt.Sprintf("%s challenges %s to a duel (best of %d, %s)", challenger, opponent, bestOf, options),
	}
}

func NewAcceptEvent(participant string) GameEvent {
	return GameEvent{
		Round:       1,
		Phase:       "Declaring",
		Participant: participant,
		Type:        EventAccept,
		Details:     fmt.Sprintf("%s accepts the challenge - duel is live", participant),
	}
}

func NewDeclareLockedEvent(round int, participant string) GameEvent {
	return GameEvent{
		Round:       round,
		Phase:       "Declaring",
		Participant: participant,
		Type:        EventDeclareLocked,
		Details:     fmt.Sprintf("%s has locked in their stance declaration", participant),
	}
}

func NewRevealEvent(round int, p0 string, s0 []string, p1 string, s1 []string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "Declaring",
		Type:    EventReveal,
		Details: fmt.Sprintf("declarations revealed - %s: %s | %s: %s", p0, strings.Join(s0, ", "), p1, strings.Join(s1, ", ")),
	}
}

func NewSwitchEvent(round int, participant, old, new string) GameEvent {
	return GameEvent{
		Round:       round,
		Phase:       "Switching",
		Participant: participant,
		Type:        EventSwitch,
		Details:     fmt.Sprintf("%s switched %s -> %s", participant, old, new),
	}
}

func NewPassSwitchEvent(round int, participant string) GameEvent {
	return GameEvent{
		Round:       round,
		Phase:       "Switching",
		Participant: participant,
		Type:        EventPassSwitch,
		Details:     fmt.Sprintf("%s keeps their declared stances", participant),
	}
}

func NewPickLockedEvent(round int, participant string) GameEvent {
	return GameEvent{
		Round:       round,
		Phase:       "Picking",
		Participant: participant,
		Type:        EventPickLocked,
		Details:     fmt.Sprintf("%s has locked in their choice", participant),
	}
}

func NewRoundResolvedEvent(round int, winner string, details string) GameEvent {
	return GameEvent{
		Round:       round,
		Phase:       "Picking",
		Participant: winner,
		Type:        EventRoundResolved,
		Details:     details,
	}
}

func NewRoundTieEvent(round int, value int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "Picking",
		Type:    EventRoundTie,
		Details: fmt.Sprintf("round %d is a tie at %d - no score, both duelists re-pick", round, value),
	}
}

func NewModifierSetEvent(round int, participant string, scope string, value int, reason string) GameEvent {
	details := fmt.Sprintf("%s modifier for %s set to %+d", scope, participant, value)
	if value == 0 {
		details = fmt.Sprintf("%s modifier for %s removed", scope, participant)
	}
	if reason != "" {
		details += " (" + reason + ")"
	}
	return GameEvent{
		Round:       round,
		Participant: participant,
		Type:        EventModifierSet,
		Details:     details,
	}
}

func NewMatchWonEvent(round int, winner string, winnerScore, loserScore int) GameEvent {
	return GameEvent{
		Round:       round,
		Participant: winner,
		Type:        EventMatchWon,
		Details:     fmt.Sprintf("%s wins the match %d-%d", winner, winnerScore, loserScore),
	}
}

func NewMatchCancelledEvent(round int) GameEvent {
	return GameEvent{
		Round:   round,
		Type:    EventMatchCancelled,
		Details: "match cancelled",
	}
}
