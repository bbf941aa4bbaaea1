package game

import (
	"testing"

	"github.com/peterkuimelis/duelx/internal/log"
)

// scriptRoller feeds a predetermined sequence of die values to the
// resolver. Seat 0 always rolls first, so scripts line up exactly.
// The sequence cycles if a test rolls past the end.
type scriptRoller struct {
	rolls []int
	pos   int
}

func rollerOf(rolls ...int) *scriptRoller {
	return &scriptRoller{rolls: rolls}
}

func (s *scriptRoller) Roll() int {
	v := s.rolls[s.pos%len(s.rolls)]
	s.pos++
	return v
}

// newTestMatch creates a match between alice (challenger, seat 0) and
// bob (seat 1) with scripted dice and a memory logger.
func newTestMatch(t *testing.T, cfg MatchConfig, rolls ...int) (*Match, *log.MemoryLogger) {
	t.Helper()
	if len(rolls) > 0 {
		cfg.Roller = rollerOf(rolls...)
	}
	logger := log.NewMemoryLogger()
	m, err := NewMatch("channel-1", "alice", "bob", cfg, logger)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m, logger
}

func mustAccept(t *testing.T, m *Match) {
	t.Helper()
	if err := m.Accept("bob"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
}

func mustDeclare(t *testing.T, m *Match, id string, stances ...Stance) {
	t.Helper()
	if err := m.Declare(id, stances...); err != nil {
		t.Fatalf("Declare(%s, %v): %v", id, stances, err)
	}
}

func mustPick(t *testing.T, m *Match, id string, s Stance) bool {
	t.Helper()
	resolved, err := m.Pick(id, s)
	if err != nil {
		t.Fatalf("Pick(%s, %s): %v", id, s, err)
	}
	return resolved
}

// playRound drives one full round: both declare, both pick.
func playRound(t *testing.T, m *Match, a0, b0 [2]Stance, pickA, pickB Stance) {
	t.Helper()
	mustDeclare(t, m, "alice", a0[0], a0[1])
	mustDeclare(t, m, "bob", b0[0], b0[1])
	mustPick(t, m, "alice", pickA)
	if !mustPick(t, m, "bob", pickB) {
		t.Fatalf("second pick did not resolve the round")
	}
}
