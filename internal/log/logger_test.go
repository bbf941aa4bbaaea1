package log

import (
	"strings"
	"testing"
)

func TestMemoryLoggerSequencing(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewDeclareLockedEvent(1, "alice"))
	l.Log(NewPickLockedEvent(1, "alice"))
	l.Log(NewDeclareLockedEvent(2, "bob"))

	events := l.Events()
	if len(events) != 3 {
		t.Fatalf("event count = %d", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("event %d has seq %d", i, e.Seq)
		}
	}

	declares := l.EventsOfType(EventDeclareLocked)
	if len(declares) != 2 || declares[1].Participant != "bob" {
		t.Errorf("EventsOfType = %+v", declares)
	}
	if l.LastEvent().Type != EventDeclareLocked {
		t.Errorf("LastEvent = %+v", l.LastEvent())
	}
}

func TestTextLoggerWrites(t *testing.T) {
	var sb strings.Builder
	l := NewTextLogger(&sb)
	l.Log(NewRoundTieEvent(2, 4))

	out := sb.String()
	if !strings.HasPrefix(out, "R2 ") {
		t.Errorf("line = %q", out)
	}
	if !strings.Contains(out, "tie") {
		t.Errorf("line = %q", out)
	}
	// TextLogger still records for later inspection.
	if len(l.Events()) != 1 {
		t.Errorf("recorded %d events", len(l.Events()))
	}
}

func TestModifierEventWording(t *testing.T) {
	set := NewModifierSetEvent(1, "alice", "round", 2, "")
	if !strings.Contains(set.Details, "+2") {
		t.Errorf("set details = %q", set.Details)
	}
	removed := NewModifierSetEvent(1, "alice", "round", 0, "")
	if !strings.Contains(removed.Details, "removed") {
		t.Errorf("removal details = %q", removed.Details)
	}
	talent := NewModifierSetEvent(1, "bob", "match", 1, "talent bonus")
	if !strings.Contains(talent.Details, "talent bonus") {
		t.Errorf("reason missing: %q", talent.Details)
	}
}

func TestFormatAll(t *testing.T) {
	events := []GameEvent{
		NewChallengeEvent("alice", "bob", 3, "Standard"),
		NewAcceptEvent("bob"),
	}
	out := FormatAll(events)
	if strings.Count(out, "\n") != 2 {
		t.Errorf("FormatAll output = %q", out)
	}
}
