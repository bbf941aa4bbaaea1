package net

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"
)

type fixedRoller struct {
	rolls []int
	pos   int
}

func (f *fixedRoller) Roll() int {
	v := f.rolls[f.pos%len(f.rolls)]
	f.pos++
	return v
}

// testWire is one side of an in-process peer connection. A background
// goroutine drains server replies into a channel so the unbuffered
// pipe never deadlocks between a send and a pending reply.
type testWire struct {
	enc     *json.Encoder
	replies chan ServerMessage
}

// wirePeer stands up one peer over an in-process pipe, with the other
// seat driven directly against the match.
func wirePeer(t *testing.T, cfg game.MatchConfig) (*game.Match, *testWire) {
	t.Helper()
	m, err := game.NewMatch("chan", "alice", "bob", cfg, log.NewMemoryLogger())
	if err != nil {
		t.Fatal(err)
	}

	clientConn, serverConn := net.Pipe()
	peer := NewPeer(serverConn, "bob")
	ctx, cancel := context.WithCancel(context.Background())
	go peer.Serve(ctx, m, game.DefaultSettings())

	w := &testWire{
		enc:     json.NewEncoder(clientConn),
		replies: make(chan ServerMessage, 16),
	}
	go func() {
		dec := json.NewDecoder(clientConn)
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				close(w.replies)
				return
			}
			w.replies <- msg
		}
	}()

	t.Cleanup(func() {
		cancel()
		clientConn.Close()
		serverConn.Close()
	})
	return m, w
}

// roundTrip sends a command followed by a status request; the status
// reply proves the command was processed, since the serve loop is
// sequential. Any error reply that arrived in between is returned.
func (w *testWire) roundTrip(t *testing.T, msg ClientMessage) (string, game.StatusView) {
	t.Helper()
	if err := w.enc.Encode(msg); err != nil {
		t.Fatalf("send %s: %v", msg.Type, err)
	}
	if err := w.enc.Encode(ClientMessage{Type: "status"}); err != nil {
		t.Fatalf("send status: %v", err)
	}
	var errText string
	for reply := range w.replies {
		switch reply.Type {
		case "error":
			errText = reply.Error
		case "status":
			return errText, *reply.Status
		}
	}
	t.Fatal("connection closed before status reply")
	return "", game.StatusView{}
}

// TestPeerDrivesMatch: a full round played with one seat on the wire
// and the other driven in-process.
func TestPeerDrivesMatch(t *testing.T) {
	cfg := game.MatchConfig{BestOf: 3, Roller: &fixedRoller{rolls: []int{5, 2, 3, 4}}}
	m, w := wirePeer(t, cfg)

	errText, sv := w.roundTrip(t, ClientMessage{Type: "accept"})
	if errText != "" {
		t.Fatalf("accept: %s", errText)
	}
	if sv.State != game.StateActive.String() {
		t.Fatalf("state = %s after accept", sv.State)
	}

	if err := m.Declare("alice", game.Bagr, game.Tigr); err != nil {
		t.Fatal(err)
	}
	errText, sv = w.roundTrip(t, ClientMessage{Type: "declare", Stances: []string{"radae", "tortad"}})
	if errText != "" {
		t.Fatalf("declare: %s", errText)
	}
	if sv.Phase != game.PhasePicking.String() {
		t.Fatalf("phase = %s after both declared", sv.Phase)
	}

	if _, err := m.Pick("alice", game.Bagr); err != nil {
		t.Fatal(err)
	}
	errText, sv = w.roundTrip(t, ClientMessage{Type: "pick", Stance: "Radae"})
	if errText != "" {
		t.Fatalf("pick: %s", errText)
	}
	if len(sv.History) != 1 || sv.History[0].Winner != 0 {
		t.Fatalf("history after round 1: %+v", sv.History)
	}
}

// TestPeerRejections: bad commands come back as error replies without
// killing the serve loop, and modifiers are gated on moderator status.
func TestPeerRejections(t *testing.T) {
	_, w := wirePeer(t, game.MatchConfig{BestOf: 3})

	errText, _ := w.roundTrip(t, ClientMessage{Type: "pick", Stance: "Sidestep"})
	if !strings.Contains(errText, "unknown stance") {
		t.Errorf("bad stance name: %q", errText)
	}

	errText, _ = w.roundTrip(t, ClientMessage{Type: "modifier", Target: "alice", Scope: "round", Value: 2})
	if !strings.Contains(errText, "moderator") {
		t.Errorf("modifier without privilege: %q", errText)
	}

	errText, _ = w.roundTrip(t, ClientMessage{Type: "juggle"})
	if !strings.Contains(errText, "unknown command") {
		t.Errorf("unknown command: %q", errText)
	}

	// The loop is still alive and processing legal commands.
	errText, sv := w.roundTrip(t, ClientMessage{Type: "accept"})
	if errText != "" || sv.State != game.StateActive.String() {
		t.Errorf("accept after rejections: %q, state %s", errText, sv.State)
	}
}

// TestBroadcastLogger: every sink sees every event, and the stored log
// keeps its sequence.
func TestBroadcastLogger(t *testing.T) {
	l := NewBroadcastLogger()
	var got []string
	l.Attach(func(ev EventView) { got = append(got, ev.Type) })

	l.Log(log.NewAcceptEvent("bob"))
	l.Log(log.NewDeclareLockedEvent(1, "alice"))

	if len(got) != 2 || got[0] != "Accept" {
		t.Errorf("sink saw %v", got)
	}
	events := l.Events()
	if len(events) != 2 || events[1].Seq != 2 {
		t.Errorf("stored events: %+v", events)
	}
}
