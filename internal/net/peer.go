package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"sync"

	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"
)

// Peer is one participant's JSON connection to a hosted match. The
// same serve loop backs the TCP joiner, the host's local pipe end, and
// the human seat of an MCP session.
type Peer struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	id   string
	mu   sync.Mutex
}

// NewPeer wraps a connection for the given participant id.
func NewPeer(conn net.Conn, id string) *Peer {
	return &Peer{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
		id:   id,
	}
}

// ID returns the participant id this peer acts as.
func (p *Peer) ID() string { return p.id }

// SetID assigns the participant id once the join handshake names it.
func (p *Peer) SetID(id string) { p.id = id }

// Recv reads one client message. Used for the join handshake before
// the serve loop takes over the decoder.
func (p *Peer) Recv() (ClientMessage, error) {
	var msg ClientMessage
	err := p.dec.Decode(&msg)
	return msg, err
}

// Send writes a server message to the peer.
func (p *Peer) Send(msg ServerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(msg)
}

// Notify pushes a match event to the peer. Send errors are dropped: a
// peer that has gone away is detected by its own serve loop.
func (p *Peer) Notify(ev EventView) {
	_ = p.Send(ServerMessage{Type: "notify", Event: &ev})
}

// SendMatchOver tells the peer the match has ended.
func (p *Peer) SendMatchOver(winner, result string) {
	_ = p.Send(ServerMessage{Type: "match_over", Winner: winner, Result: result})
}

// SendWelcome sends the initial handshake reply.
func (p *Peer) SendWelcome(m *game.Match, opponent string) error {
	cfg := m.Config()
	return p.Send(ServerMessage{
		Type:     "welcome",
		MatchID:  m.ID(),
		You:      p.id,
		Opponent: opponent,
		BestOf:   cfg.BestOf,
		Options:  cfg.Options(),
	})
}

// Serve reads commands from the peer and applies them to the match
// until the connection drops or the context ends. Command failures are
// reported to the peer and do not end the loop.
func (p *Peer) Serve(ctx context.Context, m *game.Match, settings *game.Settings) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ClientMessage
		if err := p.dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
		if err := p.handle(m, settings, msg); err != nil {
			_ = p.Send(ServerMessage{Type: "error", Error: err.Error()})
		}
	}
}

// handle applies one command to the match.
func (p *Peer) handle(m *game.Match, settings *game.Settings, msg ClientMessage) error {
	switch msg.Type {
	case "accept":
		return m.Accept(p.id)

	case "declare":
		stances := make([]game.Stance, 0, len(msg.Stances))
		for _, name := range msg.Stances {
			s, err := game.ParseStance(name)
			if err != nil {
				return err
			}
			stances = append(stances, s)
		}
		return m.Declare(p.id, stances...)

	case "switch":
		old, err := game.ParseStance(msg.Old)
		if err != nil {
			return err
		}
		repl, err := game.ParseStance(msg.New)
		if err != nil {
			return err
		}
		return m.Switch(p.id, old, repl)

	case "pass":
		return m.PassSwitch(p.id)

	case "pick":
		s, err := game.ParseStance(msg.Stance)
		if err != nil {
			return err
		}
		_, err = m.Pick(p.id, s)
		return err

	case "modifier":
		if !settings.IsModerator(p.id) {
			return fmt.Errorf("modifiers are moderator-only")
		}
		scope, ok := game.ParseScope(msg.Scope)
		if !ok {
			return fmt.Errorf("scope must be round or match, got %q", msg.Scope)
		}
		return m.SetModifier(msg.Target, scope, msg.Value)

	case "status":
		sv := m.Snapshot(p.id)
		return p.Send(ServerMessage{Type: "status", Status: &sv})

	case "cancel":
		participants := m.Participants()
		if p.id != participants[0] && p.id != participants[1] && !settings.IsModerator(p.id) {
			return fmt.Errorf("only participants or moderators can cancel")
		}
		return m.Cancel()

	default:
		return fmt.Errorf("unknown command %q", msg.Type)
	}
}

// BroadcastLogger records match events and fans each one out to the
// attached sinks (connected peers, session buffers). It is the single
// logger the hosted match writes to.
type BroadcastLogger struct {
	mu     sync.Mutex
	seq    int
	events []log.GameEvent
	sinks  []func(EventView)
}

func NewBroadcastLogger() *BroadcastLogger {
	return &BroadcastLogger{}
}

// Attach registers a sink for future events.
func (l *BroadcastLogger) Attach(sink func(EventView)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
}

func (l *BroadcastLogger) Log(event log.GameEvent) {
	l.mu.Lock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	sinks := slices.Clone(l.sinks)
	l.mu.Unlock()

	ev := EventViewOf(event)
	for _, sink := range sinks {
		sink(ev)
	}
}

func (l *BroadcastLogger) Events() []log.GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.GameEvent(nil), l.events...)
}
