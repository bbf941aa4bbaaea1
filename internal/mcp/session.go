package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	duelxnet "github.com/peterkuimelis/duelx/internal/net"

	"github.com/peterkuimelis/duelx/internal/arena"
	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"

	stdnet "net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events    []duelxnet.EventView `json:"events"`
	Status    *game.StatusView     `json:"status,omitempty"`
	MatchOver bool                 `json:"match_over"`
	Winner    string               `json:"winner,omitempty"`
	Result    string               `json:"result,omitempty"`
	Port      string               `json:"port,omitempty"`
}

// DuelSession hosts one match between the MCP-driven seat and a human
// who connects over TCP with `duelx join`. The MCP seat issues the
// challenge; the human seat is served by the same peer loop as the
// CLI server's clients.
type DuelSession struct {
	match    *game.Match
	settings *game.Settings
	agent    string
	human    string

	listener  stdnet.Listener
	humanConn stdnet.Conn

	mu     sync.Mutex
	events []duelxnet.EventView
	over   bool
	winner string
	result string
}

// NewDuelSession listens for the human opponent, then creates the
// challenge. It blocks until the human runs `duelx join`.
func NewDuelSession(settingsFile, agentName, port string, bestOf int) (*DuelSession, error) {
	settings, err := game.LoadSettings(settingsFile)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", port, err)
	}

	// Blocks until the human runs `duelx join`.
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	humanPeer := duelxnet.NewPeer(conn, "")
	joinMsg, err := humanPeer.Recv()
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}
	humanName := joinMsg.Name
	if humanName == "" {
		humanName = "human"
	}
	if humanName == agentName {
		humanName += "-2"
	}
	humanPeer.SetID(humanName)

	cfg := settings.MatchConfig(agentName, humanName)
	if bestOf != 0 {
		cfg.BestOf = bestOf
	}

	logger := duelxnet.NewBroadcastLogger()
	ar := arena.New()
	m, err := ar.Create("mcp", agentName, humanName, cfg, logger)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("create match: %w", err)
	}

	sess := &DuelSession{
		match:     m,
		settings:  settings,
		agent:     agentName,
		human:     humanName,
		listener:  ln,
		humanConn: conn,
	}

	logger.Attach(func(ev duelxnet.EventView) {
		sess.appendEvent(ev)
		humanPeer.Notify(ev)
		// Events are logged with the match lock held, so the sink must
		// not call back into the match. The winner rides on the event.
		if ev.Type == log.EventMatchWon.String() || ev.Type == log.EventMatchCancelled.String() {
			sess.markOver(ev.Participant, ev.Details)
			humanPeer.SendMatchOver(ev.Participant, ev.Details)
		}
	})

	// The challenge event fired before the sink was attached; replay
	// the backlog so the first tool response includes it.
	for _, e := range logger.Events() {
		sess.appendEvent(duelxnet.EventViewOf(e))
	}

	if err := humanPeer.SendWelcome(m, agentName); err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("send welcome: %w", err)
	}

	go func() {
		_ = humanPeer.Serve(context.Background(), m, settings)
		conn.Close()
		ln.Close()
	}()

	return sess, nil
}

// appendEvent buffers an event for the next tool response.
func (s *DuelSession) appendEvent(ev duelxnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all buffered events and clears the buffer.
func (s *DuelSession) drainEvents() []duelxnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

func (s *DuelSession) markOver(winner, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.over = true
	s.winner = winner
	s.result = result
}

// respond builds a tool response from the agent seat's perspective:
// events since the last call, the current snapshot, and the outcome if
// the match has ended.
func (s *DuelSession) respond() *ToolResponse {
	sv := s.match.Snapshot(s.agent)
	resp := &ToolResponse{
		Events: s.drainEvents(),
		Status: &sv,
	}
	s.mu.Lock()
	resp.MatchOver = s.over
	resp.Winner = s.winner
	resp.Result = s.result
	s.mu.Unlock()
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
