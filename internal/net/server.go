package net

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/peterkuimelis/duelx/internal/arena"
	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"
)

// Server hosts one duel between the local participant and one TCP
// joiner. The host plays through a local pipe served by the same peer
// loop as the remote side, so both seats go through identical command
// handling.
type Server struct {
	Port         string
	HostName     string
	SettingsFile string
	BestOf       int       // 0 uses the settings default
	HostInput    io.Reader // host terminal input, defaults to os.Stdin
}

// Run starts the server, waits for an opponent to join, then hosts the
// match until it ends or a connection drops.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for an opponent on port %s...\n", s.Port)

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	settings, err := game.LoadSettings(s.SettingsFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	// The joiner introduces itself before anything else. The handshake
	// reads through the peer's own decoder so no buffered bytes are
	// lost to the serve loop.
	joinPeer := NewPeer(conn, "")
	joinMsg, err := joinPeer.Recv()
	if err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	joinerName := joinMsg.Name
	if joinerName == "" {
		joinerName = "opponent"
	}
	if joinerName == s.HostName {
		joinerName += "-2"
	}
	joinPeer.SetID(joinerName)
	fmt.Printf("%s connected from %s\n", joinerName, conn.RemoteAddr())

	cfg := settings.MatchConfig(s.HostName, joinerName)
	if s.BestOf != 0 {
		cfg.BestOf = s.BestOf
	}

	logger := NewBroadcastLogger()
	ar := arena.New()
	m, err := ar.Create("local", s.HostName, joinerName, cfg, logger)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}

	// The host's seat goes over an in-process pipe: one end feeds the
	// local REPL, the other is served like any remote peer.
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()
	hostPeer := NewPeer(hostServerConn, s.HostName)
	peers := []*Peer{hostPeer, joinPeer}

	logger.Attach(func(ev EventView) {
		for _, p := range peers {
			p.Notify(ev)
		}
		// Events are logged with the match lock held, so the sink must
		// not call back into the match. The winner rides on the event.
		if ev.Type == log.EventMatchWon.String() || ev.Type == log.EventMatchCancelled.String() {
			for _, p := range peers {
				p.SendMatchOver(ev.Participant, ev.Details)
			}
		}
	})

	// The REPL owns the read side of the host pipe and must be running
	// before anything is written to hostServerConn. The pipe is
	// synchronous, so an unread welcome blocks the server for good.
	errCh := make(chan error, 3)
	go func() {
		client := &Client{conn: hostConn, name: s.HostName, in: s.HostInput}
		errCh <- client.RunREPL(ctx)
	}()

	for _, p := range peers {
		other := joinerName
		if p == joinPeer {
			other = s.HostName
		}
		if err := p.SendWelcome(m, other); err != nil {
			return fmt.Errorf("send welcome: %w", err)
		}
	}

	go func() {
		errCh <- hostPeer.Serve(ctx, m, settings)
	}()
	go func() {
		errCh <- joinPeer.Serve(ctx, m, settings)
	}()

	return <-errCh
}
