package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/duelx/internal/game"
)

// Client connects to a duel server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	name string
	in   io.Reader // command input, defaults to os.Stdin
}

// Connect dials a server, introduces the participant, and runs the REPL.
func Connect(ctx context.Context, addr, name string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the host...")

	client := &Client{conn: conn, name: name}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages in the background and turns terminal
// commands into protocol messages until the match ends.
func (c *Client) RunREPL(ctx context.Context) error {
	enc := json.NewEncoder(c.conn)
	done := make(chan error, 1)

	go func() {
		dec := json.NewDecoder(c.conn)
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				done <- fmt.Errorf("read message: %w", err)
				return
			}
			switch msg.Type {
			case "welcome":
				fmt.Printf("\nDuel vs %s: best of %d (%s)\n", msg.Opponent, msg.BestOf, msg.Options)
				fmt.Println("Type 'help' for commands.")
			case "notify":
				c.renderEvent(msg.Event)
			case "status":
				c.renderStatus(msg.Status)
			case "error":
				fmt.Printf("! %s\n", msg.Error)
			case "match_over":
				fmt.Println()
				fmt.Println("===================================")
				fmt.Println(msg.Result)
				fmt.Println("===================================")
				done <- nil
				return
			}
		}
	}()

	go func() {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" {
				done <- nil
				return
			}
			if line == "help" {
				printHelp()
				continue
			}
			msg, err := ParseCommand(line)
			if err != nil {
				fmt.Printf("! %s\n", err)
				continue
			}
			if err := enc.Encode(msg); err != nil {
				done <- fmt.Errorf("send command: %w", err)
				return
			}
		}
		done <- scanner.Err()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseCommand turns one terminal line into a protocol message.
func ParseCommand(line string) (ClientMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ClientMessage{}, fmt.Errorf("empty command")
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "accept":
		return ClientMessage{Type: "accept"}, nil

	case "declare":
		if len(args) < 2 {
			return ClientMessage{}, fmt.Errorf("usage: declare <stance> <stance> [stance]")
		}
		return ClientMessage{Type: "declare", Stances: args}, nil

	case "switch":
		if len(args) != 2 {
			return ClientMessage{}, fmt.Errorf("usage: switch <old> <new>")
		}
		return ClientMessage{Type: "switch", Old: args[0], New: args[1]}, nil

	case "pass":
		return ClientMessage{Type: "pass"}, nil

	case "pick":
		if len(args) != 1 {
			return ClientMessage{}, fmt.Errorf("usage: pick <stance>")
		}
		return ClientMessage{Type: "pick", Stance: args[0]}, nil

	case "mod":
		if len(args) != 3 {
			return ClientMessage{}, fmt.Errorf("usage: mod <participant> <round|match> <value>")
		}
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return ClientMessage{}, fmt.Errorf("value must be a number, got %q", args[2])
		}
		return ClientMessage{Type: "modifier", Target: args[0], Scope: args[1], Value: value}, nil

	case "status":
		return ClientMessage{Type: "status"}, nil

	case "cancel":
		return ClientMessage{Type: "cancel"}, nil

	default:
		return ClientMessage{}, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  accept                          accept the challenge")
	fmt.Println("  declare <stance> <stance> [s3]  declare your stance options")
	fmt.Println("  switch <old> <new>              swap a declared stance (bait-switch only)")
	fmt.Println("  pass                            keep your declared stances")
	fmt.Println("  pick <stance>                   secretly commit a declared stance")
	fmt.Println("  mod <who> <round|match> <n>     set a modifier (moderators only)")
	fmt.Println("  status                          show the match from your seat")
	fmt.Println("  cancel                          force-end the match")
	fmt.Println("  quit                            leave")
	fmt.Printf("Stances: %s\n", stanceList())
}

func stanceList() string {
	names := make([]string, 0, game.StanceCount)
	for _, s := range game.AllStances {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	phase := ev.Phase
	for len(phase) < 10 {
		phase += " "
	}
	fmt.Printf("R%-2d %s| %s\n", ev.Round, phase, ev.Details)
}

func (c *Client) renderStatus(sv *game.StatusView) {
	if sv == nil {
		return
	}

	fmt.Println()
	fmt.Printf("=== %s | round %d | first to %d (%s) ===\n", sv.State, sv.Round, sv.WinThreshold, sv.Options)
	for _, p := range sv.Participants {
		line := fmt.Sprintf("  %-12s %d", p.ID, p.Score)
		if len(p.Declared) > 0 {
			line += "  declared: " + strings.Join(p.Declared, ", ")
		} else if p.HasDeclared {
			line += "  declared: (hidden)"
		}
		if p.Pick != "" {
			line += "  pick: " + p.Pick
		} else if p.HasPicked {
			line += "  pick: (locked)"
		}
		if p.LastPick != "" {
			line += "  last: " + p.LastPick
		}
		if p.RoundModifier != 0 {
			line += fmt.Sprintf("  round mod %+d", p.RoundModifier)
		}
		if p.MatchModifier != 0 {
			line += fmt.Sprintf("  match mod %+d", p.MatchModifier)
		}
		fmt.Println(line)
	}
	if sv.Phase != "" {
		fmt.Printf("  phase: %s", sv.Phase)
		if len(sv.Pending) > 0 {
			fmt.Printf("  waiting on: %s", strings.Join(sv.Pending, ", "))
		}
		fmt.Println()
	}
	if sv.Winner != "" {
		fmt.Printf("  winner: %s\n", sv.Winner)
	}
	for _, r := range sv.History {
		c.renderRound(r)
	}
	fmt.Println()
}

func (c *Client) renderRound(r game.RoundResult) {
	outcome := "tie"
	if !r.Tie() {
		outcome = fmt.Sprintf("seat %d wins", r.Winner)
	}
	fmt.Printf("  R%d: %s %v vs %s %v -> %d:%d (%s)\n",
		r.Round, r.Picks[0], r.Rolls[0], r.Picks[1], r.Rolls[1], r.Final[0], r.Final[1], outcome)
}
