package net

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"
)

// The joiner must receive its welcome promptly after the handshake
// even though the host REPL has produced no input yet, then be able to
// play commands over the same connection.
func TestServerHostsJoiner(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	hostIn, hostInW := io.Pipe() // host terminal stays idle
	defer hostInW.Close()
	srv := &Server{HostName: "alice", BestOf: 3, HostInput: hostIn}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", Name: "bob"}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	recv := func(want string) ServerMessage {
		t.Helper()
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				t.Fatalf("waiting for %q: %v", want, err)
			}
			if msg.Type == "error" && want != "error" {
				t.Fatalf("waiting for %q, got error %q", want, msg.Error)
			}
			if msg.Type == want {
				return msg
			}
		}
	}

	welcome := recv("welcome")
	if welcome.You != "bob" || welcome.Opponent != "alice" {
		t.Fatalf("welcome seats %q vs %q, want bob vs alice", welcome.You, welcome.Opponent)
	}
	if welcome.BestOf != 3 {
		t.Fatalf("welcome best-of = %d, want 3", welcome.BestOf)
	}

	if err := enc.Encode(ClientMessage{Type: "accept"}); err != nil {
		t.Fatalf("send accept: %v", err)
	}
	if err := enc.Encode(ClientMessage{Type: "status"}); err != nil {
		t.Fatalf("send status: %v", err)
	}
	status := recv("status")
	if status.Status == nil || status.Status.State != "Active" {
		t.Fatalf("status after accept = %+v, want Active", status.Status)
	}

	if err := enc.Encode(ClientMessage{Type: "cancel"}); err != nil {
		t.Fatalf("send cancel: %v", err)
	}
	recv("match_over")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server returned: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after match_over")
	}
}
