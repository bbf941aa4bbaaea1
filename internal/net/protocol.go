package net

import (
	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"
)

// Message types for the JSON protocol over TCP.

// --- Server -> Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "welcome"
	MatchID  string `json:"match_id,omitempty"`
	You      string `json:"you,omitempty"`
	Opponent string `json:"opponent,omitempty"`
	BestOf   int    `json:"best_of,omitempty"`
	Options  string `json:"options,omitempty"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "status"
	Status *game.StatusView `json:"status,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "match_over"
	Winner string `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a match event as shipped to clients. Events only carry
// information public at the moment they fire, so the view is a straight
// copy of the log entry.
type EventView struct {
	Seq         int    `json:"seq"`
	Round       int    `json:"round"`
	Phase       string `json:"phase,omitempty"`
	Participant string `json:"participant,omitempty"`
	Type        string `json:"type"`
	Details     string `json:"details"`
}

// EventViewOf converts a log entry into its wire form.
func EventViewOf(e log.GameEvent) EventView {
	return EventView{
		Seq:         e.Seq,
		Round:       e.Round,
		Phase:       e.Phase,
		Participant: e.Participant,
		Type:        e.Type.String(),
		Details:     e.Details,
	}
}

// --- Client -> Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`

	// For "declare"
	Stances []string `json:"stances,omitempty"`

	// For "switch"
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`

	// For "pick"
	Stance string `json:"stance,omitempty"`

	// For "modifier"
	Target string `json:"target,omitempty"`
	Scope  string `json:"scope,omitempty"`
	Value  int    `json:"value,omitempty"`
}
