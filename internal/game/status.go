package game

// StatusView is a read-only snapshot of a match from one viewer's
// perspective. It is the capability boundary for secret state: declared
// stances are present only once both sides have declared, and an
// in-progress pick appears only in its owner's own view. Resolved
// picks are public through the History entries instead.
type StatusView struct {
	MatchID      string             `json:"match_id"`
	ContextKey   string             `json:"context_key"`
	State        string             `json:"state"`
	Phase        string             `json:"phase,omitempty"`
	Round        int                `json:"round"`
	BestOf       int                `json:"best_of"`
	WinThreshold int                `json:"win_threshold"`
	Options      string             `json:"options"`
	Participants [2]ParticipantView `json:"participants"`
	Pending      []string           `json:"pending,omitempty"` // ids owing the next action
	Winner       string             `json:"winner,omitempty"`  // set once Completed
	History      []RoundResult      `json:"history,omitempty"`
}

// ParticipantView is one seat's public face, plus the viewer's own
// secret pick when applicable.
type ParticipantView struct {
	ID            string   `json:"id"`
	Score         int      `json:"score"`
	Declared      []string `json:"declared,omitempty"` // revealed only when both sides are in
	HasDeclared   bool     `json:"has_declared"`
	HasSwitched   bool     `json:"has_switched,omitempty"`
	HasPicked     bool     `json:"has_picked"`
	Pick          string   `json:"pick,omitempty"` // own view only, current round only
	LastPick      string   `json:"last_pick,omitempty"`
	RoundModifier int      `json:"round_modifier,omitempty"`
	MatchModifier int      `json:"match_modifier,omitempty"`
}

// Snapshot builds a StatusView for the given viewer id. Any viewer id
// is accepted; non-participants (observers, moderators) simply never
// see a pick.
func (m *Match) Snapshot(viewer string) StatusView {
	m.mu.Lock()
	defer m.mu.Unlock()

	sv := StatusView{
		MatchID:      m.id,
		ContextKey:   m.contextKey,
		State:        m.state.String(),
		Round:        m.round,
		BestOf:       m.config.BestOf,
		WinThreshold: m.config.WinThreshold(),
		Options:      m.config.Options(),
		History:      append([]RoundResult(nil), m.history...),
	}
	if m.state == StateActive {
		sv.Phase = m.phase.String()
	}

	bothDeclared := m.seats[0].declared != nil && m.seats[1].declared != nil

	for i, p := range m.seats {
		pv := ParticipantView{
			ID:          p.id,
			Score:       p.score,
			HasDeclared: p.declared != nil,
			HasSwitched: p.switched,
			HasPicked:   p.picked,
		}
		if bothDeclared {
			pv.Declared = stanceNames(p.declared)
		}
		if p.picked && p.id == viewer {
			pv.Pick = p.pick.String()
		}
		if p.hasLast {
			pv.LastPick = p.lastPick.String()
		}
		pv.RoundModifier, pv.MatchModifier, _ = m.mods.active(p.id)
		sv.Participants[i] = pv
	}

	switch {
	case m.state == StatePendingChallenge:
		sv.Pending = []string{m.seats[1].id}
	case m.state == StateActive:
		for _, p := range m.seats {
			switch m.phase {
			case PhaseDeclaring:
				if p.declared == nil {
					sv.Pending = append(sv.Pending, p.id)
				}
			case PhaseSwitching:
				if !p.switched && !p.passed {
					sv.Pending = append(sv.Pending, p.id)
				}
			case PhasePicking:
				if !p.picked {
					sv.Pending = append(sv.Pending, p.id)
				}
			}
		}
	case m.state == StateCompleted:
		threshold := m.config.WinThreshold()
		for _, p := range m.seats {
			if p.score >= threshold {
				sv.Winner = p.id
			}
		}
	}

	return sv
}
