package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/duelx/internal/log"
)

// Match owns one duel's entire lifecycle: challenge, accept, the
// declare/switch/pick loop, resolution, and termination. All exported
// methods serialize on an internal mutex; the second Pick of a round
// triggers resolution inside the same critical section, so neither
// participant can observe a half-recorded round.
type Match struct {
	mu sync.Mutex

	id         string
	contextKey string
	config     MatchConfig
	roller     Roller
	logger     log.EventLogger

	state   MatchState
	phase   RoundPhase
	round   int
	seats   [2]*participant
	history []RoundResult
	mods    *modifierRegistry
}

// NewMatch creates a match in the PendingChallenge state. Seat 0 is the
// challenger, seat 1 the challenged opponent. The logger defaults to an
// in-memory one; the roller to a seeded rand roller.
func NewMatch(contextKey, challenger, opponent string, cfg MatchConfig, logger log.EventLogger) (*Match, error) {
	if cfg.BestOf != 3 && cfg.BestOf != 5 && cfg.BestOf != 7 {
		return nil, fmt.Errorf("%w: best of must be 3, 5, or 7 (got %d)", ErrInvalidConfig, cfg.BestOf)
	}
	if challenger == "" || opponent == "" || challenger == opponent {
		return nil, fmt.Errorf("%w: need two distinct participants", ErrInvalidConfig)
	}

	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	roller := cfg.Roller
	if roller == nil {
		roller = NewRoller(cfg.Seed)
	}

	m := &Match{
		id:         uuid.NewString(),
		contextKey: contextKey,
		config:     cfg,
		roller:     roller,
		logger:     logger,
		state:      StatePendingChallenge,
		phase:      PhaseNone,
		round:      1,
		seats: [2]*participant{
			{id: challenger},
			{id: opponent},
		},
		mods: newModifierRegistry(),
	}
	m.logger.Log(log.NewChallengeEvent(challenger, opponent, cfg.BestOf, cfg.Options()))
	return m, nil
}

// Options formats the enabled variants for display.
func (c MatchConfig) Options() string {
	var opts []string
	if c.NoRepeat {
		opts = append(opts, "No Repeat")
	}
	if c.AdjacencyMod {
		opts = append(opts, "Adjacency Mod")
	}
	if c.BaitSwitch {
		opts = append(opts, "Bait & Switch")
	}
	if len(opts) == 0 {
		return "Standard"
	}
	return strings.Join(opts, ", ")
}

// ID returns the match's unique id.
func (m *Match) ID() string { return m.id }

// ContextKey returns the channel/context this match is bound to.
func (m *Match) ContextKey() string { return m.contextKey }

// Config returns the match configuration.
func (m *Match) Config() MatchConfig { return m.config }

// Participants returns the two participant ids, challenger first.
func (m *Match) Participants() [2]string {
	return [2]string{m.seats[0].id, m.seats[1].id}
}

// State returns the current lifecycle state.
func (m *Match) State() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// History returns a copy of all resolved round results, ties included.
func (m *Match) History() []RoundResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RoundResult, len(m.history))
	copy(out, m.history)
	return out
}

// seatOf maps a participant id to its seat index.
func (m *Match) seatOf(id string) (int, error) {
	for i, p := range m.seats {
		if p.id == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
}

// Accept moves the match from PendingChallenge to Active. Only the
// challenged participant can accept. Talent bonuses from the config are
// registered as match modifiers here.
func (m *Match) Accept(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePendingChallenge {
		return fmt.Errorf("%w: cannot accept in state %s", ErrIllegalTransition, m.state)
	}
	seat, err := m.seatOf(id)
	if err != nil {
		return err
	}
	if seat != 1 {
		return fmt.Errorf("%w: only the challenged participant can accept", ErrIllegalTransition)
	}

	m.state = StateActive
	m.phase = PhaseDeclaring
	m.logger.Log(log.NewAcceptEvent(id))

	for i, p := range m.seats {
		if m.config.TalentBonus[i] {
			// Talent range is a subset of the modifier range; set cannot fail.
			_ = m.mods.set(p.id, ScopeMatch, 1)
			m.logger.Log(log.NewModifierSetEvent(m.round, p.id, ScopeMatch.String(), 1, "talent bonus"))
		}
	}
	return nil
}

// Declare submits a participant's stance options for the round: two
// distinct stances, or up to three for seats with the triple-stance
// privilege. Re-declaring is allowed until both participants have
// declared. Once both are in, declarations are revealed and the round
// advances to Switching (bait-switch) or straight to Picking.
func (m *Match) Declare(id string, stances ...Stance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive || m.phase != PhaseDeclaring {
		return fmt.Errorf("%w: cannot declare in %s", ErrIllegalTransition, m.describeState())
	}
	seat, err := m.seatOf(id)
	if err != nil {
		return err
	}

	maxDeclared := 2
	if m.config.TripleStance[seat] {
		maxDeclared = 3
	}
	if len(stances) < 2 || len(stances) > maxDeclared {
		return fmt.Errorf("%w: declare %d stances (got %d)", ErrInvalidDeclaration, maxDeclared, len(stances))
	}
	for i, s := range stances {
		for _, t := range stances[:i] {
			if s == t {
				return fmt.Errorf("%w: %s declared twice", ErrInvalidDeclaration, s)
			}
		}
	}
	p := m.seats[seat]
	if m.config.NoRepeat && p.hasLast {
		for _, s := range stances {
			if s == p.lastPick {
				return fmt.Errorf("%w: %s was picked last round (no-repeat rule)", ErrInvalidDeclaration, s)
			}
		}
	}

	p.declared = append([]Stance(nil), stances...)
	m.logger.Log(log.NewDeclareLockedEvent(m.round, id))

	if m.seats[0].declared != nil && m.seats[1].declared != nil {
		m.logger.Log(log.NewRevealEvent(m.round,
			m.seats[0].id, stanceNames(m.seats[0].declared),
			m.seats[1].id, stanceNames(m.seats[1].declared)))
		if m.config.BaitSwitch {
			m.phase = PhaseSwitching
		} else {
			m.phase = PhasePicking
		}
	}
	return nil
}

// Switch replaces one declared stance with a new one. Available once
// per round per participant, only with the bait-switch variant.
func (m *Match) Switch(id string, old, new Stance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.config.BaitSwitch {
		return fmt.Errorf("%w: bait-switch is not enabled for this match", ErrInvalidSwitch)
	}
	if m.state != StateActive || m.phase != PhaseSwitching {
		return fmt.Errorf("%w: cannot switch in %s", ErrIllegalTransition, m.describeState())
	}
	seat, err := m.seatOf(id)
	if err != nil {
		return err
	}
	p := m.seats[seat]

	if p.switched {
		return fmt.Errorf("%w: switch already used this round", ErrInvalidSwitch)
	}
	if !p.declaredContains(old) {
		return fmt.Errorf("%w: %s is not one of your declared stances", ErrInvalidSwitch, old)
	}
	if p.declaredContains(new) {
		return fmt.Errorf("%w: %s is already declared", ErrInvalidSwitch, new)
	}
	if m.config.NoRepeat && p.hasLast && new == p.lastPick {
		return fmt.Errorf("%w: %s was picked last round (no-repeat rule)", ErrInvalidSwitch, new)
	}

	for i, s := range p.declared {
		if s == old {
			p.declared[i] = new
			break
		}
	}
	p.switched = true
	m.logger.Log(log.NewSwitchEvent(m.round, id, old.String(), new.String()))
	m.advanceIfSwitchingDone()
	return nil
}

// PassSwitch declines the bait-switch for this round. A participant who
// has already switched passes implicitly.
func (m *Match) PassSwitch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.config.BaitSwitch {
		return fmt.Errorf("%w: bait-switch is not enabled for this match", ErrInvalidSwitch)
	}
	if m.state != StateActive || m.phase != PhaseSwitching {
		return fmt.Errorf("%w: cannot pass in %s", ErrIllegalTransition, m.describeState())
	}
	seat, err := m.seatOf(id)
	if err != nil {
		return err
	}
	p := m.seats[seat]
	if !p.passed && !p.switched {
		p.passed = true
		m.logger.Log(log.NewPassSwitchEvent(m.round, id))
	}
	m.advanceIfSwitchingDone()
	return nil
}

func (m *Match) advanceIfSwitchingDone() {
	for _, p := range m.seats {
		if !p.switched && !p.passed {
			return
		}
	}
	m.phase = PhasePicking
}

// Pick secretly commits one of the participant's declared stances. The
// second pick of the round resolves it immediately; the returned flag
// reports whether that happened on this call.
func (m *Match) Pick(id string, s Stance) (resolved bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive || m.phase != PhasePicking {
		return false, fmt.Errorf("%w: cannot pick in %s", ErrIllegalTransition, m.describeState())
	}
	seat, err := m.seatOf(id)
	if err != nil {
		return false, err
	}
	p := m.seats[seat]

	if p.picked {
		return false, fmt.Errorf("%w: you have already picked this round", ErrInvalidPick)
	}
	if !p.declaredContains(s) {
		return false, fmt.Errorf("%w: %s is not one of your declared stances", ErrInvalidPick, s)
	}

	p.pick = s
	p.picked = true
	m.logger.Log(log.NewPickLockedEvent(m.round, id))

	if m.seats[0].picked && m.seats[1].picked {
		m.resolveCurrentRound()
		return true, nil
	}
	return false, nil
}

// resolveCurrentRound runs the resolver and applies the outcome. Caller
// holds the lock.
func (m *Match) resolveCurrentRound() {
	picks := [2]Stance{m.seats[0].pick, m.seats[1].pick}
	var mods [2]int
	for i, p := range m.seats {
		_, _, mods[i] = m.mods.active(p.id)
	}

	res := resolveRound(m.roller, m.config.AdjacencyMod, m.round, picks, mods)

	if res.Tie() {
		// No winner, no score, no advance: picks are cleared and the
		// round returns to Picking so both participants re-pick.
		res.Scores = [2]int{m.seats[0].score, m.seats[1].score}
		m.history = append(m.history, res)
		m.logger.Log(log.NewRoundTieEvent(m.round, res.Final[0]))
		for _, p := range m.seats {
			p.picked = false
		}
		return
	}

	winner := m.seats[res.Winner]
	winner.score++
	res.Scores = [2]int{m.seats[0].score, m.seats[1].score}
	m.history = append(m.history, res)

	for _, p := range m.seats {
		p.lastPick = p.pick
		p.hasLast = true
	}
	m.mods.clearRound()

	m.logger.Log(log.NewRoundResolvedEvent(m.round, winner.id, formatResolution(m.seats, res)))

	if winner.score >= m.config.WinThreshold() {
		m.state = StateCompleted
		m.phase = PhaseNone
		loser := m.seats[1-res.Winner]
		m.logger.Log(log.NewMatchWonEvent(m.round, winner.id, winner.score, loser.score))
		return
	}

	m.round++
	for _, p := range m.seats {
		p.resetRound()
	}
	m.phase = PhaseDeclaring
}

// SetModifier registers a moderator adjustment for a participant.
// Allowed only while the match is Active and the current round's
// declarations are both in; value must lie in [-3, +3] and zero removes
// the entry.
func (m *Match) SetModifier(id string, scope ModifierScope, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Terminal() {
		return fmt.Errorf("%w: match is %s", ErrIllegalTransition, m.state)
	}
	if m.state != StateActive || m.phase == PhaseDeclaring {
		return fmt.Errorf("%w: wait until both participants have declared", ErrModifierTiming)
	}
	if _, err := m.seatOf(id); err != nil {
		return err
	}
	if err := m.mods.set(id, scope, value); err != nil {
		return err
	}
	m.logger.Log(log.NewModifierSetEvent(m.round, id, scope.String(), value, ""))
	return nil
}

// Cancel force-ends the match from any non-terminal state. Already
// resolved rounds stay in the history for display.
func (m *Match) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Terminal() {
		return fmt.Errorf("%w: match is already %s", ErrIllegalTransition, m.state)
	}
	m.state = StateCancelled
	m.phase = PhaseNone
	m.logger.Log(log.NewMatchCancelledEvent(m.round))
	return nil
}

// describeState renders state+phase for error messages.
func (m *Match) describeState() string {
	if m.state == StateActive {
		return fmt.Sprintf("%s/%s", m.state, m.phase)
	}
	return m.state.String()
}

func stanceNames(stances []Stance) []string {
	out := make([]string, len(stances))
	for i, s := range stances {
		out[i] = s.String()
	}
	return out
}

// formatResolution renders a resolved round for the event log.
func formatResolution(seats [2]*participant, res RoundResult) string {
	var sb strings.Builder
	for i, p := range seats {
		if i > 0 {
			sb.WriteString(" | ")
		}
		fmt.Fprintf(&sb, "%s: %s (%s) %v->%d", p.id, res.Picks[i], res.Relationship[i], res.Rolls[i], res.Final[i])
	}
	fmt.Fprintf(&sb, " :: %s takes round %d (%d-%d)", seats[res.Winner].id, res.Round, res.Scores[0], res.Scores[1])
	return sb.String()
}
