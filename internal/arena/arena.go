// Package arena is the keyed store of live matches: at most one active
// match per context (channel), injected into the bindings rather than
// held as ambient global state.
package arena

import (
	"fmt"
	"sync"

	"github.com/peterkuimelis/duelx/internal/game"
	"github.com/peterkuimelis/duelx/internal/log"
)

// Arena maps context keys to live matches. Thread-safe; per-match
// action serialization is the Match's own concern.
type Arena struct {
	mu      sync.Mutex
	matches map[string]*game.Match
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{matches: make(map[string]*game.Match)}
}

// Create starts a new match under the given context key. A key with a
// live (non-terminal) match rejects with ErrDuplicateMatch; a terminal
// leftover is pruned and replaced.
func (a *Arena) Create(contextKey, challenger, opponent string, cfg game.MatchConfig, logger log.EventLogger) (*game.Match, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.matches[contextKey]; ok {
		if !existing.State().Terminal() {
			return nil, fmt.Errorf("%w: %s", game.ErrDuplicateMatch, contextKey)
		}
		delete(a.matches, contextKey)
	}

	m, err := game.NewMatch(contextKey, challenger, opponent, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.matches[contextKey] = m
	return m, nil
}

// Get fetches the match for a context key.
func (a *Arena) Get(contextKey string) (*game.Match, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.matches[contextKey]
	return m, ok
}

// Remove drops the match for a context key, if any. The match itself is
// untouched; callers cancel it first if it is still live.
func (a *Arena) Remove(contextKey string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.matches, contextKey)
}

// Len reports the number of stored matches, terminal leftovers included.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.matches)
}
