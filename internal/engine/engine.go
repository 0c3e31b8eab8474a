package engine

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/oracle"
)

// Phase is the engine's lifecycle state. Only PhaseActive accepts turns.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInitializing
	PhaseActive
	PhaseGameOver
	PhaseVictory
)

var (
	ErrNotActive    = errors.New("no active game")
	ErrTurnInFlight = errors.New("a turn is already being resolved")
	ErrEmptyAction  = errors.New("action must not be empty")
	ErrStaleSession = errors.New("result discarded: session was replaced")
	ErrNotVictory   = errors.New("forking requires a victorious run")
)

// Oracle is the narrative generator as the engine sees it.
type Oracle interface {
	Initialize(ctx context.Context, settings game.Settings, era int) (oracle.TurnResult, error)
	Restore(ctx context.Context, settings game.Settings, stats game.StatVector, infraSummary string, recent []string) error
	ResolveTurn(ctx context.Context, action string, stats game.StatVector, infraSummary string) (oracle.TurnResult, error)
}

// Store persists the single save slot.
type Store interface {
	Save(*game.GameState) error
	Load() (*game.GameState, error)
	Delete() error
}

// restoreWindow bounds how much narrative history is replayed to the
// oracle when resuming a saved game.
const restoreWindow = 5

// Engine owns the authoritative GameState and drives turn resolution.
// All mutation is serialized through its mutex; the oracle round-trip is
// the only step performed outside the lock.
type Engine struct {
	mu       sync.Mutex
	oracle   Oracle
	store    Store
	state    *game.GameState
	phase    Phase
	gen      uint64 // bumped whenever the session is replaced
	inFlight bool
}

func New(o Oracle, s Store) *Engine {
	return &Engine{oracle: o, store: s}
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Snapshot returns a read-only copy of the current state for rendering.
func (e *Engine) Snapshot() game.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return game.GameState{}
	}
	return *e.state
}

func resultEventType(res oracle.TurnResult) game.EventType {
	switch {
	case res.Fallback:
		return game.EventAlert
	case res.EventType == oracle.EventGameOver:
		return game.EventFailure
	case res.EventType == oracle.EventVictory:
		return game.EventSuccess
	default:
		return game.EventNarrative
	}
}

// begin swaps in a freshly seeded state and asks the oracle for the
// opening scene. Shared by StartNewGame and Fork.
func (e *Engine) begin(ctx context.Context, state *game.GameState) (game.GameEvent, error) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.inFlight = false // abandon any turn belonging to the old session
	e.state = state
	e.phase = PhaseInitializing
	settings, era := state.Settings, state.Stats.Era
	e.mu.Unlock()

	res, err := e.oracle.Initialize(ctx, settings, era)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return game.GameEvent{}, ErrStaleSession
	}
	if err != nil {
		e.phase = PhaseNotStarted
		e.state = nil
		return game.GameEvent{}, err
	}
	ev := state.AppendEvent(resultEventType(res), res.Narrative, res.Choices)
	e.phase = PhaseActive
	e.saveLocked()
	return ev, nil
}

// StartNewGame resets to a fresh era-1 run and returns the opening event.
// Oracle failure here is fatal: the engine returns to PhaseNotStarted.
func (e *Engine) StartNewGame(ctx context.Context, settings game.Settings) (game.GameEvent, error) {
	return e.begin(ctx, game.NewState(settings))
}

// Fork carries a victorious run into the next era, preserving history and
// infrastructure under the renewal formula.
func (e *Engine) Fork(ctx context.Context) (game.GameEvent, error) {
	e.mu.Lock()
	if e.phase != PhaseVictory {
		e.mu.Unlock()
		return game.GameEvent{}, ErrNotVictory
	}
	next := game.ForkState(e.state)
	e.mu.Unlock()
	return e.begin(ctx, next)
}

// Load restores the persisted game, if any, and re-establishes oracle
// context. Returns false when no save exists. Past turns are never
// re-queried; only the oracle's conversational memory is rebuilt.
func (e *Engine) Load(ctx context.Context) (bool, error) {
	st, err := e.store.Load()
	if err != nil {
		return false, err
	}
	if st == nil {
		return false, nil
	}

	e.mu.Lock()
	e.gen++
	e.inFlight = false
	e.state = st
	switch {
	case st.GameWon:
		e.phase = PhaseVictory
	case st.GameOver:
		e.phase = PhaseGameOver
	default:
		e.phase = PhaseActive
	}
	settings, stats := st.Settings, st.Stats
	summary := st.Grid.Summary()
	recent := st.RecentNarratives(restoreWindow)
	e.mu.Unlock()

	if err := e.oracle.Restore(ctx, settings, stats, summary, recent); err != nil {
		e.mu.Lock()
		e.phase = PhaseNotStarted
		e.state = nil
		e.mu.Unlock()
		return false, err
	}
	return true, nil
}

// ResolveTurn runs one full turn: record the player's action, gather
// passive infrastructure effects, consult the oracle, fold both deltas in
// under a single clamp, and append the resulting narrative. A second call
// while one is pending is rejected. The turn counter advances even when
// the oracle round-trip fell back; the passives were still earned.
func (e *Engine) ResolveTurn(ctx context.Context, action string) (game.GameEvent, error) {
	action = strings.TrimSpace(action)

	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return game.GameEvent{}, ErrNotActive
	}
	if e.inFlight {
		e.mu.Unlock()
		return game.GameEvent{}, ErrTurnInFlight
	}
	if action == "" {
		e.mu.Unlock()
		return game.GameEvent{}, ErrEmptyAction
	}
	e.inFlight = true
	gen := e.gen
	st := e.state
	st.AppendEvent(game.EventChoice, action, nil)
	stats := st.Stats
	passive := st.Grid.PassiveEffects()
	summary := st.Grid.Summary()
	e.mu.Unlock()

	res, err := e.oracle.ResolveTurn(ctx, action, stats, summary)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return game.GameEvent{}, ErrStaleSession
	}
	e.inFlight = false
	if err != nil {
		// Sequencing errors only; per-turn transport and parse failures
		// already arrive as a fallback result.
		return game.GameEvent{}, err
	}

	st.Stats = game.ApplyDelta(st.Stats, passive.Add(res.StatsUpdate))
	ev := st.AppendEvent(resultEventType(res), res.Narrative, res.Choices)
	st.TurnCount++

	switch res.EventType {
	case oracle.EventGameOver:
		st.GameOver = true
		e.phase = PhaseGameOver
	case oracle.EventVictory:
		st.GameWon = true
		e.phase = PhaseVictory
	}
	e.saveLocked()
	return ev, nil
}

// Purchase buys a module into a grid slot, deducting its cost atomically.
func (e *Engine) Purchase(slot int, typ game.ModuleType) (*game.Module, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return nil, ErrNotActive
	}
	m, err := e.state.Purchase(slot, typ)
	if err != nil {
		return nil, err
	}
	e.saveLocked()
	return m, nil
}

// RemoveModule frees a grid slot with no refund.
func (e *Engine) RemoveModule(slot int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return ErrNotActive
	}
	if err := e.state.Grid.Remove(slot); err != nil {
		return err
	}
	e.saveLocked()
	return nil
}

// Reset wipes the save slot and returns to PhaseNotStarted. Any in-flight
// turn result will be discarded on arrival.
func (e *Engine) Reset() error {
	e.mu.Lock()
	e.gen++
	e.inFlight = false
	e.state = nil
	e.phase = PhaseNotStarted
	e.mu.Unlock()
	return e.store.Delete()
}

// saveLocked persists the current state. Persistence is best-effort: a
// failed write is logged, never surfaced as a turn error. A game with no
// history yet is not persisted. Callers hold e.mu, so the snapshot is
// never taken mid-merge.
func (e *Engine) saveLocked() {
	if e.state == nil || len(e.state.History) == 0 {
		return
	}
	if err := e.store.Save(e.state); err != nil {
		log.Printf("engine: save failed: %v", err)
	}
}
