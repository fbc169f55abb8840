// Package registry maps game ids to factories. Games register themselves in
// init() so the CLI and servers can list and create them by id.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tilelab/internal/core"
)

// Game is the interface every playable game implements.
// Games hold pure logic; the platform maps keys to actions, drives the
// fixed-rate tick and draws the screen.
type Game interface {
	// ID returns the unique identifier used on the command line and as the
	// score key (e.g., "pushbox").
	ID() string

	// Title returns a human-readable name (e.g., "Pushbox").
	Title() string

	// Reset starts a new session. The RuntimeConfig carries the screen size
	// and the seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick of input.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance.
type Factory func() Game

type entry struct {
	factory Factory
	title   string
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game factory under id. It panics on a duplicate id or a
// factory whose game reports a different id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	g := f()
	if g.ID() != id {
		panic(fmt.Sprintf("registry: factory for %q creates game %q", id, g.ID()))
	}
	entries[id] = entry{factory: f, title: g.Title()}
}

// List returns all registered games sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(result, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return result
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
