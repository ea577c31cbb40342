package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/colloquy/pkg/ports"
)

// Worlds keeps one World per player, built from a Seed on first use.
type Worlds struct {
	seed Seed

	mu     sync.Mutex
	worlds map[string]*World
}

// NewWorlds creates a registry whose worlds start from seed.
func NewWorlds(seed Seed) *Worlds {
	return &Worlds{seed: seed, worlds: make(map[string]*World)}
}

// Get returns the player's world, creating it if needed.
func (w *Worlds) Get(player string) (*World, error) {
	if player == "" {
		return nil, errors.New("player cannot be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if world, ok := w.worlds[player]; ok {
		return world, nil
	}
	world, err := w.seed.Build()
	if err != nil {
		return nil, err
	}
	w.worlds[player] = world
	return world, nil
}

// World returns the player's world as the engine's service boundary.
func (w *Worlds) World(ctx context.Context, player string) (*ports.World, error) {
	world, err := w.Get(player)
	if err != nil {
		return nil, err
	}
	return world.Ports(), nil
}
