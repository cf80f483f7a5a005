package system

import (
	"time"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/world"
)

// InteractionGate is the fixed-window rate limiter guarding interaction
// commands. All state lives on the pet itself (interaction_count and
// interaction_window_start), so the gate is stateless and shared.
type InteractionGate struct {
	cfg config.InteractionConfig
}

func NewInteractionGate(cfg config.InteractionConfig) *InteractionGate {
	return &InteractionGate{cfg: cfg}
}

// Check opens or rejects an interaction at the given instant. A window
// older than the configured span resets the counter before the quota test.
// Check never consumes quota; the caller commits a successful action with
// Consume, so a failed action (e.g. insufficient coins) costs nothing.
func (g *InteractionGate) Check(pet *world.PetState, now time.Time) error {
	if now.Sub(pet.InteractionWindowStart) > g.cfg.Window {
		pet.InteractionCount = 0
		pet.InteractionWindowStart = now
	}
	if pet.InteractionCount >= g.cfg.MaxActions {
		wait := pet.InteractionWindowStart.Add(g.cfg.Window).Sub(now)
		return &world.RateLimitedError{WaitSeconds: int(wait.Seconds())}
	}
	return nil
}

// Consume records a successful interaction inside the current window.
func (g *InteractionGate) Consume(pet *world.PetState, now time.Time) {
	pet.InteractionCount++
	pet.LastInteractionTime = now
}
