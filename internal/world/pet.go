package world

import (
	"math"
	"time"

	"github.com/ccvpets/server/internal/config"
)

// Stats are the four vital values of a pet. Every mutation clamps each
// field to [0,100]; a fixed struct (not a map) so a typo cannot create a
// fifth stat.
type Stats struct {
	Hunger    int
	Happiness int
	Health    int
	Loyalty   int
}

// StatDelta is a signed adjustment applied to Stats. Zero fields are no-ops.
type StatDelta struct {
	Hunger    int
	Happiness int
	Health    int
	Loyalty   int
}

// IsZero reports whether the delta changes nothing.
func (d StatDelta) IsZero() bool {
	return d == StatDelta{}
}

// Apply adds the delta and clamps every stat back into [0,100].
func (s *Stats) Apply(d StatDelta) {
	s.Hunger = clampStat(s.Hunger + d.Hunger)
	s.Happiness = clampStat(s.Happiness + d.Happiness)
	s.Health = clampStat(s.Health + d.Health)
	s.Loyalty = clampStat(s.Loyalty + d.Loyalty)
}

func decayPoints(perHour, hours float64) int {
	return int(math.Floor(perHour * hours))
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PetState is the full persistent record of one owner's pet. Exactly one
// per owner; mutated only under the registry's per-owner lock.
type PetState struct {
	OwnerID          string
	Name             string // empty until the owner names the pet
	OwnerDisplayName string
	Species          string // key into the species graph; only advances forward
	Level            int
	Experience       float64
	Coins            int
	BirthDate        time.Time // calendar date, immutable after adoption
	MaxLevel         int

	// Derived from level but stored, matching the persisted record schema.
	SkillLevel   int
	Intelligence int
	Stamina      int

	Stats Stats

	LastSignInDate         time.Time // zero until first check-in
	InteractionCount       int
	InteractionWindowStart time.Time
	LastInteractionTime    time.Time

	// decayAnchor and decayed track the lazy decay tick. Not persisted: a
	// fresh process treats load time as the anchor so restarts never
	// double-decay.
	decayAnchor time.Time
	decayed     decayedPoints
}

// decayedPoints counts the whole points of decay already charged per stat
// since the decay anchor.
type decayedPoints struct {
	hunger    int
	happiness int
	health    int
	loyalty   int
}

// NewPetState creates a freshly adopted pet: coins from config,
// hunger/happiness/health 50, loyalty 20.
func NewPetState(ownerID, ownerName, species string, cfg config.PetConfig, clock Clock) *PetState {
	level := 1
	return &PetState{
		OwnerID:          ownerID,
		OwnerDisplayName: ownerName,
		Species:          species,
		Level:            level,
		Coins:            cfg.StartingCoins,
		BirthDate:        clock.Today(),
		MaxLevel:         cfg.MaxLevel,
		SkillLevel:       level,
		Intelligence:     5 * level,
		Stamina:          10 * level,
		Stats: Stats{
			Hunger:    50,
			Happiness: 50,
			Health:    50,
			Loyalty:   20,
		},
		InteractionWindowStart: clock.Now(),
		LastInteractionTime:    clock.Now(),
		decayAnchor:            clock.Now(),
	}
}

// DecayTick charges time-based decay for the span since the decay anchor.
// Each stat is charged floor(rate*hours) total points since the anchor,
// minus what earlier ticks already charged, so many short ticks and one
// long tick decay the same amount. Safe to call on every operation.
func (p *PetState) DecayTick(rates config.DecayConfig, now time.Time) {
	if p.decayAnchor.IsZero() {
		p.decayAnchor = now
		return
	}
	hours := now.Sub(p.decayAnchor).Hours()
	if hours <= 0 {
		return
	}
	p.Stats.Apply(StatDelta{
		Hunger:    -chargeDecay(&p.decayed.hunger, rates.HungerPerHour, hours),
		Happiness: -chargeDecay(&p.decayed.happiness, rates.HappinessPerHour, hours),
		Health:    -chargeDecay(&p.decayed.health, rates.HealthPerHour, hours),
		Loyalty:   -chargeDecay(&p.decayed.loyalty, rates.LoyaltyPerHour, hours),
	})
}

// chargeDecay returns the points due for the elapsed hours beyond what was
// already charged, and records them as charged.
func chargeDecay(charged *int, perHour, hours float64) int {
	total := decayPoints(perHour, hours)
	due := total - *charged
	if due <= 0 {
		return 0
	}
	*charged = total
	return due
}

// ResetDecayAnchor pins the decay anchor to the given instant and forgets
// charged points. Called after loading from the store, where elapsed
// offline time is not charged.
func (p *PetState) ResetDecayAnchor(now time.Time) {
	p.decayAnchor = now
	p.decayed = decayedPoints{}
}
