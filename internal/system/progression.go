package system

import (
	"math"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/data"
	"github.com/ccvpets/server/internal/scripting"
	"github.com/ccvpets/server/internal/world"
)

// EvolutionEvent records a species transition that happened during a
// level-up.
type EvolutionEvent struct {
	From string
	To   string
}

// EvolutionPreview is the display-only "what comes next" line: either the
// pending threshold or the terminal marker.
type EvolutionPreview struct {
	Next          string
	LevelRequired int
	Terminal      bool
}

// LevelUpEvent describes one level gained: the new level, the stat bonus
// applied, and the evolution it triggered, if any.
type LevelUpEvent struct {
	NewLevel  int
	Stats     world.StatDelta
	Evolution *EvolutionEvent
}

// Level-up bonuses: fixed per-level increments.
const (
	skillPerLevel        = 3
	intelligencePerLevel = 5
	staminaPerLevel      = 8
	statPointsPerLevel   = 10
)

// Progression owns the experience curve and the level-up/evolution loop.
type Progression struct {
	cfg     config.PetConfig
	species *data.SpeciesGraph
	lua     *scripting.Engine // optional exp-curve override
}

func NewProgression(cfg config.PetConfig, species *data.SpeciesGraph, lua *scripting.Engine) *Progression {
	return &Progression{cfg: cfg, species: species, lua: lua}
}

// RequiredExp returns the experience needed to clear the given level.
// Always recomputed, never stored alongside the pet.
func (p *Progression) RequiredExp(level int) float64 {
	if p.lua != nil {
		if v, ok := p.lua.RequiredExp(level); ok {
			return v
		}
	}
	return p.cfg.ExpBase * math.Pow(p.cfg.ExpGrowth, float64(level-1))
}

// GainExperience adds experience and resolves every pending level-up in
// order. Each level gained evaluates evolution once, so a multi-level gain
// cannot skip an intermediate threshold. At the level cap the gain is
// rejected outright.
func (p *Progression) GainExperience(pet *world.PetState, amount float64) ([]LevelUpEvent, error) {
	if pet.Level >= p.cfg.MaxLevel {
		return nil, world.ErrMaxLevelReached
	}
	pet.Experience += amount

	var events []LevelUpEvent
	for pet.Experience >= p.RequiredExp(pet.Level) && pet.Level < p.cfg.MaxLevel {
		pet.Experience -= p.RequiredExp(pet.Level)
		events = append(events, p.levelUp(pet))
	}
	return events, nil
}

func (p *Progression) levelUp(pet *world.PetState) LevelUpEvent {
	pet.Level++
	pet.SkillLevel += skillPerLevel
	pet.Intelligence += intelligencePerLevel
	pet.Stamina += staminaPerLevel

	bonus := world.StatDelta{
		Hunger:    statPointsPerLevel,
		Happiness: statPointsPerLevel,
		Health:    statPointsPerLevel,
		Loyalty:   statPointsPerLevel,
	}
	pet.Stats.Apply(bonus)

	return LevelUpEvent{
		NewLevel:  pet.Level,
		Stats:     bonus,
		Evolution: p.CheckEvolution(pet),
	}
}

// CheckEvolution advances the pet one step along the species graph when
// its level has reached the current edge's requirement. One call advances
// at most one step; the level-up loop calls it once per level gained.
func (p *Progression) CheckEvolution(pet *world.PetState) *EvolutionEvent {
	edge, ok := p.species.Next(pet.Species)
	if !ok || pet.Level < edge.LevelRequired {
		return nil
	}
	ev := &EvolutionEvent{From: pet.Species, To: edge.Next}
	pet.Species = edge.Next
	return ev
}

// Preview reports the pet's next evolution threshold for display, or the
// terminal marker when the pet is in its final form.
func (p *Progression) Preview(pet *world.PetState) EvolutionPreview {
	edge, ok := p.species.Next(pet.Species)
	if !ok {
		return EvolutionPreview{Terminal: true}
	}
	return EvolutionPreview{Next: edge.Next, LevelRequired: edge.LevelRequired}
}
