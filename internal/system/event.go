package system

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/scripting"
	"github.com/ccvpets/server/internal/world"
)

// RandomEvent is a flavor-only nudge attached to a status query: a small
// stat or coin change plus display text.
type RandomEvent struct {
	Name  string
	Text  string
	Stats world.StatDelta
	Coins int
}

// EventRoller decides whether a status query triggers a random event and
// applies its effect. The trigger probability and coin ranges come from
// config; a Lua random_event hook can replace the built-in table.
//
// Status queries for different owners run in parallel, so the rng is
// guarded by mu.
type EventRoller struct {
	cfg config.EventsConfig
	lua *scripting.Engine

	mu  sync.Mutex
	rng *rand.Rand
}

func NewEventRoller(cfg config.EventsConfig, lua *scripting.Engine, rng *rand.Rand) *EventRoller {
	return &EventRoller{cfg: cfg, lua: lua, rng: rng}
}

// Roll returns nil most of the time. When the configured chance hits, it
// mutates the pet with the event effect and returns the event.
func (r *EventRoller) Roll(pet *world.PetState) *RandomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rng.Float64() >= r.cfg.Chance {
		return nil
	}
	if r.lua != nil {
		if eff := r.lua.RandomEvent(pet.Species, pet.Name, pet.Level, pet.Coins); eff != nil {
			ev := &RandomEvent{
				Name: eff.Name,
				Text: eff.Text,
				Stats: world.StatDelta{
					Hunger:    eff.Hunger,
					Happiness: eff.Happiness,
					Health:    eff.Health,
					Loyalty:   eff.Loyalty,
				},
				Coins: eff.Coins,
			}
			r.apply(pet, ev)
			return ev
		}
	}
	ev := r.builtin(pet)
	if ev != nil {
		r.apply(pet, ev)
	}
	return ev
}

func (r *EventRoller) apply(pet *world.PetState, ev *RandomEvent) {
	pet.Stats.Apply(ev.Stats)
	pet.Coins += ev.Coins
	if pet.Coins < 0 {
		pet.Coins = 0
	}
}

func (r *EventRoller) builtin(pet *world.PetState) *RandomEvent {
	switch r.rng.Intn(4) {
	case 0:
		return &RandomEvent{
			Name:  "find_food",
			Text:  fmt.Sprintf("%s%s意外发现了食物！增加了20点饱食度。", pet.Species, pet.Name),
			Stats: world.StatDelta{Hunger: 20},
		}
	case 1:
		return &RandomEvent{
			Name:  "get_sick",
			Text:  fmt.Sprintf("不幸的是，%s%s生病了。健康值减少了15点。", pet.Species, pet.Name),
			Stats: world.StatDelta{Health: -15},
		}
	case 2:
		coins := r.coinRange(r.cfg.TreasureCoinsMin, r.cfg.TreasureCoinsMax)
		return &RandomEvent{
			Name:  "find_treasure",
			Text:  fmt.Sprintf("%s%s发现了一个宝藏，获得了 %d 金币！", pet.Species, pet.Name, coins),
			Coins: coins,
		}
	default:
		return nil // an ordinary day
	}
}

// TaskReward rolls the coin reward for a completed task.
func (r *EventRoller) TaskReward() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coinRange(r.cfg.TaskCoinsMin, r.cfg.TaskCoinsMax)
}

func (r *EventRoller) coinRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}
