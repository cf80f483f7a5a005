package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ccvpets/server/internal/config"
)

func TestStatsApplyClamps(t *testing.T) {
	tests := []struct {
		name  string
		start Stats
		delta StatDelta
		want  Stats
	}{
		{
			name:  "upper clamp",
			start: Stats{Hunger: 95, Happiness: 100, Health: 50, Loyalty: 20},
			delta: StatDelta{Hunger: 10, Happiness: 10, Health: 10, Loyalty: 10},
			want:  Stats{Hunger: 100, Happiness: 100, Health: 60, Loyalty: 30},
		},
		{
			name:  "lower clamp",
			start: Stats{Hunger: 3, Happiness: 0, Health: 10, Loyalty: 50},
			delta: StatDelta{Hunger: -10, Happiness: -5, Health: -10, Loyalty: -60},
			want:  Stats{Hunger: 0, Happiness: 0, Health: 0, Loyalty: 0},
		},
		{
			name:  "zero delta is identity",
			start: Stats{Hunger: 42, Happiness: 17, Health: 88, Loyalty: 1},
			delta: StatDelta{},
			want:  Stats{Hunger: 42, Happiness: 17, Health: 88, Loyalty: 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.start
			s.Apply(tc.delta)
			if s != tc.want {
				t.Fatalf("got %+v, want %+v", s, tc.want)
			}
		})
	}
}

func TestStatsStayInRangeUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := config.Defaults()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pet := NewPetState("owner-1", "小明", "黑球兽", cfg.Pet, FixedClock{T: now})
	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			pet.Stats.Apply(StatDelta{
				Hunger:    rng.Intn(61) - 30,
				Happiness: rng.Intn(61) - 30,
				Health:    rng.Intn(61) - 30,
				Loyalty:   rng.Intn(61) - 30,
			})
		} else {
			now = now.Add(time.Duration(rng.Intn(72)) * time.Hour)
			pet.DecayTick(cfg.Decay, now)
		}
		s := pet.Stats
		for _, v := range []int{s.Hunger, s.Happiness, s.Health, s.Loyalty} {
			if v < 0 || v > 100 {
				t.Fatalf("stat out of range after step %d: %+v", i, s)
			}
		}
	}
}

func TestDecayTickRates(t *testing.T) {
	cfg := config.Defaults()
	cfg.Decay = config.DecayConfig{HungerPerHour: 5, HappinessPerHour: 3, HealthPerHour: 2, LoyaltyPerHour: 0}
	clock := FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	pet := NewPetState("owner-1", "小明", "黑球兽", cfg.Pet, clock)

	pet.DecayTick(cfg.Decay, clock.T.Add(2*time.Hour))
	want := Stats{Hunger: 40, Happiness: 44, Health: 46, Loyalty: 20}
	if pet.Stats != want {
		t.Fatalf("got %+v, want %+v", pet.Stats, want)
	}
}

func TestDecayTickChargesElapsedTimeOnce(t *testing.T) {
	cfg := config.Defaults()
	clock := FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	pet := NewPetState("owner-1", "小明", "黑球兽", cfg.Pet, clock)

	later := clock.T.Add(3 * time.Hour)
	pet.DecayTick(cfg.Decay, later)
	if pet.Stats.Hunger != 35 { // 50 - 3h*5
		t.Fatalf("hunger after 3h = %d, want 35", pet.Stats.Hunger)
	}

	// Same instant again: no double decay.
	pet.DecayTick(cfg.Decay, later)
	if pet.Stats.Hunger != 35 {
		t.Fatalf("hunger after repeat tick = %d, want 35", pet.Stats.Hunger)
	}

	// Time moving backwards decays nothing.
	pet.DecayTick(cfg.Decay, later.Add(-time.Hour))
	if pet.Stats.Hunger != 35 {
		t.Fatalf("hunger after backwards tick = %d, want 35", pet.Stats.Hunger)
	}
}

func TestDecayTickCadenceIndependent(t *testing.T) {
	cfg := config.Defaults()
	clock := FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	// Polling every 5 minutes must charge the same decay as one 3h tick.
	frequent := NewPetState("owner-1", "小明", "黑球兽", cfg.Pet, clock)
	for i := 1; i <= 36; i++ {
		frequent.DecayTick(cfg.Decay, clock.T.Add(time.Duration(i)*5*time.Minute))
	}

	once := NewPetState("owner-2", "小红", "黑球兽", cfg.Pet, clock)
	once.DecayTick(cfg.Decay, clock.T.Add(3*time.Hour))

	if frequent.Stats != once.Stats {
		t.Fatalf("decay depends on polling cadence: frequent=%+v once=%+v", frequent.Stats, once.Stats)
	}
	if frequent.Stats.Hunger != 35 { // 50 - 3h*5
		t.Fatalf("hunger after 3h of 5-minute ticks = %d, want 35", frequent.Stats.Hunger)
	}
}

func TestResetDecayAnchorForgetsChargedPoints(t *testing.T) {
	cfg := config.Defaults()
	clock := FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	pet := NewPetState("owner-1", "小明", "黑球兽", cfg.Pet, clock)

	pet.DecayTick(cfg.Decay, clock.T.Add(2*time.Hour))
	if pet.Stats.Hunger != 40 {
		t.Fatalf("hunger after 2h = %d, want 40", pet.Stats.Hunger)
	}

	// A reset opens a new span: the next hour charges from the new anchor.
	pet.ResetDecayAnchor(clock.T.Add(2 * time.Hour))
	pet.DecayTick(cfg.Decay, clock.T.Add(3*time.Hour))
	if pet.Stats.Hunger != 35 {
		t.Fatalf("hunger after reset + 1h = %d, want 35", pet.Stats.Hunger)
	}
}

func TestNewPetStateDefaults(t *testing.T) {
	cfg := config.Defaults()
	clock := FixedClock{T: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
	pet := NewPetState("owner-1", "小明", "泡泡兽", cfg.Pet, clock)

	if pet.Level != 1 || pet.Coins != 1000 || pet.MaxLevel != 30 {
		t.Fatalf("unexpected defaults: level=%d coins=%d max=%d", pet.Level, pet.Coins, pet.MaxLevel)
	}
	if pet.SkillLevel != 1 || pet.Intelligence != 5 || pet.Stamina != 10 {
		t.Fatalf("unexpected derived stats: %d/%d/%d", pet.SkillLevel, pet.Intelligence, pet.Stamina)
	}
	want := Stats{Hunger: 50, Happiness: 50, Health: 50, Loyalty: 20}
	if pet.Stats != want {
		t.Fatalf("stats = %+v, want %+v", pet.Stats, want)
	}
	if !pet.BirthDate.Equal(clock.Today()) {
		t.Fatalf("birth date = %v, want %v", pet.BirthDate, clock.Today())
	}
	if !pet.LastSignInDate.IsZero() {
		t.Fatal("fresh pet must have no sign-in date")
	}
}
