package system

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/data"
	"github.com/ccvpets/server/internal/persist"
	"github.com/ccvpets/server/internal/world"
)

// Registry orchestrates the pet engines into the public command API. It
// owns the in-memory collection and guarantees at most one in-flight
// mutation per owner; operations on different owners run in parallel.
//
// Locking: mutations hold the owner's lock plus stateMu.RLock, so two
// owners never contend. Snapshots for whole-collection saves take
// stateMu.Lock and therefore see quiescent state.
type Registry struct {
	cfg   *config.Config
	log   *zap.Logger
	clock world.Clock
	store persist.Store

	species *data.SpeciesGraph
	actions *data.ActionTable
	prog    *Progression
	gate    *InteractionGate
	checkin *DailyCheckInTracker
	events  *EventRoller

	rng *rand.Rand // adoption species pick

	stateMu sync.RWMutex
	pets    map[string]*world.PetState

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// InteractionResult reports a successful interaction: what changed and any
// level-ups it caused.
type InteractionResult struct {
	Action    string
	Label     string
	Stats     world.StatDelta
	CoinDelta int
	ExpDelta  float64
	LevelUps  []LevelUpEvent
	Text      string
}

// CheckInResult reports a successful daily check-in.
type CheckInResult struct {
	ExpGranted   float64
	CoinsGranted int
	LevelUps     []LevelUpEvent
	StatusText   string
}

// TaskResult reports a completed task (coin reward).
type TaskResult struct {
	Coins int
	Text  string
}

func NewRegistry(
	cfg *config.Config,
	log *zap.Logger,
	clock world.Clock,
	store persist.Store,
	species *data.SpeciesGraph,
	actions *data.ActionTable,
	prog *Progression,
	events *EventRoller,
	rng *rand.Rand,
) *Registry {
	return &Registry{
		cfg:     cfg,
		log:     log,
		clock:   clock,
		store:   store,
		species: species,
		actions: actions,
		prog:    prog,
		gate:    NewInteractionGate(cfg.Interaction),
		checkin: NewDailyCheckInTracker(cfg.CheckIn, prog),
		events:  events,
		rng:     rng,
		pets:    make(map[string]*world.PetState),
		locks:   make(map[string]*sync.Mutex),
	}
}

// LoadAll populates the registry from the store. Offline time is not
// charged as decay: the anchor resets to now.
func (r *Registry) LoadAll(ctx context.Context) error {
	pets, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	now := r.clock.Now()
	for _, p := range pets {
		p.ResetDecayAnchor(now)
	}
	r.stateMu.Lock()
	r.pets = pets
	r.stateMu.Unlock()
	return nil
}

// Count returns the number of adopted pets.
func (r *Registry) Count() int {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return len(r.pets)
}

func (r *Registry) ownerLock(ownerID string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[ownerID] = l
	}
	return l
}

// Adopt creates a pet of a uniformly random root species for the owner.
// Re-adoption is rejected and reports the existing species.
func (r *Registry) Adopt(ctx context.Context, ownerID, displayName string) (*PetCard, error) {
	l := r.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	r.stateMu.Lock()
	if existing, ok := r.pets[ownerID]; ok {
		r.stateMu.Unlock()
		return nil, &world.AlreadyAdoptedError{Species: existing.Species}
	}
	roots := r.species.Roots()
	species := roots[r.rng.Intn(len(roots))]
	pet := world.NewPetState(ownerID, displayName, species, r.cfg.Pet, r.clock)
	r.pets[ownerID] = pet
	r.stateMu.Unlock()

	if err := r.save(ctx); err != nil {
		// Adoption is only durable once saved; undo so a retry starts clean.
		r.stateMu.Lock()
		delete(r.pets, ownerID)
		r.stateMu.Unlock()
		return nil, err
	}

	r.log.Info("pet adopted",
		zap.String("owner", ownerID),
		zap.String("species", species))
	card := r.card(pet, nil)
	return card, nil
}

// Rename sets the pet's name. Names are trimmed and NFC-normalized; empty
// and over-long names are rejected.
func (r *Registry) Rename(ctx context.Context, ownerID, name string) (*world.PetState, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return nil, world.ErrEmptyName
	}
	if max := r.cfg.Pet.MaxNameRunes; max > 0 && len([]rune(name)) > max {
		return nil, world.ErrNameTooLong
	}

	var snapshot world.PetState
	err := r.mutate(ownerID, func(pet *world.PetState) error {
		pet.Name = name
		snapshot = *pet
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.saveSoft(ctx, "rename")
	return &snapshot, nil
}

// Interact performs one action from the fixed vocabulary against the
// owner's pet. Insufficient coins reject without touching state or quota.
func (r *Registry) Interact(ctx context.Context, ownerID, action string) (*InteractionResult, error) {
	spec := r.actions.Get(action)
	if spec == nil {
		return nil, world.ErrUnknownAction
	}

	var result *InteractionResult
	err := r.mutate(ownerID, func(pet *world.PetState) error {
		now := r.clock.Now()
		if err := r.gate.Check(pet, now); err != nil {
			return err
		}
		if pet.Coins < spec.Cost {
			return world.ErrInsufficientFunds
		}

		pet.Coins -= spec.Cost
		pet.Stats.Apply(spec.Delta())
		levelUps, err := r.prog.GainExperience(pet, spec.Exp)
		if err != nil {
			levelUps = nil // at the cap the action still succeeds, exp is lost
		}
		r.gate.Consume(pet, now)

		result = &InteractionResult{
			Action:    spec.Name,
			Label:     spec.Label,
			Stats:     spec.Delta(),
			CoinDelta: -spec.Cost,
			ExpDelta:  spec.Exp,
			LevelUps:  levelUps,
			Text:      interactionText(pet, spec, levelUps),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.saveSoft(ctx, "interact")
	return result, nil
}

// CheckIn grants the once-per-day bonus.
func (r *Registry) CheckIn(ctx context.Context, ownerID string) (*CheckInResult, error) {
	var result *CheckInResult
	err := r.mutate(ownerID, func(pet *world.PetState) error {
		reward, levelUps, err := r.checkin.CheckIn(pet, r.clock.Today())
		if err != nil {
			return err
		}
		result = &CheckInResult{
			ExpGranted:   reward.Exp,
			CoinsGranted: reward.Coins,
			LevelUps:     levelUps,
			StatusText:   statusLine(pet),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.saveSoft(ctx, "check_in")
	return result, nil
}

// CompleteTask rewards the pet with a random coin amount.
func (r *Registry) CompleteTask(ctx context.Context, ownerID string) (*TaskResult, error) {
	var result *TaskResult
	err := r.mutate(ownerID, func(pet *world.PetState) error {
		coins := r.events.TaskReward()
		pet.Coins += coins
		result = &TaskResult{Coins: coins, Text: taskText(pet, coins)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.saveSoft(ctx, "task")
	return result, nil
}

// Status returns the pet card. It may probabilistically attach a random
// event, which is the only way a read mutates state (plus lazy decay).
func (r *Registry) Status(ctx context.Context, ownerID string) (*PetCard, error) {
	var card *PetCard
	changed := false
	err := r.mutate(ownerID, func(pet *world.PetState) error {
		before := pet.Stats
		ev := r.events.Roll(pet)
		changed = ev != nil || before != pet.Stats
		card = r.card(pet, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		r.saveSoft(ctx, "status")
	}
	return card, nil
}

// mutate runs fn against the owner's pet under the owner lock, applying
// the lazy decay tick first. Returns ErrNotAdopted for unknown owners.
func (r *Registry) mutate(ownerID string, fn func(*world.PetState) error) error {
	l := r.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	pet, ok := r.pets[ownerID]
	if !ok {
		return world.ErrNotAdopted
	}
	pet.DecayTick(r.cfg.Decay, r.clock.Now())
	return fn(pet)
}

// save writes the whole collection. Snapshots under the exclusive lock so
// concurrent owner mutations cannot tear a record.
func (r *Registry) save(ctx context.Context) error {
	r.stateMu.Lock()
	snapshot := make(map[string]*world.PetState, len(r.pets))
	for id, p := range r.pets {
		cp := *p
		snapshot[id] = &cp
	}
	r.stateMu.Unlock()
	return r.store.Save(ctx, snapshot)
}

// saveSoft saves and logs failures instead of failing the operation: the
// mutation already happened in memory and the next save will retry.
func (r *Registry) saveSoft(ctx context.Context, op string) {
	if err := r.save(ctx); err != nil {
		r.log.Warn("pet save failed", zap.String("op", op), zap.Error(err))
	}
}

// Tick applies the decay tick to every pet and saves. Wired to the
// autosave interval when one is configured.
func (r *Registry) Tick(ctx context.Context) {
	now := r.clock.Now()
	r.stateMu.Lock()
	for _, p := range r.pets {
		p.DecayTick(r.cfg.Decay, now)
	}
	r.stateMu.Unlock()
	r.saveSoft(ctx, "tick")
}

// SaveAll persists the collection immediately; called on shutdown.
func (r *Registry) SaveAll(ctx context.Context) error {
	return r.save(ctx)
}
