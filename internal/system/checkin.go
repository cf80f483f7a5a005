package system

import (
	"time"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/world"
)

// CheckInReward is what one successful daily check-in granted.
type CheckInReward struct {
	Exp     float64
	Coins   int
	Loyalty int
}

// DailyCheckInTracker gates the once-per-calendar-day bonus. The day is
// the service's local date, not a rolling 24h window: checking in at
// 23:59 and again at 00:01 is two days.
type DailyCheckInTracker struct {
	cfg  config.CheckInConfig
	prog *Progression
}

func NewDailyCheckInTracker(cfg config.CheckInConfig, prog *Progression) *DailyCheckInTracker {
	return &DailyCheckInTracker{cfg: cfg, prog: prog}
}

// CheckIn grants the daily reward, or rejects when today's bonus was
// already consumed. Experience can level the pet up; a pet at the cap
// still gets coins and loyalty, only the exp is discarded.
func (t *DailyCheckInTracker) CheckIn(pet *world.PetState, today time.Time) (CheckInReward, []LevelUpEvent, error) {
	if !pet.LastSignInDate.IsZero() && sameDate(pet.LastSignInDate, today) {
		return CheckInReward{}, nil, world.ErrAlreadyCheckedIn
	}

	reward := CheckInReward{Exp: t.cfg.Exp, Coins: t.cfg.Coins, Loyalty: t.cfg.Loyalty}
	events, err := t.prog.GainExperience(pet, reward.Exp)
	if err != nil {
		// Max level: the check-in still succeeds, without exp.
		reward.Exp = 0
		events = nil
	}
	pet.Coins += reward.Coins
	pet.Stats.Apply(world.StatDelta{Loyalty: reward.Loyalty})
	pet.LastSignInDate = today
	return reward, events, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
