package persist

import (
	"time"

	"github.com/ccvpets/server/internal/world"
)

// Date/time wire formats. Calendar dates serialize without a time part;
// instants as RFC 3339.
const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// defaultMaxLevel matches the schema default; records written before the
// max_level field existed load with it.
const defaultMaxLevel = 30

// petRecord is the flat persisted schema of one pet, shared by the file
// and postgres stores. The owner id is the collection key, "owner" is the
// display name.
type petRecord struct {
	Name                   string      `json:"name"`
	Owner                  string      `json:"owner"`
	Species                string      `json:"species"`
	BirthDate              string      `json:"birth_date"`
	Level                  int         `json:"level"`
	Experience             float64     `json:"experience"`
	Coins                  int         `json:"coins"`
	MaxLevel               int         `json:"max_level"`
	SkillLevel             int         `json:"skill_level"`
	Intelligence           int         `json:"intelligence"`
	Stamina                int         `json:"stamina"`
	Stats                  statsRecord `json:"stats"`
	LastInteractionTime    *string     `json:"last_interaction_time"`
	LastSignInDate         *string     `json:"last_sign_in_date"`
	InteractionWindowStart *string     `json:"interaction_window_start"`
}

type statsRecord struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	Loyalty   int `json:"loyalty"`
}

func toRecord(p *world.PetState) petRecord {
	return petRecord{
		Name:                   p.Name,
		Owner:                  p.OwnerDisplayName,
		Species:                p.Species,
		BirthDate:              formatDate(p.BirthDate),
		Level:                  p.Level,
		Experience:             p.Experience,
		Coins:                  p.Coins,
		MaxLevel:               p.MaxLevel,
		SkillLevel:             p.SkillLevel,
		Intelligence:           p.Intelligence,
		Stamina:                p.Stamina,
		Stats: statsRecord{
			Hunger:    p.Stats.Hunger,
			Happiness: p.Stats.Happiness,
			Health:    p.Stats.Health,
			Loyalty:   p.Stats.Loyalty,
		},
		LastInteractionTime:    formatTimePtr(p.LastInteractionTime),
		LastSignInDate:         formatDatePtr(p.LastSignInDate),
		InteractionWindowStart: formatTimePtr(p.InteractionWindowStart),
	}
}

// fromRecord rebuilds a PetState. Absent optional fields fall back to type
// defaults; stats are clamped back into range in case the file was edited
// by hand.
func fromRecord(ownerID string, r petRecord) *world.PetState {
	p := &world.PetState{
		OwnerID:          ownerID,
		Name:             r.Name,
		OwnerDisplayName: r.Owner,
		Species:          r.Species,
		Level:            r.Level,
		Experience:       r.Experience,
		Coins:            r.Coins,
		BirthDate:        parseDate(r.BirthDate),
		MaxLevel:         r.MaxLevel,
		SkillLevel:       r.SkillLevel,
		Intelligence:     r.Intelligence,
		Stamina:          r.Stamina,
		Stats: world.Stats{
			Hunger:    r.Stats.Hunger,
			Happiness: r.Stats.Happiness,
			Health:    r.Stats.Health,
			Loyalty:   r.Stats.Loyalty,
		},
		LastInteractionTime:    parseTimePtr(r.LastInteractionTime),
		LastSignInDate:         parseDatePtr(r.LastSignInDate),
		InteractionWindowStart: parseTimePtr(r.InteractionWindowStart),
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.MaxLevel <= 0 {
		p.MaxLevel = defaultMaxLevel
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	if p.Coins < 0 {
		p.Coins = 0
	}
	p.Stats.Apply(world.StatDelta{}) // clamp only
	return p
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDatePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTimePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDatePtr(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	return parseDate(*s)
}

func parseTimePtr(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}
