package handler

import (
	"github.com/ccvpets/server/internal/system"
)

// Wire DTOs for the command API responses.

type statsResponse struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	Loyalty   int `json:"loyalty"`
}

type levelUpResponse struct {
	NewLevel  int            `json:"new_level"`
	Stats     statsResponse  `json:"stat_deltas"`
	Evolution *evolutionInfo `json:"evolution,omitempty"`
}

type evolutionInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type previewResponse struct {
	Next          string `json:"next,omitempty"`
	LevelRequired int    `json:"level_required,omitempty"`
	Terminal      bool   `json:"terminal"`
}

type eventResponse struct {
	Name  string        `json:"name"`
	Text  string        `json:"text"`
	Stats statsResponse `json:"stat_deltas"`
	Coins int           `json:"coin_delta"`
}

type cardResponse struct {
	Owner        string          `json:"owner"`
	Name         string          `json:"name"`
	Species      string          `json:"species"`
	Level        int             `json:"level"`
	Experience   float64         `json:"experience"`
	RequiredExp  float64         `json:"required_exp"`
	Coins        int             `json:"coins"`
	SkillLevel   int             `json:"skill_level"`
	Intelligence int             `json:"intelligence"`
	Stamina      int             `json:"stamina"`
	Stats        statsResponse   `json:"stats"`
	BirthDate    string          `json:"birth_date"`
	Evolution    previewResponse `json:"next_evolution"`
	CardText     string          `json:"card_text"`
	Event        *eventResponse  `json:"random_event,omitempty"`
}

type interactResponse struct {
	Action    string            `json:"action"`
	Stats     statsResponse     `json:"stat_deltas"`
	CoinDelta int               `json:"coin_delta"`
	ExpDelta  float64           `json:"exp_delta"`
	LevelUps  []levelUpResponse `json:"level_up_events"`
	Text      string            `json:"text"`
}

type checkInResponse struct {
	ExpGranted   float64           `json:"exp_granted"`
	CoinsGranted int               `json:"coins_granted"`
	LevelUps     []levelUpResponse `json:"level_up_events"`
	StatusText   string            `json:"status_text"`
}

func cardResponseFrom(c *system.PetCard) cardResponse {
	resp := cardResponse{
		Owner:        c.OwnerDisplayName,
		Name:         c.Name,
		Species:      c.Species,
		Level:        c.Level,
		Experience:   c.Experience,
		RequiredExp:  c.RequiredExp,
		Coins:        c.Coins,
		SkillLevel:   c.SkillLevel,
		Intelligence: c.Intelligence,
		Stamina:      c.Stamina,
		Stats: statsResponse{
			Hunger:    c.Stats.Hunger,
			Happiness: c.Stats.Happiness,
			Health:    c.Stats.Health,
			Loyalty:   c.Stats.Loyalty,
		},
		Evolution: previewResponse{
			Next:          c.Preview.Next,
			LevelRequired: c.Preview.LevelRequired,
			Terminal:      c.Preview.Terminal,
		},
		CardText: c.CardText,
	}
	if !c.BirthDate.IsZero() {
		resp.BirthDate = c.BirthDate.Format("2006-01-02")
	}
	if c.Event != nil {
		resp.Event = &eventResponse{
			Name: c.Event.Name,
			Text: c.Event.Text,
			Stats: statsResponse{
				Hunger:    c.Event.Stats.Hunger,
				Happiness: c.Event.Stats.Happiness,
				Health:    c.Event.Stats.Health,
				Loyalty:   c.Event.Stats.Loyalty,
			},
			Coins: c.Event.Coins,
		}
	}
	return resp
}

func levelUpsFrom(events []system.LevelUpEvent) []levelUpResponse {
	if len(events) == 0 {
		return nil
	}
	out := make([]levelUpResponse, 0, len(events))
	for _, e := range events {
		lv := levelUpResponse{
			NewLevel: e.NewLevel,
			Stats: statsResponse{
				Hunger:    e.Stats.Hunger,
				Happiness: e.Stats.Happiness,
				Health:    e.Stats.Health,
				Loyalty:   e.Stats.Loyalty,
			},
		}
		if e.Evolution != nil {
			lv.Evolution = &evolutionInfo{From: e.Evolution.From, To: e.Evolution.To}
		}
		out = append(out, lv)
	}
	return out
}

func interactResponseFrom(r *system.InteractionResult) interactResponse {
	return interactResponse{
		Action: r.Action,
		Stats: statsResponse{
			Hunger:    r.Stats.Hunger,
			Happiness: r.Stats.Happiness,
			Health:    r.Stats.Health,
			Loyalty:   r.Stats.Loyalty,
		},
		CoinDelta: r.CoinDelta,
		ExpDelta:  r.ExpDelta,
		LevelUps:  levelUpsFrom(r.LevelUps),
		Text:      r.Text,
	}
}

func checkInResponseFrom(r *system.CheckInResult) checkInResponse {
	return checkInResponse{
		ExpGranted:   r.ExpGranted,
		CoinsGranted: r.CoinsGranted,
		LevelUps:     levelUpsFrom(r.LevelUps),
		StatusText:   r.StatusText,
	}
}
