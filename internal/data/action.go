package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccvpets/server/internal/world"
)

// Action names form the fixed interaction vocabulary. The delta tables are
// data, the names are code: handlers and tests refer to these constants.
const (
	ActionFeed    = "feed"
	ActionPlay    = "play"
	ActionCheckup = "checkup"
	ActionWalk    = "walk"
	ActionTrain   = "train"
	ActionBathe   = "bathe"
)

// ActionSpec is one interaction's effect: stat deltas, coin cost, and
// experience granted on success.
type ActionSpec struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"` // display name shown in replies
	Emoji     string `yaml:"emoji"`
	Hunger    int    `yaml:"hunger"`
	Happiness int    `yaml:"happiness"`
	Health    int    `yaml:"health"`
	Loyalty   int    `yaml:"loyalty"`
	Cost      int    `yaml:"cost"`
	Exp       float64 `yaml:"exp"`
}

// Delta returns the stat adjustment this action applies.
func (a *ActionSpec) Delta() world.StatDelta {
	return world.StatDelta{
		Hunger:    a.Hunger,
		Happiness: a.Happiness,
		Health:    a.Health,
		Loyalty:   a.Loyalty,
	}
}

// ActionTable maps action names to their specs. Immutable after load.
type ActionTable struct {
	actions map[string]*ActionSpec
}

type actionFile struct {
	Actions []ActionSpec `yaml:"actions"`
}

// LoadActionTable loads the interaction table from a YAML file, or the
// built-in table when path is empty. Unknown or incomplete files fail fast.
func LoadActionTable(path string) (*ActionTable, error) {
	specs := defaultActions
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read action table %s: %w", path, err)
		}
		var f actionFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse action table %s: %w", path, err)
		}
		specs = f.Actions
	}

	t := &ActionTable{actions: make(map[string]*ActionSpec, len(specs))}
	for i := range specs {
		a := &specs[i]
		if a.Name == "" {
			return nil, fmt.Errorf("action table %s: action with empty name", path)
		}
		if a.Cost < 0 {
			return nil, fmt.Errorf("action table %s: action %s has negative cost", path, a.Name)
		}
		t.actions[a.Name] = a
	}
	for _, required := range []string{ActionFeed, ActionPlay, ActionCheckup, ActionWalk, ActionTrain, ActionBathe} {
		if _, ok := t.actions[required]; !ok {
			return nil, fmt.Errorf("action table %s: missing action %q", path, required)
		}
	}
	return t, nil
}

// Get returns the spec for an action name, or nil if unknown.
func (t *ActionTable) Get(name string) *ActionSpec {
	return t.actions[name]
}

// Count returns the number of defined actions.
func (t *ActionTable) Count() int { return len(t.actions) }

// defaultActions is the shipped balance table. Operators override it with
// actions_path.
var defaultActions = []ActionSpec{
	{Name: ActionFeed, Label: "喂食", Emoji: "🍴", Hunger: 10, Happiness: 5, Loyalty: 2, Cost: 50, Exp: 2},
	{Name: ActionPlay, Label: "玩耍", Emoji: "🎉", Happiness: 15, Hunger: -5, Loyalty: 2, Cost: 50, Exp: 15},
	{Name: ActionCheckup, Label: "体检", Emoji: "🩺", Health: 10, Loyalty: 2, Cost: 50, Exp: 2},
	{Name: ActionWalk, Label: "散步", Emoji: "🚶", Happiness: 10, Health: 5, Loyalty: 2, Cost: 50, Exp: 10},
	{Name: ActionTrain, Label: "训练", Emoji: "🏋️", Happiness: -5, Health: 10, Loyalty: 2, Cost: 50, Exp: 15},
	{Name: ActionBathe, Label: "洗澡", Emoji: "🛁", Happiness: -10, Health: 10, Loyalty: 2, Cost: 50, Exp: 2},
}
