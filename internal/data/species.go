package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ccvpets/server/internal/world"
)

// Evolution is one outgoing edge of the species graph: the stage a species
// turns into and the level required to get there.
type Evolution struct {
	Next          string
	LevelRequired int
}

// SpeciesGraph is the static evolution forest, immutable after load.
// Roots (species that are never an evolution target) form the adoption
// pool; species with no outgoing edge are final forms.
type SpeciesGraph struct {
	edges map[string]Evolution
	roots []string
}

type speciesRoute struct {
	Species string `yaml:"species"`
	Next    string `yaml:"next"`
	Level   int    `yaml:"level"`
}

type speciesFile struct {
	Routes []speciesRoute `yaml:"routes"`
}

// LoadSpeciesGraph loads evolution routes from a YAML file. An empty path
// selects the built-in table. Malformed data is fatal at startup; there
// is no sensible fallback for a broken evolution tree.
func LoadSpeciesGraph(path string) (*SpeciesGraph, error) {
	if path == "" {
		return newSpeciesGraph(defaultRoutes)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read species routes %s: %w", path, err)
	}
	var f speciesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse species routes %s: %w", path, err)
	}
	g, err := newSpeciesGraph(f.Routes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func newSpeciesGraph(routes []speciesRoute) (*SpeciesGraph, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: no routes defined", world.ErrInvalidSpeciesConfig)
	}
	edges := make(map[string]Evolution, len(routes))
	targets := make(map[string]bool, len(routes))
	for _, r := range routes {
		if r.Species == "" || r.Next == "" {
			return nil, fmt.Errorf("%w: route with empty species name", world.ErrInvalidSpeciesConfig)
		}
		if r.Level < 1 {
			return nil, fmt.Errorf("%w: route %s -> %s has level %d", world.ErrInvalidSpeciesConfig, r.Species, r.Next, r.Level)
		}
		if _, dup := edges[r.Species]; dup {
			return nil, fmt.Errorf("%w: duplicate route for %s", world.ErrInvalidSpeciesConfig, r.Species)
		}
		edges[r.Species] = Evolution{Next: r.Next, LevelRequired: r.Level}
		targets[r.Next] = true
	}

	// Forward-only walk from every node must terminate. Reject cycles.
	for start := range edges {
		seen := map[string]bool{start: true}
		cur := start
		for {
			e, ok := edges[cur]
			if !ok {
				break
			}
			if seen[e.Next] {
				return nil, fmt.Errorf("%w: cycle through %s", world.ErrInvalidSpeciesConfig, e.Next)
			}
			seen[e.Next] = true
			cur = e.Next
		}
	}

	var roots []string
	for sp := range edges {
		if !targets[sp] {
			roots = append(roots, sp)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no adoption-eligible root species", world.ErrInvalidSpeciesConfig)
	}
	sort.Strings(roots) // deterministic adoption pool order
	return &SpeciesGraph{edges: edges, roots: roots}, nil
}

// Roots returns the adoption pool: species that are never themselves an
// evolution target. The returned slice must not be modified.
func (g *SpeciesGraph) Roots() []string {
	return g.roots
}

// Next returns the outgoing evolution edge for a species, if any. A false
// result means the species is a final form.
func (g *SpeciesGraph) Next(species string) (Evolution, bool) {
	e, ok := g.edges[species]
	return e, ok
}

// Known reports whether the species appears in the graph at all, either
// as a route source or as a terminal target.
func (g *SpeciesGraph) Known(species string) bool {
	if _, ok := g.edges[species]; ok {
		return true
	}
	for _, e := range g.edges {
		if e.Next == species {
			return true
		}
	}
	return false
}

// defaultRoutes is the shipped evolution table: three Digimon-style lines
// within the level-30 cap. Operators override it with species_path.
var defaultRoutes = []speciesRoute{
	{Species: "黑球兽", Next: "亚古兽", Level: 5},
	{Species: "亚古兽", Next: "暴龙兽", Level: 15},
	{Species: "暴龙兽", Next: "机械暴龙兽", Level: 25},
	{Species: "绒球兽", Next: "加布兽", Level: 5},
	{Species: "加布兽", Next: "加鲁鲁兽", Level: 15},
	{Species: "加鲁鲁兽", Next: "兽人加鲁鲁", Level: 25},
	{Species: "泡泡兽", Next: "哥玛兽", Level: 5},
	{Species: "哥玛兽", Next: "海狮兽", Level: 15},
	{Species: "海狮兽", Next: "祖顿兽", Level: 25},
}
