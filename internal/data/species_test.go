package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccvpets/server/internal/world"
)

func writeRoutes(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "species.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSpeciesGraphBuiltins(t *testing.T) {
	g, err := LoadSpeciesGraph("")
	if err != nil {
		t.Fatalf("load builtin graph: %v", err)
	}
	roots := g.Roots()
	if len(roots) != 3 {
		t.Fatalf("want 3 roots, got %v", roots)
	}
	for _, root := range roots {
		if _, ok := g.Next(root); !ok {
			t.Fatalf("root %s has no evolution edge", root)
		}
	}
	// Walk one full line to its terminal form.
	cur := "黑球兽"
	steps := 0
	for {
		e, ok := g.Next(cur)
		if !ok {
			break
		}
		cur = e.Next
		steps++
	}
	if steps != 3 || cur != "机械暴龙兽" {
		t.Fatalf("walked %d steps to %s", steps, cur)
	}
	if !g.Known(cur) {
		t.Fatalf("terminal species %s should be known", cur)
	}
}

func TestLoadSpeciesGraphFromFile(t *testing.T) {
	path := writeRoutes(t, `
routes:
  - {species: slime, next: king slime, level: 10}
  - {species: imp, next: demon, level: 12}
`)
	g, err := LoadSpeciesGraph(path)
	if err != nil {
		t.Fatalf("load graph: %v", err)
	}
	roots := g.Roots()
	if len(roots) != 2 || roots[0] != "imp" || roots[1] != "slime" {
		t.Fatalf("roots = %v", roots)
	}
	e, ok := g.Next("slime")
	if !ok || e.Next != "king slime" || e.LevelRequired != 10 {
		t.Fatalf("edge = %+v ok=%v", e, ok)
	}
	if _, ok := g.Next("king slime"); ok {
		t.Fatal("king slime should be terminal")
	}
}

func TestLoadSpeciesGraphRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "routes: []"},
		{"cycle", `
routes:
  - {species: a, next: b, level: 2}
  - {species: b, next: a, level: 3}
`},
		{"self cycle", `
routes:
  - {species: a, next: a, level: 2}
`},
		{"three-node cycle", `
routes:
  - {species: a, next: b, level: 2}
  - {species: c, next: a, level: 2}
  - {species: b, next: c, level: 2}
`},
		{"zero level", `
routes:
  - {species: a, next: b, level: 0}
`},
		{"empty name", `
routes:
  - {species: "", next: b, level: 2}
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRoutes(t, tc.yaml)
			_, err := LoadSpeciesGraph(path)
			if !errors.Is(err, world.ErrInvalidSpeciesConfig) {
				t.Fatalf("want ErrInvalidSpeciesConfig, got %v", err)
			}
		})
	}
}

func TestLoadSpeciesGraphMissingFileIsFatal(t *testing.T) {
	if _, err := LoadSpeciesGraph(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error for missing explicit path")
	}
}
