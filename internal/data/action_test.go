package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ccvpets/server/internal/world"
)

func TestLoadActionTableBuiltins(t *testing.T) {
	tbl, err := LoadActionTable("")
	if err != nil {
		t.Fatalf("load builtin actions: %v", err)
	}
	if tbl.Count() != 6 {
		t.Fatalf("want 6 actions, got %d", tbl.Count())
	}

	feed := tbl.Get(ActionFeed)
	if feed == nil {
		t.Fatal("feed action missing")
	}
	if feed.Cost != 50 || feed.Exp != 2 {
		t.Fatalf("feed cost/exp = %d/%v", feed.Cost, feed.Exp)
	}
	want := world.StatDelta{Hunger: 10, Happiness: 5, Loyalty: 2}
	if feed.Delta() != want {
		t.Fatalf("feed delta = %+v, want %+v", feed.Delta(), want)
	}

	train := tbl.Get(ActionTrain)
	if train.Delta().Happiness != -5 || train.Delta().Health != 10 {
		t.Fatalf("train delta = %+v", train.Delta())
	}

	if tbl.Get("cuddle") != nil {
		t.Fatal("unknown action should be nil")
	}
}

func TestLoadActionTableRejectsIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	err := os.WriteFile(path, []byte(`
actions:
  - {name: feed, label: 喂食, hunger: 10, cost: 50, exp: 2}
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadActionTable(path); err == nil {
		t.Fatal("want error for table missing required actions")
	}
}

func TestLoadActionTableOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	err := os.WriteFile(path, []byte(`
actions:
  - {name: feed, label: 喂食, hunger: 20, cost: 10, exp: 1}
  - {name: play, label: 玩耍, happiness: 15, cost: 10, exp: 1}
  - {name: checkup, label: 体检, health: 10, cost: 10, exp: 1}
  - {name: walk, label: 散步, happiness: 10, cost: 10, exp: 1}
  - {name: train, label: 训练, health: 10, cost: 10, exp: 1}
  - {name: bathe, label: 洗澡, health: 10, cost: 10, exp: 1}
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadActionTable(path)
	if err != nil {
		t.Fatalf("load override: %v", err)
	}
	if feed := tbl.Get(ActionFeed); feed.Hunger != 20 || feed.Cost != 10 {
		t.Fatalf("override not applied: %+v", feed)
	}
}
