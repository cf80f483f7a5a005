package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newEngineWith(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		if err := os.WriteFile(filepath.Join(dir, "hooks.lua"), []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestMissingScriptsDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing dir must not fail: %v", err)
	}
	defer e.Close()

	if _, ok := e.RequiredExp(1); ok {
		t.Fatal("no scripts loaded, hook must decline")
	}
	if ev := e.RandomEvent("亚古兽", "球球", 3, 100); ev != nil {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestRequiredExpOverride(t *testing.T) {
	e := newEngineWith(t, `
function required_exp(level)
    return level * 50
end
`)
	got, ok := e.RequiredExp(4)
	if !ok {
		t.Fatal("override not picked up")
	}
	if got != 200 {
		t.Fatalf("required_exp(4) = %v, want 200", got)
	}
}

func TestRequiredExpNonNumberDeclines(t *testing.T) {
	e := newEngineWith(t, `
function required_exp(level)
    return "lots"
end
`)
	if _, ok := e.RequiredExp(1); ok {
		t.Fatal("non-number result must fall back to the built-in curve")
	}
}

func TestRandomEventHook(t *testing.T) {
	e := newEngineWith(t, `
function random_event(pet)
    if pet.level < 5 then
        return nil
    end
    return {
        name = "storm",
        text = pet.species .. pet.name .. " 遇到了暴风雨！",
        health = -10,
        coins = 5,
    }
end
`)
	if ev := e.RandomEvent("亚古兽", "球球", 3, 100); ev != nil {
		t.Fatalf("script should decline below level 5, got %+v", ev)
	}

	ev := e.RandomEvent("亚古兽", "球球", 7, 100)
	if ev == nil {
		t.Fatal("script should fire at level 7")
	}
	if ev.Name != "storm" || ev.Health != -10 || ev.Coins != 5 {
		t.Fatalf("effect = %+v", ev)
	}
	if ev.Text != "亚古兽球球 遇到了暴风雨！" {
		t.Fatalf("text = %q", ev.Text)
	}
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("syntax error must fail engine construction")
	}
}

func TestScriptErrorAtCallTimeDeclines(t *testing.T) {
	e := newEngineWith(t, `
function required_exp(level)
    error("boom")
end
`)
	if _, ok := e.RequiredExp(1); ok {
		t.Fatal("runtime error must decline, not panic")
	}
}
