package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Pet.MaxLevel != 30 || cfg.Pet.ExpBase != 100 || cfg.Pet.ExpGrowth != 1.2 {
		t.Fatalf("pet defaults = %+v", cfg.Pet)
	}
	if cfg.Interaction.Window != 15*time.Minute || cfg.Interaction.MaxActions != 3 {
		t.Fatalf("interaction defaults = %+v", cfg.Interaction)
	}
	if cfg.Persistence.Driver != "file" {
		t.Fatalf("driver = %q", cfg.Persistence.Driver)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpets.toml")
	doc := `
[server]
bind_address = "0.0.0.0:9000"

[pet]
max_level = 50
starting_coins = 500

[interaction]
window = "10m"
max_actions = 5

[persistence]
driver = "postgres"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BindAddress != "0.0.0.0:9000" {
		t.Fatalf("bind = %q", cfg.Server.BindAddress)
	}
	if cfg.Pet.MaxLevel != 50 || cfg.Pet.StartingCoins != 500 {
		t.Fatalf("pet = %+v", cfg.Pet)
	}
	if cfg.Interaction.Window != 10*time.Minute || cfg.Interaction.MaxActions != 5 {
		t.Fatalf("interaction = %+v", cfg.Interaction)
	}
	if cfg.Persistence.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.Persistence.Driver)
	}
	// Untouched sections keep their defaults.
	if cfg.Pet.ExpGrowth != 1.2 || cfg.CheckIn.Coins != 20 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpets.toml")
	if err := os.WriteFile(path, []byte("[[broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file must error")
	}
}
