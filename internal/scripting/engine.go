package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for game-balance hooks. The LState
// is not safe for concurrent use and hooks are reached from parallel
// per-owner operations, so every call is serialized by mu.
//
// Recognized globals, all optional:
//
//	required_exp(level)  -> number   override the exp curve
//	random_event(pet)    -> table    {name, text, hunger, happiness,
//	                                  health, loyalty, coins}
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all .lua files from the given
// directory. A missing directory is not an error; every hook has a Go
// built-in fallback.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}

// RequiredExp calls Lua required_exp(level). The second return value is
// false when no override is defined and the built-in curve should be used.
func (e *Engine) RequiredExp(level int) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("required_exp")
	if fn == lua.LNil {
		return 0, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(level)); err != nil {
		e.log.Error("lua required_exp error", zap.Error(err), zap.Int("level", level))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return float64(n), true
}

// EventEffect holds the payload of a scripted random event.
type EventEffect struct {
	Name      string
	Text      string
	Hunger    int
	Happiness int
	Health    int
	Loyalty   int
	Coins     int
}

// RandomEvent calls Lua random_event with a read-only snapshot of the pet.
// Returns nil when no script is defined or the script declines (returns
// nil), in which case the built-in event table applies.
func (e *Engine) RandomEvent(species, name string, level, coins int) *EventEffect {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("random_event")
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("species", lua.LString(species))
	t.RawSetString("name", lua.LString(name))
	t.RawSetString("level", lua.LNumber(level))
	t.RawSetString("coins", lua.LNumber(coins))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua random_event error", zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}
	return &EventEffect{
		Name:      lua.LVAsString(rt.RawGetString("name")),
		Text:      lua.LVAsString(rt.RawGetString("text")),
		Hunger:    lInt(rt, "hunger"),
		Happiness: lInt(rt, "happiness"),
		Health:    lInt(rt, "health"),
		Loyalty:   lInt(rt, "loyalty"),
		Coins:     lInt(rt, "coins"),
	}
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}
