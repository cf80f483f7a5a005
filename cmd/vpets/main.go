package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ccvpets/server/internal/config"
	"github.com/ccvpets/server/internal/data"
	"github.com/ccvpets/server/internal/handler"
	"github.com/ccvpets/server/internal/persist"
	"github.com/ccvpets/server/internal/scripting"
	"github.com/ccvpets/server/internal/system"
	"github.com/ccvpets/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/vpets.toml"
	if p := os.Getenv("VPETS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Defaults() // no config file = defaults
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load static tables; malformed data is fatal, not recoverable
	species, err := data.LoadSpeciesGraph(cfg.Server.SpeciesPath)
	if err != nil {
		return fmt.Errorf("species graph: %w", err)
	}
	log.Info("species graph loaded", zap.Int("roots", len(species.Roots())))

	actions, err := data.LoadActionTable(cfg.Server.ActionsPath)
	if err != nil {
		return fmt.Errorf("action table: %w", err)
	}
	log.Info("action table loaded", zap.Int("actions", actions.Count()))

	// 4. Lua hooks (optional)
	var lua *scripting.Engine
	if cfg.Server.ScriptsDir != "" {
		lua, err = scripting.NewEngine(cfg.Server.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer lua.Close()
		log.Info("lua scripts loaded", zap.String("dir", cfg.Server.ScriptsDir))
	}

	// 5. Open the pet store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 6. Wire the engine. Roller and registry get separate rng sources:
	// the roller rolls from parallel status queries, the registry only
	// from adoption.
	clock := world.SystemClock{}
	seed := time.Now().UnixNano()
	prog := system.NewProgression(cfg.Pet, species, lua)
	events := system.NewEventRoller(cfg.Events, lua, rand.New(rand.NewSource(seed)))
	registry := system.NewRegistry(cfg, log, clock, store, species, actions, prog, events, rand.New(rand.NewSource(seed+1)))

	if err := registry.LoadAll(ctx); err != nil {
		return fmt.Errorf("load pets: %w", err)
	}
	log.Info("pets loaded", zap.Int("count", registry.Count()))

	// 7. Autosave/decay ticker
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interval := cfg.Persistence.AutosaveInterval; interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-rootCtx.Done():
					return
				case <-ticker.C:
					registry.Tick(rootCtx)
				}
			}
		}()
	}

	// 8. Serve the command API
	srv := &http.Server{
		Addr:         cfg.Server.BindAddress,
		Handler:      handler.NewServer(registry, log).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.BindAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-rootCtx.Done():
	}

	// 9. Graceful shutdown: stop accepting, then a final save
	log.Info("shutting down")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	if err := registry.SaveAll(shutCtx); err != nil {
		log.Error("final save failed", zap.Error(err))
	}
	return nil
}

// openStore selects the persistence driver from config.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Store, func(), error) {
	switch cfg.Persistence.Driver {
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("postgres store ready")
		return persist.NewPgStore(db), db.Close, nil
	case "file", "":
		log.Info("file store ready", zap.String("path", cfg.Persistence.FilePath))
		return persist.NewFileStore(cfg.Persistence.FilePath, log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
