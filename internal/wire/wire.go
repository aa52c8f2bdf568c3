// Package wire provides dependency injection for the kdiff application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/kdiff/internal/adapters/archfs"
	"github.com/example/kdiff/internal/adapters/reftool"
	"github.com/example/kdiff/internal/adapters/sqlite"
	"github.com/example/kdiff/internal/app"
	"github.com/example/kdiff/internal/config"
	"github.com/example/kdiff/internal/db"
	"github.com/example/kdiff/internal/engine/memengine"
	"github.com/example/kdiff/internal/ports/primary"
	"github.com/example/kdiff/internal/ports/secondary"
)

var (
	cfg         *config.Config
	crossValSvc primary.CrossValidationService
	archSrc     secondary.ArchSource
	ledgerRepo  secondary.LedgerRepository
	once        sync.Once
)

// Config returns the singleton harness configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// CrossValidationService returns the singleton orchestrator.
func CrossValidationService() primary.CrossValidationService {
	once.Do(initServices)
	return crossValSvc
}

// ArchSource returns the singleton architecture enumerator.
func ArchSource() secondary.ArchSource {
	once.Do(initServices)
	return archSrc
}

// LedgerRepository returns the singleton trial history repository.
func LedgerRepository() secondary.LedgerRepository {
	once.Do(initServices)
	return ledgerRepo
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	loaded, err := config.Load(".")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	cfg = loaded

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters with injected config and DB
	ledgerRepo = sqlite.NewLedgerRepository(database)
	archSrc = archfs.NewSource(cfg.Tree, memengine.SymtabName, cfg.SkipArches)
	engines := memengine.NewProvider(cfg.Tree)
	ref := reftool.NewTool(cfg)

	// Application services (primary ports implementation)
	trials := app.NewTrialRunner(cfg, ref)
	crossValSvc = app.NewOrchestrator(cfg, archSrc, engines, trials, ledgerRepo)
}
