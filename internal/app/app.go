// Package app provides application-level wiring and dependency injection
// for the governance service following hexagonal architecture.
package app

import (
	"database/sql"
	"log/slog"

	"clingov/internal/config"
	"clingov/internal/db/repository"
	"clingov/internal/service/governance"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create
// itself: database handles and config.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler, router,
// and background jobs need.
type Services struct {
	Quality  *governance.QualityService
	Contract *governance.ContractService
	Lineage  *governance.LineageService
}

// App holds the fully-wired application.
type App struct {
	Services Services
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	// Inserts serialize on the single-connection write pool; list and
	// traversal queries ride the read pool so WAL readers run
	// concurrently with the writer.
	eventRepo := repository.NewLineageEventRepo(deps.WriteDB, deps.ReadDB)
	reportRepo := repository.NewQualityReportRepo(deps.WriteDB, deps.ReadDB)
	resultRepo := repository.NewContractResultRepo(deps.WriteDB, deps.ReadDB)

	lineageSvc := governance.NewLineageService(eventRepo, deps.Logger.With("component", "lineage"))
	qualitySvc := governance.NewQualityService(reportRepo, eventRepo, deps.Logger.With("component", "quality"))
	contractSvc := governance.NewContractService(resultRepo, deps.Logger.With("component", "contract"))

	return &App{
		Services: Services{
			Quality:  qualitySvc,
			Contract: contractSvc,
			Lineage:  lineageSvc,
		},
	}
}
