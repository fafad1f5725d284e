// Package api provides HTTP handlers for the governance REST API.
package api

import (
	"log/slog"

	"clingov/internal/service/governance"
)

// Handler serves the governance REST API.
type Handler struct {
	quality   *governance.QualityService
	contracts *governance.ContractService
	lineage   *governance.LineageService
	logger    *slog.Logger
}

// NewHandler creates a new Handler with all required service dependencies.
func NewHandler(
	quality *governance.QualityService,
	contracts *governance.ContractService,
	lineage *governance.LineageService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		quality:   quality,
		contracts: contracts,
		lineage:   lineage,
		logger:    logger,
	}
}
