package domain

import (
	"context"
	"time"
)

// LineageEventRepository persists finalized lineage events and retrieves
// the batches the lineage index is rebuilt from.
type LineageEventRepository interface {
	Insert(ctx context.Context, event *LineageEvent) error
	// List returns events ordered by timestamp ascending.
	List(ctx context.Context) ([]LineageEvent, error)
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// QualityReportRepository persists quality reports for the audit trail.
type QualityReportRepository interface {
	Insert(ctx context.Context, report *QualityReport) error
	// List returns reports for a domain (all domains when empty),
	// newest first, with the total count before paging.
	List(ctx context.Context, domain string, page PageRequest) ([]QualityReport, int64, error)
}

// ContractResultRepository persists contract validation results.
type ContractResultRepository interface {
	Insert(ctx context.Context, result *ContractValidationResult) error
	List(ctx context.Context, contractName string, page PageRequest) ([]ContractValidationResult, int64, error)
}
