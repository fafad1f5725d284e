// Package governance implements the data governance services: quality
// validation, contract enforcement, and lineage tracking.
package governance

import (
	"context"
	"log/slog"

	"clingov/internal/dataset"
	"clingov/internal/domain"
	"clingov/internal/lineage"
	"clingov/internal/quality"
)

// QualityService runs domain rule sets over datasets, persists the
// resulting reports, and records a validation lineage event for each
// run.
type QualityService struct {
	reports domain.QualityReportRepository
	events  domain.LineageEventRepository
	logger  *slog.Logger
}

// NewQualityService creates a new QualityService.
func NewQualityService(reports domain.QualityReportRepository, events domain.LineageEventRepository, logger *slog.Logger) *QualityService {
	return &QualityService{reports: reports, events: events, logger: logger}
}

// SupportedDomains lists the domain codes with registered rule sets.
func (s *QualityService) SupportedDomains() []string {
	return quality.SupportedDomains()
}

// ValidateDomain runs the registered rule set for a clinical domain over
// the dataset, persists the report, and records a validation lineage
// event keyed on sourcePath. triggeredBy identifies the caller for the
// audit trail.
func (s *QualityService) ValidateDomain(ctx context.Context, domainKey, sourcePath, triggeredBy string, ds *dataset.Dataset) (*domain.QualityReport, error) {
	engine, err := quality.ForDomain(domainKey)
	if err != nil {
		return nil, err
	}

	report := engine.Validate(ds, "")
	report.SourcePath = sourcePath

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, err
	}

	if err := s.recordValidationEvent(ctx, report, triggeredBy); err != nil {
		// The report is the primary artifact; a lineage write failure
		// is logged, not surfaced.
		s.logger.Error("record validation lineage event", "error", err, "source_path", sourcePath)
	}

	s.logger.Info("quality validation complete",
		"domain", domainKey,
		"source_path", sourcePath,
		"status", string(report.Status),
		"total_records", report.TotalRecords,
		"failed_checks", report.Summary.Failed,
	)
	return report, nil
}

func (s *QualityService) recordValidationEvent(ctx context.Context, report *domain.QualityReport, triggeredBy string) error {
	records := int64(report.TotalRecords)

	tracker := lineage.NewTracker(triggeredBy, domain.EventValidation)
	if err := tracker.AddInput(domain.AssetFromLocation(report.SourcePath, domain.LayerBronze, &records)); err != nil {
		return err
	}
	if err := tracker.SetValidationStatus(string(report.Status), 0); err != nil {
		return err
	}
	if err := tracker.SetTransformation("quality validation", map[string]string{"domain": report.Domain}); err != nil {
		return err
	}
	ev, err := tracker.BuildEvent()
	if err != nil {
		return err
	}
	return s.events.Insert(ctx, ev)
}

// ListReports returns stored reports for a domain (all when empty),
// newest first, plus the total count before paging.
func (s *QualityService) ListReports(ctx context.Context, domainKey string, page domain.PageRequest) ([]domain.QualityReport, int64, error) {
	return s.reports.List(ctx, domainKey, page)
}
