package governance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

func dmDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"USUBJID", "AGE", "SEX", "ARM", "RFSTDTC"},
		[][]any{
			{"S1", 34.0, "M", "PLACEBO", "2024-01-15"},
			{"S2", 61.0, "F", "ACTIVE", "2024-02-03"},
		},
	)
	require.NoError(t, err)
	return ds
}

func TestValidateDomain(t *testing.T) {
	t.Run("persists_report_and_lineage_event", func(t *testing.T) {
		reports := &mockReportRepo{}
		events := &mockEventRepo{}
		svc := NewQualityService(reports, events, discardLogger)

		report, err := svc.ValidateDomain(context.Background(), "DM", "/bronze/dm.parquet", "etl", dmDataset(t))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPassed, report.Status)
		assert.Equal(t, "/bronze/dm.parquet", report.SourcePath)
		assert.Equal(t, 2, report.TotalRecords)

		require.Len(t, reports.Reports, 1)

		require.Len(t, events.Events, 1)
		ev := events.LastEvent()
		assert.Equal(t, domain.EventValidation, ev.EventType)
		assert.Equal(t, "etl", ev.TriggeredBy)
		require.Len(t, ev.InputAssets, 1)
		assert.Equal(t, "/bronze/dm.parquet", ev.InputAssets[0].Location)
		assert.Equal(t, int64(2), ev.RecordsIn)
		assert.Equal(t, string(domain.StatusPassed), ev.ValidationStatus)
	})

	t.Run("unknown_domain", func(t *testing.T) {
		svc := NewQualityService(&mockReportRepo{}, &mockEventRepo{}, discardLogger)
		_, err := svc.ValidateDomain(context.Background(), "XX", "/p", "etl", dmDataset(t))
		var unknown *domain.UnknownDomainError
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("report_insert_failure_surfaces", func(t *testing.T) {
		reports := &mockReportRepo{
			InsertFn: func(context.Context, *domain.QualityReport) error { return errTest },
		}
		svc := NewQualityService(reports, &mockEventRepo{}, discardLogger)
		_, err := svc.ValidateDomain(context.Background(), "DM", "/p", "etl", dmDataset(t))
		assert.ErrorIs(t, err, errTest)
	})

	t.Run("lineage_insert_failure_does_not_fail_validation", func(t *testing.T) {
		events := &mockEventRepo{
			InsertFn: func(context.Context, *domain.LineageEvent) error { return errTest },
		}
		svc := NewQualityService(&mockReportRepo{}, events, discardLogger)
		report, err := svc.ValidateDomain(context.Background(), "DM", "/p", "etl", dmDataset(t))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPassed, report.Status)
	})
}

func TestListReports(t *testing.T) {
	reports := &mockReportRepo{
		ListFn: func(_ context.Context, domainKey string, _ domain.PageRequest) ([]domain.QualityReport, int64, error) {
			assert.Equal(t, "DM", domainKey)
			return []domain.QualityReport{{Domain: "DM"}}, 1, nil
		},
	}
	svc := NewQualityService(reports, &mockEventRepo{}, discardLogger)

	got, total, err := svc.ListReports(context.Background(), "DM", domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
}
