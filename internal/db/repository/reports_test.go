package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "clingov/internal/db"
	"clingov/internal/domain"
)

func testReport(domainKey string, ts time.Time, status domain.ValidationStatus) *domain.QualityReport {
	return &domain.QualityReport{
		Domain:              domainKey,
		SourcePath:          "/bronze/" + domainKey + ".parquet",
		ValidationTimestamp: ts,
		TotalRecords:        10,
		Status:              status,
		Summary:             domain.ReportSummary{TotalChecks: 3, Passed: 3},
		Results: []domain.ValidationResult{
			{RuleName: domainKey + "_001", Severity: domain.SeverityError, Passed: true, RecordsChecked: 10, Timestamp: ts},
		},
	}
}

func TestQualityReportRepo(t *testing.T) {
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repo := NewQualityReportRepo(writeDB, readDB)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, testReport("DM", base, domain.StatusPassed)))
	require.NoError(t, repo.Insert(ctx, testReport("DM", base.Add(time.Hour), domain.StatusFailed)))
	require.NoError(t, repo.Insert(ctx, testReport("AE", base, domain.StatusPassed)))

	t.Run("filter_by_domain_newest_first", func(t *testing.T) {
		reports, total, err := repo.List(ctx, "DM", domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, reports, 2)
		assert.Equal(t, domain.StatusFailed, reports[0].Status)
		assert.Equal(t, domain.StatusPassed, reports[1].Status)
		assert.Equal(t, "DM_001", reports[1].Results[0].RuleName)
	})

	t.Run("empty_domain_matches_all", func(t *testing.T) {
		_, total, err := repo.List(ctx, "", domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("paging", func(t *testing.T) {
		reports, total, err := repo.List(ctx, "", domain.PageRequest{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total, "total counts beyond the page")
		assert.Len(t, reports, 2)

		rest, _, err := repo.List(ctx, "", domain.PageRequest{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("no_matches", func(t *testing.T) {
		reports, total, err := repo.List(ctx, "VS", domain.PageRequest{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, reports)
	})
}

func TestContractResultRepo(t *testing.T) {
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repo := NewContractResultRepo(writeDB, readDB)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mk := func(name string, ts time.Time, action domain.ContractAction) *domain.ContractValidationResult {
		return &domain.ContractValidationResult{
			ContractName:    name,
			ContractVersion: "1.0.0",
			SchemaHash:      "abcd1234",
			Timestamp:       ts,
			SchemaChanges:   []domain.SchemaChange{},
			ValueValidation: map[string]domain.ColumnValidation{},
			TotalRecords:    10,
			IsValid:         action != domain.ActionQuarantine,
			Action:          action,
		}
	}

	require.NoError(t, repo.Insert(ctx, mk("clinical_trial_dm", base, domain.ActionAccept)))
	require.NoError(t, repo.Insert(ctx, mk("clinical_trial_dm", base.Add(time.Hour), domain.ActionQuarantine)))
	require.NoError(t, repo.Insert(ctx, mk("clinical_trial_ae", base, domain.ActionAlert)))

	t.Run("filter_by_contract_newest_first", func(t *testing.T) {
		results, total, err := repo.List(ctx, "clinical_trial_dm", domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, results, 2)
		assert.Equal(t, domain.ActionQuarantine, results[0].Action)
		assert.False(t, results[0].IsValid)
	})

	t.Run("empty_name_matches_all", func(t *testing.T) {
		_, total, err := repo.List(ctx, "", domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

// Every field must survive the store: a dropped JSON tag shows up as a
// full-struct inequality here.
func TestQualityReportRepo_RoundTrip(t *testing.T) {
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repo := NewQualityReportRepo(writeDB, readDB)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 12, 30, 45, 123456789, time.UTC)
	report := &domain.QualityReport{
		Domain:              "DM",
		SourcePath:          "/bronze/dm.parquet",
		ValidationTimestamp: ts,
		TotalRecords:        100,
		Status:              domain.StatusFailed,
		Summary:             domain.ReportSummary{TotalChecks: 2, Passed: 1, Failed: 1, Errors: 1},
		Results: []domain.ValidationResult{
			{
				RuleName:       "DM_001",
				Description:    "USUBJID must not be null",
				Severity:       domain.SeverityError,
				Passed:         true,
				RecordsChecked: 100,
				Timestamp:      ts,
			},
			{
				RuleName:          "DM_002",
				Description:       "USUBJID must be unique",
				Severity:          domain.SeverityError,
				Passed:            false,
				RecordsChecked:    100,
				RecordsFailed:     2,
				FailurePercentage: 2,
				FailedRecordIDs:   []string{"S001", "S001"},
				Details:           map[string]string{"column": "USUBJID"},
				Timestamp:         ts,
			},
		},
		Metadata: map[string]string{"pipeline": "nightly"},
	}

	require.NoError(t, repo.Insert(ctx, report))

	reports, _, err := repo.List(ctx, "DM", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, *report, reports[0])
}

// Same property for contract outcomes.
func TestContractResultRepo_RoundTrip(t *testing.T) {
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	repo := NewContractResultRepo(writeDB, readDB)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 12, 30, 45, 123456789, time.UTC)
	result := &domain.ContractValidationResult{
		ContractName:    "clinical_trial_dm",
		ContractVersion: "1.0.0",
		SchemaHash:      "abcd1234",
		Timestamp:       ts,
		SchemaChanges: []domain.SchemaChange{{
			ChangeType:  domain.ChangeColumnAdded,
			ColumnName:  "VISIT",
			OldValue:    "absent",
			NewValue:    "string",
			IsBreaking:  false,
			Description: "column VISIT added",
		}},
		HasBreakingChanges: false,
		ValueValidation: map[string]domain.ColumnValidation{
			"AGE": {
				Column: "AGE",
				Checks: []domain.ColumnCheck{
					{Check: "not_null", Passed: true},
					{Check: "max_value", Passed: false, FailedCount: 3, Detail: "3 values above 120"},
				},
				FailedCount: 3,
			},
		},
		TotalRecords:  100,
		FailedRecords: 3,
		IsValid:       true,
		Action:        domain.ActionAlert,
	}

	require.NoError(t, repo.Insert(ctx, result))

	results, _, err := repo.List(ctx, "clinical_trial_dm", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, *result, results[0])
}
