package domain

import "time"

// Severity classifies how serious a failed validation rule is.
type Severity string

const (
	// SeverityError rejects the record set; it cannot be promoted.
	SeverityError Severity = "error"
	// SeverityWarning lets data proceed but flags it for review.
	SeverityWarning Severity = "warning"
	// SeverityInfo is logged for monitoring only.
	SeverityInfo Severity = "info"
)

// ValidationStatus is the aggregate verdict for a validation run.
type ValidationStatus string

const (
	StatusPassed             ValidationStatus = "passed"
	StatusFailed             ValidationStatus = "failed"
	StatusPassedWithWarnings ValidationStatus = "passed_with_warnings"
)

// MaxFailedRecordIDs bounds the identifiers kept per result for storage.
const MaxFailedRecordIDs = 100

// ValidationResult is the outcome of a single validation rule.
// Immutable once created; every check is recorded for the audit trail.
type ValidationResult struct {
	RuleName          string            `json:"rule_name"`
	Description       string            `json:"description"`
	Severity          Severity          `json:"severity"`
	Passed            bool              `json:"passed"`
	RecordsChecked    int               `json:"records_checked"`
	RecordsFailed     int               `json:"records_failed"`
	FailurePercentage float64           `json:"failure_percentage"`
	FailedRecordIDs   []string          `json:"failed_record_ids"`
	Details           map[string]string `json:"details,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
}

// ReportSummary aggregates per-rule outcomes for dashboards.
type ReportSummary struct {
	TotalChecks int `json:"total_checks"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
}

// QualityReport is the complete quality report for one validation run.
// It gates promotion between storage tiers and is serialized for audit.
type QualityReport struct {
	Domain              string             `json:"domain"`
	SourcePath          string             `json:"source_path"`
	ValidationTimestamp time.Time          `json:"validation_timestamp"`
	TotalRecords        int                `json:"total_records"`
	Status              ValidationStatus   `json:"status"`
	Summary             ReportSummary      `json:"summary"`
	Results             []ValidationResult `json:"results"`
	Metadata            map[string]string  `json:"metadata,omitempty"`
}

// DeriveStatus computes the aggregate status from per-rule results:
// FAILED when any ERROR-severity rule did not pass, PASSED_WITH_WARNINGS
// when any WARNING-severity rule did not pass, PASSED otherwise.
func DeriveStatus(results []ValidationResult) ValidationStatus {
	hasErrors := false
	hasWarnings := false
	for _, r := range results {
		if r.Passed {
			continue
		}
		switch r.Severity {
		case SeverityError:
			hasErrors = true
		case SeverityWarning:
			hasWarnings = true
		case SeverityInfo:
			// informational failures never change the verdict
		}
	}
	switch {
	case hasErrors:
		return StatusFailed
	case hasWarnings:
		return StatusPassedWithWarnings
	default:
		return StatusPassed
	}
}

// Summarize counts per-rule outcomes for the report summary block.
func Summarize(results []ValidationResult) ReportSummary {
	s := ReportSummary{TotalChecks: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
			continue
		}
		s.Failed++
		switch r.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
		}
	}
	return s
}
