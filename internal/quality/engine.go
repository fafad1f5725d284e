// Package quality implements the rule-based validation engine that gates
// promotion of clinical datasets between storage tiers.
package quality

import (
	"fmt"
	"time"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// DefaultIDColumn identifies records in failed-record lists when the
// caller does not name one.
const DefaultIDColumn = "USUBJID"

// RuleFunc is a pure predicate over a dataset. It returns whether the
// dataset passed and the failing rows. It must not mutate its input.
type RuleFunc func(ds *dataset.Dataset) (passed bool, failed *dataset.Dataset, err error)

// Rule is a named, severity-tagged predicate.
type Rule struct {
	Name        string
	Description string
	Severity    domain.Severity
	Check       RuleFunc
}

// Engine runs an ordered list of rules against a dataset and produces a
// quality report. Rule registration happens once at construction time;
// after that the engine is read-only and safe for concurrent Validate
// calls on independent datasets.
type Engine struct {
	domain string
	rules  []Rule
	names  map[string]struct{}
}

// New creates an empty engine for the given clinical domain code.
func New(domainKey string) *Engine {
	return &Engine{domain: domainKey, names: make(map[string]struct{})}
}

// Domain returns the clinical domain code this engine validates.
func (e *Engine) Domain() string { return e.domain }

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// AddRule registers a rule. Rule names are unique per engine instance;
// registering a duplicate name is a ConflictError.
func (e *Engine) AddRule(name, description string, check RuleFunc, severity domain.Severity) error {
	if name == "" {
		return domain.ErrValidation("rule name is required")
	}
	if check == nil {
		return domain.ErrValidation("rule %q: check function is required", name)
	}
	if _, dup := e.names[name]; dup {
		return domain.ErrConflict("rule %q already registered", name)
	}
	e.names[name] = struct{}{}
	e.rules = append(e.rules, Rule{Name: name, Description: description, Severity: severity, Check: check})
	return nil
}

// Validate runs every registered rule, in registration order, against
// the full dataset and returns the quality report. A broken rule never
// aborts the run: a returned error or panic is contained as a failing
// ERROR-severity result covering every record.
func (e *Engine) Validate(ds *dataset.Dataset, idColumn string) *domain.QualityReport {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	totalRecords := ds.NumRows()
	results := make([]domain.ValidationResult, 0, len(e.rules))

	for _, rule := range e.rules {
		passed, failedRows, err := runRule(rule, ds)

		var result domain.ValidationResult
		if err != nil {
			// The rule itself failed; record it as a full failure so
			// the report still covers every registered rule.
			result = domain.ValidationResult{
				RuleName:          rule.Name,
				Description:       rule.Description,
				Severity:          domain.SeverityError,
				Passed:            false,
				RecordsChecked:    totalRecords,
				RecordsFailed:     totalRecords,
				FailurePercentage: 100,
				Details:           map[string]string{"error": err.Error()},
				Timestamp:         time.Now().UTC(),
			}
		} else {
			recordsFailed := 0
			var failedIDs []string
			if failedRows != nil {
				recordsFailed = failedRows.NumRows()
				failedIDs = recordIDs(failedRows, idColumn)
			}
			pct := 0.0
			if totalRecords > 0 {
				pct = float64(recordsFailed) / float64(totalRecords) * 100
			}
			result = domain.ValidationResult{
				RuleName:          rule.Name,
				Description:       rule.Description,
				Severity:          rule.Severity,
				Passed:            passed,
				RecordsChecked:    totalRecords,
				RecordsFailed:     recordsFailed,
				FailurePercentage: pct,
				FailedRecordIDs:   failedIDs,
				Timestamp:         time.Now().UTC(),
			}
		}
		results = append(results, result)
	}

	return &domain.QualityReport{
		Domain:              e.domain,
		ValidationTimestamp: time.Now().UTC(),
		TotalRecords:        totalRecords,
		Status:              domain.DeriveStatus(results),
		Summary:             domain.Summarize(results),
		Results:             results,
	}
}

// runRule invokes the rule check, converting panics into errors.
func runRule(rule Rule, ds *dataset.Dataset) (passed bool, failed *dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %s panicked: %v", rule.Name, r)
		}
	}()
	return rule.Check(ds)
}

// recordIDs collects the id-column values of failing rows, bounded to
// the first MaxFailedRecordIDs ids for storage. Rows whose id is null
// or non-scalar contribute nothing, so the bound applies to collected
// ids, not to rows scanned.
func recordIDs(failed *dataset.Dataset, idColumn string) []string {
	if !failed.HasColumn(idColumn) {
		return nil
	}
	var ids []string
	for i := 0; i < failed.NumRows(); i++ {
		v, _ := failed.Value(i, idColumn)
		if s, ok := dataset.AsString(v); ok {
			ids = append(ids, s)
			if len(ids) == domain.MaxFailedRecordIDs {
				break
			}
		}
	}
	return ids
}
