// Package contract implements the schema contract engine: drift
// detection between a versioned data contract and incoming data, value
// checks from column contracts, and the promote/alert/quarantine
// decision that gates datasets at ingestion boundaries.
package contract

import (
	"fmt"
	"time"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// QuarantineThreshold is the failed-record ratio above which a dataset
// is quarantined even without breaking schema changes.
const QuarantineThreshold = 0.05

// DetectSchemaChanges diffs the incoming dataset's shape against the
// contract and classifies every change as breaking or non-breaking
// under the contract's compatibility mode.
func DetectSchemaChanges(ds *dataset.Dataset, c *domain.DataContract) []domain.SchemaChange {
	var changes []domain.SchemaChange

	declared := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		declared[col.Name] = struct{}{}
	}

	// Added columns: breaking only under FORWARD compatibility, where
	// the old schema must still be able to read the new data.
	for _, name := range ds.Columns() {
		if _, ok := declared[name]; ok {
			continue
		}
		observed, _ := ds.ColumnType(name)
		changes = append(changes, domain.SchemaChange{
			ChangeType:  domain.ChangeColumnAdded,
			ColumnName:  name,
			NewValue:    string(observed),
			IsBreaking:  c.CompatibilityMode == domain.CompatForward,
			Description: fmt.Sprintf("New column %q detected in incoming data", name),
		})
	}

	// Removed columns: breaking under BACKWARD or FULL, where the new
	// schema is expected to read data written against the contract.
	for _, col := range c.Columns {
		if ds.HasColumn(col.Name) {
			continue
		}
		changes = append(changes, domain.SchemaChange{
			ChangeType:  domain.ChangeColumnRemoved,
			ColumnName:  col.Name,
			OldValue:    string(col.DType),
			IsBreaking:  c.CompatibilityMode == domain.CompatBackward || c.CompatibilityMode == domain.CompatFull,
			Description: fmt.Sprintf("Required column %q missing from incoming data", col.Name),
		})
	}

	// Type changes: always breaking unless the observed type is a safe
	// upcast of the declared type. A zero-row dataset carries no cells to
	// infer types from, so this check is skipped for it.
	for _, col := range c.Columns {
		if ds.NumRows() == 0 {
			break
		}
		if !ds.HasColumn(col.Name) {
			continue
		}
		observed, _ := ds.ColumnType(col.Name)
		if !typesCompatible(col.DType, observed) {
			changes = append(changes, domain.SchemaChange{
				ChangeType:  domain.ChangeTypeChanged,
				ColumnName:  col.Name,
				OldValue:    string(col.DType),
				NewValue:    string(observed),
				IsBreaking:  true,
				Description: fmt.Sprintf("Column %q type changed from %s to %s", col.Name, col.DType, observed),
			})
		}
	}

	return changes
}

// typesCompatible whitelists exactly two safe upcasts: int data into a
// float column, and string-like data into a string column (type
// inference already normalizes every string-like cell to the string
// type). The matrix is deliberately narrow; widening it changes audit
// semantics.
func typesCompatible(declared, observed domain.ColumnType) bool {
	if declared == observed {
		return true
	}
	return declared == domain.TypeFloat && observed == domain.TypeInt
}

// ValidateValues evaluates the contract's value constraints for each
// declared column present in the dataset, in a fixed clause order:
// not-null, unique, allowed values, minimum bound, maximum bound.
// A column's failed count is the sum across its clauses; a row failing
// two clauses is counted twice, since each clause is an independent
// contract term.
func ValidateValues(ds *dataset.Dataset, c *domain.DataContract) map[string]domain.ColumnValidation {
	results := make(map[string]domain.ColumnValidation)

	for _, col := range c.Columns {
		if !ds.HasColumn(col.Name) {
			continue
		}
		cv := domain.ColumnValidation{Column: col.Name}

		if !col.Nullable {
			n := countRows(ds, func(v any) bool { return dataset.IsNull(v) }, col.Name)
			cv.Checks = append(cv.Checks, domain.ColumnCheck{Check: "not_null", Passed: n == 0, FailedCount: n})
			cv.FailedCount += n
		}

		if col.Unique {
			n := countDuplicates(ds, col.Name)
			cv.Checks = append(cv.Checks, domain.ColumnCheck{Check: "unique", Passed: n == 0, FailedCount: n})
			cv.FailedCount += n
		}

		if len(col.AllowedValues) > 0 {
			allowed := make(map[string]struct{}, len(col.AllowedValues))
			for _, v := range col.AllowedValues {
				allowed[v] = struct{}{}
			}
			// Nulls are exempt; nullability is the not_null clause's job.
			n := countRows(ds, func(v any) bool {
				if dataset.IsNull(v) {
					return false
				}
				s, ok := dataset.AsString(v)
				if !ok {
					return true
				}
				_, inSet := allowed[s]
				return !inSet
			}, col.Name)
			cv.Checks = append(cv.Checks, domain.ColumnCheck{
				Check: "allowed_values", Passed: n == 0, FailedCount: n,
				Detail: fmt.Sprintf("allowed: %v", col.AllowedValues),
			})
			cv.FailedCount += n
		}

		if col.MinValue != nil {
			min := *col.MinValue
			n := countRows(ds, func(v any) bool {
				f, ok := dataset.AsFloat(v)
				return ok && f < min
			}, col.Name)
			cv.Checks = append(cv.Checks, domain.ColumnCheck{
				Check: "min_value", Passed: n == 0, FailedCount: n,
				Detail: fmt.Sprintf("min: %g", min),
			})
			cv.FailedCount += n
		}

		if col.MaxValue != nil {
			max := *col.MaxValue
			n := countRows(ds, func(v any) bool {
				f, ok := dataset.AsFloat(v)
				return ok && f > max
			}, col.Name)
			cv.Checks = append(cv.Checks, domain.ColumnCheck{
				Check: "max_value", Passed: n == 0, FailedCount: n,
				Detail: fmt.Sprintf("max: %g", max),
			})
			cv.FailedCount += n
		}

		results[col.Name] = cv
	}

	return results
}

func countRows(ds *dataset.Dataset, match func(v any) bool, column string) int {
	n := 0
	for row := 0; row < ds.NumRows(); row++ {
		v, _ := ds.Value(row, column)
		if match(v) {
			n++
		}
	}
	return n
}

// countDuplicates counts rows beyond the first occurrence of each
// value, nulls included.
func countDuplicates(ds *dataset.Dataset, column string) int {
	seen := make(map[string]bool)
	dups := 0
	for row := 0; row < ds.NumRows(); row++ {
		v, _ := ds.Value(row, column)
		key := "\x00null"
		if !dataset.IsNull(v) {
			key, _ = dataset.AsString(v)
		}
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

// ValidateAgainstContract is the main entry point: it detects schema
// changes, runs value checks, and derives the action in strict order:
// breaking change → quarantine; failed ratio above threshold →
// quarantine; any failed records → alert; any non-breaking change →
// alert; otherwise accept.
func ValidateAgainstContract(ds *dataset.Dataset, c *domain.DataContract) (*domain.ContractValidationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	schemaChanges := DetectSchemaChanges(ds, c)
	hasBreaking := false
	for _, change := range schemaChanges {
		if change.IsBreaking {
			hasBreaking = true
			break
		}
	}

	valueValidation := ValidateValues(ds, c)
	failedRecords := 0
	for _, cv := range valueValidation {
		failedRecords += cv.FailedCount
	}

	totalRecords := ds.NumRows()
	failedRatio := 0.0
	if totalRecords > 0 {
		failedRatio = float64(failedRecords) / float64(totalRecords)
	}

	var action domain.ContractAction
	var isValid bool
	switch {
	case hasBreaking:
		action, isValid = domain.ActionQuarantine, false
	case failedRatio > QuarantineThreshold:
		action, isValid = domain.ActionQuarantine, false
	case failedRecords > 0:
		action, isValid = domain.ActionAlert, true
	case len(schemaChanges) > 0:
		action, isValid = domain.ActionAlert, true
	default:
		action, isValid = domain.ActionAccept, true
	}

	if schemaChanges == nil {
		schemaChanges = []domain.SchemaChange{}
	}
	return &domain.ContractValidationResult{
		ContractName:       c.Name,
		ContractVersion:    c.Version,
		SchemaHash:         c.SchemaHash(),
		Timestamp:          time.Now().UTC(),
		SchemaChanges:      schemaChanges,
		HasBreakingChanges: hasBreaking,
		ValueValidation:    valueValidation,
		TotalRecords:       totalRecords,
		FailedRecords:      failedRecords,
		IsValid:            isValid,
		Action:             action,
	}, nil
}
