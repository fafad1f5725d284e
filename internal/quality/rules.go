package quality

import (
	"sort"
	"strings"
	"time"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// ForDomain returns the prebuilt engine for a clinical domain code.
// The rule sets are fixed, named lists; callers cannot extend them.
func ForDomain(domainKey string) (*Engine, error) {
	builder, ok := builders[domainKey]
	if !ok {
		return nil, domain.ErrUnknownDomain("unknown domain %q, supported: %s", domainKey, strings.Join(SupportedDomains(), ", "))
	}
	return builder(), nil
}

// SupportedDomains lists the domain codes with prebuilt rule sets.
func SupportedDomains() []string {
	keys := make([]string, 0, len(builders))
	for k := range builders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var builders = map[string]func() *Engine{
	"DM": newDMEngine,
	"AE": newAEEngine,
	"VS": newVSEngine,
	"LB": newLBEngine,
}

// mustAdd registers a rule on a freshly built engine. The prebuilt rule
// sets use unique literal names, so a registration failure is a bug.
func mustAdd(e *Engine, name, description string, check RuleFunc, severity domain.Severity) {
	if err := e.AddRule(name, description, check, severity); err != nil {
		panic(err)
	}
}

// newDMEngine builds the Demographics rule set. DM is the most critical
// domain: every other domain references it, so these rules guard the
// referential backbone of the study.
func newDMEngine() *Engine {
	e := New("DM")
	mustAdd(e, "DM_001", "USUBJID must be unique - each subject appears only once",
		uniqueValues("USUBJID"), domain.SeverityError)
	mustAdd(e, "DM_002", "USUBJID cannot be null",
		notNull("USUBJID"), domain.SeverityError)
	mustAdd(e, "DM_003", "AGE must be between 0 and 120 years",
		numericRange("AGE", ptr(0), ptr(120)), domain.SeverityError)
	mustAdd(e, "DM_004", "SEX must be M, F, U, or UNDIFFERENTIATED (CDISC CT)",
		controlledTerms("SEX", []string{"M", "F", "U", "UNDIFFERENTIATED"}, false),
		domain.SeverityError)
	mustAdd(e, "DM_005", "ARM (treatment arm) should be populated",
		notNull("ARM"), domain.SeverityWarning)
	mustAdd(e, "DM_006", "RFSTDTC must be valid ISO 8601 date format (YYYY-MM-DD)",
		isoDate("RFSTDTC"), domain.SeverityError)
	return e
}

// newAEEngine builds the Adverse Events rule set. AE data feeds safety
// reporting and must be complete.
func newAEEngine() *Engine {
	e := New("AE")
	mustAdd(e, "AE_001", "USUBJID cannot be null",
		notNull("USUBJID"), domain.SeverityError)
	mustAdd(e, "AE_002", "AETERM (adverse event term) cannot be null",
		notNull("AETERM"), domain.SeverityError)
	mustAdd(e, "AE_003", "AESEV must be MILD, MODERATE, or SEVERE",
		controlledTerms("AESEV", []string{"MILD", "MODERATE", "SEVERE"}, false),
		domain.SeverityError)
	mustAdd(e, "AE_004", "AESER (serious flag) must be Y or N",
		controlledTerms("AESER", []string{"Y", "N"}, false), domain.SeverityError)
	mustAdd(e, "AE_005", "AEENDTC (end date) must be >= AESTDTC (start date)",
		dateOrdering("AESTDTC", "AEENDTC"), domain.SeverityError)
	return e
}

// newVSEngine builds the Vital Signs rule set.
func newVSEngine() *Engine {
	e := New("VS")
	mustAdd(e, "VS_001", "USUBJID cannot be null",
		notNull("USUBJID"), domain.SeverityError)
	mustAdd(e, "VS_002", "VSTESTCD (test code) cannot be null",
		notNull("VSTESTCD"), domain.SeverityError)
	mustAdd(e, "VS_003", "VSSTRESN (numeric result) should be positive",
		numericRange("VSSTRESN", ptr(0), nil), domain.SeverityWarning)
	mustAdd(e, "VS_004", "Vital sign values must be within physiological range",
		vitalRanges("VSTESTCD", "VSSTRESN", map[string][2]float64{
			"HR":    {20, 250}, // bpm
			"SYSBP": {50, 250}, // mmHg
			"TEMP":  {30, 45},  // Celsius
		}), domain.SeverityWarning)
	return e
}

// newLBEngine builds the Laboratory Results rule set.
func newLBEngine() *Engine {
	e := New("LB")
	mustAdd(e, "LB_001", "USUBJID cannot be null",
		notNull("USUBJID"), domain.SeverityError)
	mustAdd(e, "LB_002", "LBTESTCD (test code) cannot be null",
		notNull("LBTESTCD"), domain.SeverityError)
	mustAdd(e, "LB_003", "LBNRIND must be LOW, NORMAL, HIGH, or ABNORMAL",
		controlledTerms("LBNRIND", []string{"LOW", "NORMAL", "HIGH", "ABNORMAL"}, true),
		domain.SeverityWarning)
	mustAdd(e, "LB_004", "LBORNRLO must be less than LBORNRHI",
		rangeBoundsOrdered("LBORNRLO", "LBORNRHI"), domain.SeverityError)
	return e
}

func ptr(f float64) *float64 { return &f }

// === Predicate helpers ===
//
// Every helper errors on a missing column: a rule written against a
// column the dataset does not carry is a broken rule, and the engine
// converts the error into a failing ERROR-severity result.

func requireColumns(ds *dataset.Dataset, columns ...string) error {
	for _, c := range columns {
		if !ds.HasColumn(c) {
			return domain.ErrValidation("column %q not present in dataset", c)
		}
	}
	return nil
}

// notNull fails rows whose cell in the column is null.
func notNull(column string) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, column); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			v, _ := ds.Value(row, column)
			return dataset.IsNull(v)
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// uniqueValues fails every row whose value occurs more than once,
// including the first occurrence.
func uniqueValues(column string) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, column); err != nil {
			return false, nil, err
		}
		counts := make(map[string]int)
		for row := 0; row < ds.NumRows(); row++ {
			counts[cellKey(ds, row, column)]++
		}
		failed := ds.Filter(func(row int) bool {
			return counts[cellKey(ds, row, column)] > 1
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// cellKey folds a cell into a map key; all nulls share one key.
func cellKey(ds *dataset.Dataset, row int, column string) string {
	v, _ := ds.Value(row, column)
	if dataset.IsNull(v) {
		return "\x00null"
	}
	s, _ := dataset.AsString(v)
	return s
}

// controlledTerms fails rows whose value is not in the vocabulary.
// Comparison is case-normalized. When exemptNull is false, null values
// fail the check (a missing term is not in the vocabulary); when true,
// null rows are skipped.
func controlledTerms(column string, vocabulary []string, exemptNull bool) RuleFunc {
	allowed := make(map[string]struct{}, len(vocabulary))
	for _, term := range vocabulary {
		allowed[strings.ToUpper(term)] = struct{}{}
	}
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, column); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			v, _ := ds.Value(row, column)
			if dataset.IsNull(v) {
				return !exemptNull
			}
			s, ok := dataset.AsString(v)
			if !ok {
				return true
			}
			_, inVocab := allowed[strings.ToUpper(s)]
			return !inVocab
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// numericRange fails numeric values outside [min, max]. Null and
// non-numeric cells are skipped; nullability is a separate rule.
func numericRange(column string, min, max *float64) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, column); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			v, _ := ds.Value(row, column)
			n, ok := dataset.AsFloat(v)
			if !ok {
				return false
			}
			if min != nil && n < *min {
				return true
			}
			return max != nil && n > *max
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// isoDate fails rows whose value is null or whose first ten characters
// do not parse as a YYYY-MM-DD date. Unparsable values fail the rule,
// they do not abort it.
func isoDate(column string) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, column); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			v, _ := ds.Value(row, column)
			if dataset.IsNull(v) {
				return true
			}
			s, ok := dataset.AsString(v)
			if !ok {
				return true
			}
			if len(s) > 10 {
				s = s[:10]
			}
			_, err := time.Parse("2006-01-02", s)
			return err != nil
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// dateOrdering fails rows where the end date sorts before the start
// date. Only rows with both fields present are evaluated; incomplete
// rows are excluded from this rule's failure set by policy, since the
// ordering constraint is undefined for them. ISO 8601 dates compare
// correctly as strings.
func dateOrdering(startColumn, endColumn string) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, startColumn, endColumn); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			startV, _ := ds.Value(row, startColumn)
			endV, _ := ds.Value(row, endColumn)
			start, okS := dataset.AsString(startV)
			end, okE := dataset.AsString(endV)
			if !okS || !okE {
				return false
			}
			return end < start
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// rangeBoundsOrdered fails rows where the low bound is >= the high
// bound. Rows missing either bound are skipped.
func rangeBoundsOrdered(lowColumn, highColumn string) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, lowColumn, highColumn); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			lowV, _ := ds.Value(row, lowColumn)
			highV, _ := ds.Value(row, highColumn)
			low, okL := dataset.AsFloat(lowV)
			high, okH := dataset.AsFloat(highV)
			if !okL || !okH {
				return false
			}
			return low >= high
		})
		return failed.NumRows() == 0, failed, nil
	}
}

// vitalRanges fails rows whose numeric result is outside the
// physiological range declared for the row's test code. Rows with an
// unlisted test code or a non-numeric result are skipped.
func vitalRanges(codeColumn, valueColumn string, ranges map[string][2]float64) RuleFunc {
	return func(ds *dataset.Dataset) (bool, *dataset.Dataset, error) {
		if err := requireColumns(ds, codeColumn, valueColumn); err != nil {
			return false, nil, err
		}
		failed := ds.Filter(func(row int) bool {
			codeV, _ := ds.Value(row, codeColumn)
			code, ok := dataset.AsString(codeV)
			if !ok {
				return false
			}
			bounds, listed := ranges[strings.ToUpper(code)]
			if !listed {
				return false
			}
			v, _ := ds.Value(row, valueColumn)
			n, numeric := dataset.AsFloat(v)
			if !numeric {
				return false
			}
			return n < bounds[0] || n > bounds[1]
		})
		return failed.NumRows() == 0, failed, nil
	}
}
