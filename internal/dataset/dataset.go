// Package dataset provides the immutable, column-named tabular structure
// that the validation and contract engines operate on. A dataset is fully
// materialized before evaluation; there is no streaming pass.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"clingov/internal/domain"
)

// Dataset is an immutable table: ordered column names plus row-major
// cells. A nil cell is the only representation of a null value.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a dataset from ordered column names and row-major cells.
// Every row must have exactly one cell per column.
func New(columns []string, rows [][]any) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, domain.ErrValidation("dataset: empty column name at position %d", i)
		}
		if _, dup := index[name]; dup {
			return nil, domain.ErrValidation("dataset: duplicate column %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, domain.ErrValidation("dataset: row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	return &Dataset{columns: columns, index: index, rows: rows}, nil
}

// FromRecords builds a dataset from row objects. Columns are ordered by
// first appearance, alphabetical within each record; a key absent from a
// record becomes a null cell.
func FromRecords(records []map[string]any) (*Dataset, error) {
	var columns []string
	seen := make(map[string]bool)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// Columns returns the ordered column names.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Value returns the cell at (row, column). The second return is false
// when the column does not exist.
func (d *Dataset) Value(row int, column string) (any, bool) {
	i, ok := d.index[column]
	if !ok {
		return nil, false
	}
	return d.rows[row][i], true
}

// Filter returns a new dataset containing the rows for which keep
// returns true. The receiver is not mutated; rows are shared, which is
// safe because datasets are read-only.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	var rows [][]any
	for i := range d.rows {
		if keep(i) {
			rows = append(rows, d.rows[i])
		}
	}
	return &Dataset{columns: d.columns, index: d.index, rows: rows}
}

// ColumnType infers the declared type of a column from its non-null
// cells: all-integer columns are int64, numeric mixes are float64,
// otherwise boolean, datetime64, or string by dynamic type. An empty or
// all-null column is reported as string.
func (d *Dataset) ColumnType(name string) (domain.ColumnType, bool) {
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	sawInt := false
	sawFloat := false
	sawOther := domain.ColumnType("")
	for _, row := range d.rows {
		switch v := row[i].(type) {
		case nil:
		case int, int32, int64:
			sawInt = true
		case float32:
			sawFloat = true
		case float64:
			// JSON numbers always decode as float64; treat integral
			// values as int64 so contracts on int columns hold.
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				sawInt = true
			} else {
				sawFloat = true
			}
		case bool:
			sawOther = domain.TypeBool
		case time.Time:
			sawOther = domain.TypeDatetime
		case string:
			sawOther = domain.TypeString
		default:
			sawOther = domain.TypeString
		}
	}
	switch {
	case sawOther != "":
		return sawOther, true
	case sawFloat:
		return domain.TypeFloat, true
	case sawInt:
		return domain.TypeInt, true
	default:
		return domain.TypeString, true
	}
}

// IsNull reports whether the cell value represents a null.
func IsNull(v any) bool { return v == nil }

// AsString converts a cell to its string form. Returns false for nulls
// and non-scalar values.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case bool:
		return fmt.Sprintf("%t", s), true
	case int:
		return fmt.Sprintf("%d", s), true
	case int64:
		return fmt.Sprintf("%d", s), true
	case float64:
		if s == math.Trunc(s) && !math.IsInf(s, 0) {
			return fmt.Sprintf("%d", int64(s)), true
		}
		return fmt.Sprintf("%g", s), true
	case time.Time:
		return s.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// AsFloat converts a numeric cell to float64. Returns false for nulls
// and non-numeric values.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// jsonDataset is the wire form of a dataset: ordered columns plus
// row-major cells, the same shape query engines return results in.
type jsonDataset struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MarshalJSON encodes the dataset as {"columns": [...], "rows": [[...]]}.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	rows := d.rows
	if rows == nil {
		rows = [][]any{}
	}
	return json.Marshal(jsonDataset{Columns: d.columns, Rows: rows})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var raw jsonDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := New(raw.Columns, raw.Rows)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}
