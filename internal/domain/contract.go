package domain

import (
	"crypto/md5" //nolint:gosec // schema hashes are audit-trail identifiers, not security material
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// CompatibilityMode governs which schema changes a contract tolerates.
type CompatibilityMode string

const (
	// CompatBackward: a new schema can read old data.
	CompatBackward CompatibilityMode = "backward"
	// CompatForward: an old schema can read new data.
	CompatForward CompatibilityMode = "forward"
	// CompatFull: both backward and forward.
	CompatFull CompatibilityMode = "full"
	// CompatNone: no compatibility guaranteed.
	CompatNone CompatibilityMode = "none"
)

// Valid reports whether m is one of the declared compatibility modes.
func (m CompatibilityMode) Valid() bool {
	switch m {
	case CompatBackward, CompatForward, CompatFull, CompatNone:
		return true
	}
	return false
}

// ColumnType is the declared type of a contract column.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInt      ColumnType = "int64"
	TypeFloat    ColumnType = "float64"
	TypeDatetime ColumnType = "datetime64"
	TypeBool     ColumnType = "boolean"
)

// ChangeType classifies a detected schema change.
type ChangeType string

const (
	ChangeColumnAdded     ChangeType = "column_added"
	ChangeColumnRemoved   ChangeType = "column_removed"
	ChangeTypeChanged     ChangeType = "type_changed"
	ChangeNullableChanged ChangeType = "nullable_changed"
)

// SchemaChange is one detected difference between a contract and
// incoming data, classified as breaking or non-breaking.
type SchemaChange struct {
	ChangeType  ChangeType `json:"change_type"`
	ColumnName  string     `json:"column_name"`
	OldValue    string     `json:"old_value"`
	NewValue    string     `json:"new_value"`
	IsBreaking  bool       `json:"is_breaking"`
	Description string     `json:"description"`
}

// ColumnContract is the constraint spec for a single column.
type ColumnContract struct {
	Name          string     `json:"name" yaml:"name"`
	DType         ColumnType `json:"dtype" yaml:"dtype"`
	Nullable      bool       `json:"nullable" yaml:"nullable"`
	Unique        bool       `json:"unique" yaml:"unique"`
	AllowedValues []string   `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	MinValue      *float64   `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue      *float64   `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Pattern       string     `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// DataContract is a named, versioned schema contract for one dataset.
// A contract is immutable per version; evolution happens by publishing
// a new version under the declared compatibility mode.
type DataContract struct {
	Name              string            `json:"name" yaml:"name"`
	Version           string            `json:"version" yaml:"version"`
	Domain            string            `json:"domain" yaml:"domain"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	Owner             string            `json:"owner" yaml:"owner"`
	Columns           []ColumnContract  `json:"columns" yaml:"columns"`
	CompatibilityMode CompatibilityMode `json:"compatibility_mode" yaml:"compatibility_mode"`
	PrimaryKey        []string          `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys       map[string]string `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" yaml:"updated_at"`
}

// Column returns the contract for the named column.
func (c *DataContract) Column(name string) (*ColumnContract, bool) {
	for i := range c.Columns {
		if c.Columns[i].Name == name {
			return &c.Columns[i], true
		}
	}
	return nil, false
}

// Validate fails fast on malformed contract definitions, before any
// dataset is evaluated against the contract.
func (c *DataContract) Validate() error {
	if c.Name == "" {
		return ErrValidation("contract name is required")
	}
	if c.Version == "" {
		return ErrValidation("contract %q: version is required", c.Name)
	}
	if !c.CompatibilityMode.Valid() {
		return ErrValidation("contract %q: unknown compatibility mode %q", c.Name, c.CompatibilityMode)
	}
	seen := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		if col.Name == "" {
			return ErrValidation("contract %q: column with empty name", c.Name)
		}
		if _, dup := seen[col.Name]; dup {
			return ErrValidation("contract %q: duplicate column %q", c.Name, col.Name)
		}
		seen[col.Name] = struct{}{}
		if col.MinValue != nil && col.MaxValue != nil && *col.MinValue > *col.MaxValue {
			return ErrValidation("contract %q: column %q min_value > max_value", c.Name, col.Name)
		}
	}
	for _, pk := range c.PrimaryKey {
		if _, ok := seen[pk]; !ok {
			return ErrValidation("contract %q: primary key column %q not declared", c.Name, pk)
		}
	}
	for fkCol := range c.ForeignKeys {
		if _, ok := seen[fkCol]; !ok {
			return ErrValidation("contract %q: foreign key column %q not declared", c.Name, fkCol)
		}
	}
	return nil
}

// SchemaHash returns a deterministic 8-char hash of the contract's
// (name, dtype, nullable) triples sorted by column name. Used for
// change detection and the audit trail; the truncated md5 format is
// load-bearing for audit continuity and must not change.
func (c *DataContract) SchemaHash() string {
	type triple struct {
		Name     string     `json:"name"`
		DType    ColumnType `json:"dtype"`
		Nullable bool       `json:"nullable"`
	}
	triples := make([]triple, len(c.Columns))
	for i, col := range c.Columns {
		triples[i] = triple{Name: col.Name, DType: col.DType, Nullable: col.Nullable}
	}
	sort.Slice(triples, func(i, j int) bool { return triples[i].Name < triples[j].Name })
	raw, _ := json.Marshal(triples)
	sum := md5.Sum(raw) //nolint:gosec
	return hex.EncodeToString(sum[:])[:8]
}

// ContractAction is the promote/alert/quarantine decision.
type ContractAction string

const (
	// ActionAccept: data passes all checks, promote to the next layer.
	ActionAccept ContractAction = "accept"
	// ActionAlert: accept but notify (non-breaking drift or minor failures).
	ActionAlert ContractAction = "alert"
	// ActionQuarantine: withhold from promotion pending review.
	ActionQuarantine ContractAction = "quarantine"
)

// ColumnCheck is one contract clause evaluated against a column.
type ColumnCheck struct {
	Check       string `json:"check"`
	Passed      bool   `json:"passed"`
	FailedCount int    `json:"failed_count"`
	Detail      string `json:"detail,omitempty"`
}

// ColumnValidation groups the clause results for one declared column.
type ColumnValidation struct {
	Column      string        `json:"column"`
	Checks      []ColumnCheck `json:"checks"`
	FailedCount int           `json:"failed_count"`
}

// ContractValidationResult is the complete outcome of validating a
// dataset against a contract.
//
// FailedRecords is the sum of per-column failed counts; a row failing
// two distinct checks is counted twice, since each check represents an
// independent contract clause.
type ContractValidationResult struct {
	ContractName       string                      `json:"contract_name"`
	ContractVersion    string                      `json:"contract_version"`
	SchemaHash         string                      `json:"schema_hash"`
	Timestamp          time.Time                   `json:"timestamp"`
	SchemaChanges      []SchemaChange              `json:"schema_changes"`
	HasBreakingChanges bool                        `json:"has_breaking_changes"`
	ValueValidation    map[string]ColumnValidation `json:"value_validation"`
	TotalRecords       int                         `json:"total_records"`
	FailedRecords      int                         `json:"failed_records"`
	IsValid            bool                        `json:"is_valid"`
	Action             ContractAction              `json:"action"`
}
