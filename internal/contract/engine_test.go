package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

func mustDataset(t *testing.T, columns []string, rows [][]any) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(columns, rows)
	require.NoError(t, err)
	return ds
}

func fptrTest(f float64) *float64 { return &f }

func testContract(mode domain.CompatibilityMode) *domain.DataContract {
	return &domain.DataContract{
		Name:              "test_contract",
		Version:           "1.0.0",
		Domain:            "DM",
		CompatibilityMode: mode,
		Columns: []domain.ColumnContract{
			{Name: "ID", DType: domain.TypeString, Nullable: false, Unique: true},
			{Name: "AGE", DType: domain.TypeInt, Nullable: false, MinValue: fptrTest(0), MaxValue: fptrTest(120)},
			{Name: "SEX", DType: domain.TypeString, Nullable: true, AllowedValues: []string{"M", "F"}},
		},
	}
}

func TestDetectSchemaChanges(t *testing.T) {
	t.Run("added_column_non_breaking_under_backward", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX", "EXTRA"}, [][]any{{"S1", 30.0, "M", "x"}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatBackward))
		require.Len(t, changes, 1)
		assert.Equal(t, domain.ChangeColumnAdded, changes[0].ChangeType)
		assert.False(t, changes[0].IsBreaking)
	})

	t.Run("added_column_breaking_under_forward", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX", "EXTRA"}, [][]any{{"S1", 30.0, "M", "x"}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatForward))
		require.Len(t, changes, 1)
		assert.True(t, changes[0].IsBreaking)
	})

	t.Run("removed_column_breaking_under_backward", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE"}, [][]any{{"S1", 30.0}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatBackward))
		require.Len(t, changes, 1)
		assert.Equal(t, domain.ChangeColumnRemoved, changes[0].ChangeType)
		assert.Equal(t, "SEX", changes[0].ColumnName)
		assert.True(t, changes[0].IsBreaking)
	})

	t.Run("removed_column_non_breaking_under_forward", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE"}, [][]any{{"S1", 30.0}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatForward))
		require.Len(t, changes, 1)
		assert.False(t, changes[0].IsBreaking)
	})

	t.Run("int_into_float_column_is_compatible", func(t *testing.T) {
		c := &domain.DataContract{
			Name: "c", Version: "1", Domain: "DM", CompatibilityMode: domain.CompatBackward,
			Columns: []domain.ColumnContract{{Name: "W", DType: domain.TypeFloat, Nullable: true}},
		}
		ds := mustDataset(t, []string{"W"}, [][]any{{70.0}, {82.0}})
		assert.Empty(t, DetectSchemaChanges(ds, c))
	})

	t.Run("string_into_int_column_breaks", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{{"S1", "thirty", "M"}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatBackward))
		require.Len(t, changes, 1)
		assert.Equal(t, domain.ChangeTypeChanged, changes[0].ChangeType)
		assert.True(t, changes[0].IsBreaking)
	})

	t.Run("float_into_int_column_breaks", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{{"S1", 30.5, "M"}})
		changes := DetectSchemaChanges(ds, testContract(domain.CompatBackward))
		require.Len(t, changes, 1)
		assert.True(t, changes[0].IsBreaking)
	})
}

func TestValidateValues(t *testing.T) {
	t.Run("clause_order_fixed", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{{"S1", 30.0, "M"}})
		results := ValidateValues(ds, testContract(domain.CompatBackward))

		age := results["AGE"]
		require.Len(t, age.Checks, 3)
		assert.Equal(t, "not_null", age.Checks[0].Check)
		assert.Equal(t, "min_value", age.Checks[1].Check)
		assert.Equal(t, "max_value", age.Checks[2].Check)
	})

	t.Run("nulls_exempt_from_allowed_values", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{
			{"S1", 30.0, nil},
			{"S2", 30.0, "X"},
		})
		results := ValidateValues(ds, testContract(domain.CompatBackward))
		sex := results["SEX"]
		assert.Equal(t, 1, sex.FailedCount, "null SEX is nullable's concern, not the vocabulary's")
	})

	t.Run("row_failing_two_clauses_counted_twice", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{
			{"S1", 150.0, "M"},
			{"S1", 30.0, "M"},
		})
		results := ValidateValues(ds, testContract(domain.CompatBackward))
		assert.Equal(t, 2, results["ID"].FailedCount, "both duplicate occurrences fail unique")
		assert.Equal(t, 1, results["AGE"].FailedCount)
	})

	t.Run("absent_column_skipped", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE"}, [][]any{{"S1", 30.0}})
		results := ValidateValues(ds, testContract(domain.CompatBackward))
		_, present := results["SEX"]
		assert.False(t, present)
	})
}

func TestValidateAgainstContract(t *testing.T) {
	t.Run("clean_dataset_accepted", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, [][]any{
			{"S1", 30.0, "M"},
			{"S2", 45.0, "F"},
		})
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionAccept, result.Action)
		assert.True(t, result.IsValid)
		assert.Empty(t, result.SchemaChanges)
		assert.NotNil(t, result.SchemaChanges, "wire shape is [] not null")
	})

	t.Run("breaking_change_quarantines", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE"}, [][]any{{"S1", 30.0}})
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionQuarantine, result.Action)
		assert.False(t, result.IsValid)
		assert.True(t, result.HasBreakingChanges)
	})

	t.Run("failure_ratio_above_threshold_quarantines", func(t *testing.T) {
		rows := make([][]any, 100)
		for i := range rows {
			age := 30.0
			if i < 6 {
				age = 200.0 // 6% over the 5% threshold
			}
			rows[i] = []any{stringID(i), age, "M"}
		}
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, rows)
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionQuarantine, result.Action)
		assert.Equal(t, 6, result.FailedRecords)
	})

	t.Run("failure_ratio_at_threshold_alerts", func(t *testing.T) {
		rows := make([][]any, 100)
		for i := range rows {
			age := 30.0
			if i < 5 {
				age = 200.0 // exactly 5%, not above the threshold
			}
			rows[i] = []any{stringID(i), age, "M"}
		}
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, rows)
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionAlert, result.Action)
		assert.True(t, result.IsValid)
	})

	t.Run("non_breaking_change_alone_alerts", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX", "EXTRA"}, [][]any{{"S1", 30.0, "M", "x"}})
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionAlert, result.Action)
		assert.True(t, result.IsValid)
	})

	t.Run("zero_record_dataset_accepted", func(t *testing.T) {
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, nil)
		result, err := ValidateAgainstContract(ds, testContract(domain.CompatBackward))
		require.NoError(t, err)
		assert.Equal(t, domain.ActionAccept, result.Action)
	})

	t.Run("malformed_contract_fails_fast", func(t *testing.T) {
		c := testContract(domain.CompatBackward)
		c.PrimaryKey = []string{"NOT_A_COLUMN"}
		ds := mustDataset(t, []string{"ID", "AGE", "SEX"}, nil)
		_, err := ValidateAgainstContract(ds, c)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func stringID(i int) string {
	return string(rune('A'+i/26)) + string(rune('A'+i%26))
}
