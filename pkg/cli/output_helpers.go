package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadDataset reads a dataset from a JSON file. The file holds either
// the columnar wire form {"columns":[...],"rows":[[...]]} or a plain
// array of record objects.
func loadDataset(path string) (*dataset.Dataset, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(raw, &ds); err == nil {
		return &ds, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, domain.ErrValidation("dataset %s is neither columnar nor a record array", path)
	}
	return dataset.FromRecords(records)
}
