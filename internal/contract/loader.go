package contract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clingov/internal/domain"
)

// Load reads a contract definition from a YAML file and validates it.
// Malformed definitions fail here, before any dataset is evaluated.
func Load(path string) (*domain.DataContract, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read contract %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML contract definition.
func Parse(raw []byte) (*domain.DataContract, error) {
	var c domain.DataContract
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, domain.ErrValidation("parse contract: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes a contract definition to a YAML file. The contract is
// validated first so a malformed definition is never persisted.
func Save(c *domain.DataContract, path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal contract %s: %w", c.Name, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil { //nolint:gosec // contracts are shared definitions
		return fmt.Errorf("write contract %s: %w", path, err)
	}
	return nil
}
