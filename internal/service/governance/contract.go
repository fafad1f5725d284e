package governance

import (
	"context"
	"log/slog"

	"clingov/internal/contract"
	"clingov/internal/dataset"
	"clingov/internal/domain"
)

// ContractService validates datasets against schema contracts and
// persists the outcomes.
type ContractService struct {
	results domain.ContractResultRepository
	logger  *slog.Logger
}

// NewContractService creates a new ContractService.
func NewContractService(results domain.ContractResultRepository, logger *slog.Logger) *ContractService {
	return &ContractService{results: results, logger: logger}
}

// GetContract returns the prebuilt contract for a clinical domain code.
func (s *ContractService) GetContract(_ context.Context, domainKey string) (*domain.DataContract, error) {
	return contract.ForDomain(domainKey)
}

// SupportedDomains lists the domain codes with prebuilt contracts.
func (s *ContractService) SupportedDomains() []string {
	return contract.SupportedDomains()
}

// ValidateDomain validates a dataset against the prebuilt contract for
// the domain and persists the result.
func (s *ContractService) ValidateDomain(ctx context.Context, domainKey string, ds *dataset.Dataset) (*domain.ContractValidationResult, error) {
	c, err := contract.ForDomain(domainKey)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, c, ds)
}

// ValidateContract validates a dataset against a caller-supplied
// contract and persists the result.
func (s *ContractService) ValidateContract(ctx context.Context, c *domain.DataContract, ds *dataset.Dataset) (*domain.ContractValidationResult, error) {
	return s.validate(ctx, c, ds)
}

func (s *ContractService) validate(ctx context.Context, c *domain.DataContract, ds *dataset.Dataset) (*domain.ContractValidationResult, error) {
	result, err := contract.ValidateAgainstContract(ds, c)
	if err != nil {
		return nil, err
	}

	if err := s.results.Insert(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("contract validation complete",
		"contract", result.ContractName,
		"version", result.ContractVersion,
		"action", string(result.Action),
		"breaking_changes", result.HasBreakingChanges,
		"failed_records", result.FailedRecords,
	)
	return result, nil
}

// ListResults returns stored results for a contract name (all when
// empty), newest first, plus the total count before paging.
func (s *ContractService) ListResults(ctx context.Context, contractName string, page domain.PageRequest) ([]domain.ContractValidationResult, int64, error) {
	return s.results.List(ctx, contractName, page)
}
