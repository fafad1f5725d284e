// Package testutil provides shared mock implementations of domain
// interfaces for use in tests across the codebase. This follows the Go
// convention of a shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"clingov/internal/domain"
)

// === Lineage Event Repository Mock ===

// MockLineageEventRepo implements domain.LineageEventRepository for testing.
type MockLineageEventRepo struct {
	InsertFn         func(ctx context.Context, ev *domain.LineageEvent) error
	ListFn           func(ctx context.Context) ([]domain.LineageEvent, error)
	PurgeOlderThanFn func(ctx context.Context, before time.Time) (int64, error)
	Events           []*domain.LineageEvent // collected events for assertions
}

// Insert implements the interface method for testing.
func (m *MockLineageEventRepo) Insert(ctx context.Context, ev *domain.LineageEvent) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, ev); err != nil {
			return err
		}
	}
	m.Events = append(m.Events, ev)
	return nil
}

// List implements the interface method for testing.
func (m *MockLineageEventRepo) List(ctx context.Context) ([]domain.LineageEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	out := make([]domain.LineageEvent, len(m.Events))
	for i, ev := range m.Events {
		out[i] = *ev
	}
	return out, nil
}

// PurgeOlderThan implements the interface method for testing.
func (m *MockLineageEventRepo) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeOlderThanFn != nil {
		return m.PurgeOlderThanFn(ctx, before)
	}
	panic("unexpected call to MockLineageEventRepo.PurgeOlderThan")
}

// LastEvent returns the last collected event, or nil if none.
func (m *MockLineageEventRepo) LastEvent() *domain.LineageEvent {
	if len(m.Events) == 0 {
		return nil
	}
	return m.Events[len(m.Events)-1]
}

var _ domain.LineageEventRepository = (*MockLineageEventRepo)(nil)

// === Quality Report Repository Mock ===

// MockQualityReportRepo implements domain.QualityReportRepository for testing.
type MockQualityReportRepo struct {
	InsertFn func(ctx context.Context, report *domain.QualityReport) error
	ListFn   func(ctx context.Context, domainKey string, page domain.PageRequest) ([]domain.QualityReport, int64, error)
	Reports  []*domain.QualityReport
}

// Insert implements the interface method for testing.
func (m *MockQualityReportRepo) Insert(ctx context.Context, report *domain.QualityReport) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, report); err != nil {
			return err
		}
	}
	m.Reports = append(m.Reports, report)
	return nil
}

// List implements the interface method for testing.
func (m *MockQualityReportRepo) List(ctx context.Context, domainKey string, page domain.PageRequest) ([]domain.QualityReport, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, domainKey, page)
	}
	panic("unexpected call to MockQualityReportRepo.List")
}

var _ domain.QualityReportRepository = (*MockQualityReportRepo)(nil)

// === Contract Result Repository Mock ===

// MockContractResultRepo implements domain.ContractResultRepository for testing.
type MockContractResultRepo struct {
	InsertFn func(ctx context.Context, result *domain.ContractValidationResult) error
	ListFn   func(ctx context.Context, contractName string, page domain.PageRequest) ([]domain.ContractValidationResult, int64, error)
	Results  []*domain.ContractValidationResult
}

// Insert implements the interface method for testing.
func (m *MockContractResultRepo) Insert(ctx context.Context, result *domain.ContractValidationResult) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, result); err != nil {
			return err
		}
	}
	m.Results = append(m.Results, result)
	return nil
}

// List implements the interface method for testing.
func (m *MockContractResultRepo) List(ctx context.Context, contractName string, page domain.PageRequest) ([]domain.ContractValidationResult, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, contractName, page)
	}
	panic("unexpected call to MockContractResultRepo.List")
}

var _ domain.ContractResultRepository = (*MockContractResultRepo)(nil)
