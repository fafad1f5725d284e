package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clingov/internal/domain"
)

// QualityReportRepo persists quality validation reports. Inserts go
// through the write pool; List rides the read pool.
type QualityReportRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

func NewQualityReportRepo(writeDB, readDB *sql.DB) *QualityReportRepo {
	return &QualityReportRepo{writeDB: writeDB, readDB: readDB}
}

var _ domain.QualityReportRepository = (*QualityReportRepo)(nil)

func (r *QualityReportRepo) Insert(ctx context.Context, report *domain.QualityReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal quality report: %w", err)
	}

	_, err = r.writeDB.ExecContext(ctx, `
		INSERT INTO quality_reports (domain, source_path, status, total_records, validation_timestamp, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.Domain, report.SourcePath, string(report.Status),
		report.TotalRecords, report.ValidationTimestamp.UTC(), string(payload),
	)
	return mapDBError(err)
}

// List returns stored reports for a domain, newest first, plus the
// total count before paging. An empty domain matches all domains.
func (r *QualityReportRepo) List(ctx context.Context, domainKey string, page domain.PageRequest) ([]domain.QualityReport, int64, error) {
	var total int64
	err := r.readDB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quality_reports WHERE (? = '' OR domain = ?)`,
		domainKey, domainKey).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.readDB.QueryContext(ctx, `
		SELECT payload FROM quality_reports
		WHERE (? = '' OR domain = ?)
		ORDER BY validation_timestamp DESC, id DESC
		LIMIT ? OFFSET ?`,
		domainKey, domainKey, page.EffectiveLimit(), page.EffectiveOffset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var reports []domain.QualityReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, mapDBError(err)
		}
		var report domain.QualityReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, 0, fmt.Errorf("unmarshal quality report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, total, rows.Err()
}

// ContractResultRepo persists contract validation outcomes. Inserts go
// through the write pool; List rides the read pool.
type ContractResultRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

func NewContractResultRepo(writeDB, readDB *sql.DB) *ContractResultRepo {
	return &ContractResultRepo{writeDB: writeDB, readDB: readDB}
}

var _ domain.ContractResultRepository = (*ContractResultRepo)(nil)

func (r *ContractResultRepo) Insert(ctx context.Context, result *domain.ContractValidationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal contract result: %w", err)
	}

	_, err = r.writeDB.ExecContext(ctx, `
		INSERT INTO contract_results (contract_name, contract_version, schema_hash, action, is_valid, timestamp, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ContractName, result.ContractVersion, result.SchemaHash,
		string(result.Action), boolToInt(result.IsValid), result.Timestamp.UTC(), string(payload),
	)
	return mapDBError(err)
}

// List returns stored results for a contract name, newest first, plus
// the total count before paging. An empty name matches all contracts.
func (r *ContractResultRepo) List(ctx context.Context, contractName string, page domain.PageRequest) ([]domain.ContractValidationResult, int64, error) {
	var total int64
	err := r.readDB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contract_results WHERE (? = '' OR contract_name = ?)`,
		contractName, contractName).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.readDB.QueryContext(ctx, `
		SELECT payload FROM contract_results
		WHERE (? = '' OR contract_name = ?)
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`,
		contractName, contractName, page.EffectiveLimit(), page.EffectiveOffset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var results []domain.ContractValidationResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, mapDBError(err)
		}
		var result domain.ContractValidationResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, 0, fmt.Errorf("unmarshal contract result: %w", err)
		}
		results = append(results, result)
	}
	return results, total, rows.Err()
}
