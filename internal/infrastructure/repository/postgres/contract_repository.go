package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ContractRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082701)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS contracts (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	contract_type TEXT,
	type_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	overall_risk TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_reports (
	contract_id TEXT PRIMARY KEY REFERENCES contracts(id) ON DELETE CASCADE,
	report JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status);
CREATE INDEX IF NOT EXISTS idx_contracts_created_at ON contracts(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO contracts (
	id, filename, mime_type, storage_path, contract_type, type_confidence, overall_risk, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		c.ID, c.Filename, c.MimeType, c.StoragePath, c.ContractType, c.TypeConfidence,
		string(c.OverallRisk), string(c.Status), c.Error, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, contract_type, type_confidence, overall_risk, status, error_message, created_at, updated_at
FROM contracts
WHERE id = $1
`, id)

	var c domain.Contract
	var status, risk string

	err := row.Scan(
		&c.ID, &c.Filename, &c.MimeType, &c.StoragePath, &c.ContractType, &c.TypeConfidence,
		&risk, &status, &c.Error, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrContractNotFound, "get contract", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}

	c.Status = domain.ContractStatus(status)
	c.OverallRisk = domain.RiskLevel(risk)
	return &c, nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE contracts
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.WrapError(domain.ErrContractNotFound, "update contract status", fmt.Errorf("id %s", id))
	}
	return nil
}

// SaveReport stores the full report snapshot and mirrors the headline
// verdict onto the contracts row so list views never parse JSONB.
func (r *ContractRepository) SaveReport(ctx context.Context, id string, report domain.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO analysis_reports (contract_id, report, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (contract_id) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at
`, id, reportJSON, report.CreatedAt); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE contracts
SET contract_type = $2, type_confidence = $3, overall_risk = $4, updated_at = $5
WHERE id = $1
`, id, report.Prediction.ContractType, report.Prediction.Confidence, string(report.Summary.OverallRisk), time.Now().UTC()); err != nil {
		return fmt.Errorf("update contract verdict: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report tx: %w", err)
	}
	return nil
}

func (r *ContractRepository) GetReport(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT report FROM analysis_reports WHERE contract_id = $1
`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrContractNotFound, "get report", fmt.Errorf("contract %s", id))
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	var report domain.AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}
