package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
)

const ledgerTable = "processedfiles"

// LedgerRepositoryImpl implementa o LedgerRepository em PostgreSQL.
type LedgerRepositoryImpl struct {
	db Executor
}

// NewLedgerRepository cria uma nova implementação do LedgerRepository.
func NewLedgerRepository(db Executor) repository.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// EnsureLedgerSchema cria a tabela do ledger quando ainda não existe.
func EnsureLedgerSchema(ctx context.Context, db Executor) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + ledgerTable + ` (
			account_id TEXT NOT NULL,
			manifest_path TEXT NOT NULL,
			manifest_partition TEXT NOT NULL,
			report_type TEXT NOT NULL,
			manifest_last_modified TIMESTAMP WITH TIME ZONE NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT,
			processed_at TIMESTAMP WITH TIME ZONE NOT NULL,
			expected_files JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			PRIMARY KEY (account_id, manifest_path)
		)
	`
	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", ledgerTable, err)
	}
	return nil
}

// Get busca o registro de um manifest; devolve nil quando não existe.
func (r *LedgerRepositoryImpl) Get(ctx context.Context, accountID, manifestPath string) (*entity.ProcessingRecord, error) {
	query := `
		SELECT account_id, manifest_path, manifest_partition, report_type,
			manifest_last_modified, status, error_message, expected_files,
			processed_at, updated_at
		FROM ` + ledgerTable + `
		WHERE account_id = $1 AND manifest_path = $2
	`

	var (
		rec          entity.ProcessingRecord
		tier, status string
		expected     []byte
	)
	err := r.db.QueryRow(ctx, query, accountID, manifestPath).Scan(
		&rec.AccountID,
		&rec.ManifestPath,
		&rec.Partition,
		&tier,
		&rec.ManifestLastModified,
		&status,
		&rec.ErrorMessage,
		&expected,
		&rec.ProcessedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query ledger for %s: %w", manifestPath, err)
	}

	rec.ReportTier = entity.ReportTier(tier)
	rec.Status = entity.ProcessingStatus(status)
	rec.ManifestLastModified = rec.ManifestLastModified.UTC()
	if rec.ExpectedFiles, err = decodeExpectedFiles(expected); err != nil {
		return nil, fmt.Errorf("invalid expected_files for %s: %w", manifestPath, err)
	}
	return &rec, nil
}

// Upsert grava o registro, sobrescrevendo a linha existente da mesma chave.
func (r *LedgerRepositoryImpl) Upsert(ctx context.Context, rec entity.ProcessingRecord) error {
	query := `
		INSERT INTO ` + ledgerTable + ` (
			account_id, manifest_path, manifest_partition, report_type,
			manifest_last_modified, status, error_message, processed_at,
			expected_files, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, NOW())
		ON CONFLICT (account_id, manifest_path) DO UPDATE SET
			manifest_partition = EXCLUDED.manifest_partition,
			report_type = EXCLUDED.report_type,
			manifest_last_modified = EXCLUDED.manifest_last_modified,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			processed_at = EXCLUDED.processed_at,
			expected_files = EXCLUDED.expected_files,
			updated_at = NOW()
	`

	expected, err := encodeExpectedFiles(rec.ExpectedFiles)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		rec.AccountID,
		rec.ManifestPath,
		rec.Partition,
		string(rec.ReportTier),
		rec.ManifestLastModified.UTC(),
		string(rec.Status),
		rec.ErrorMessage,
		rec.ProcessedAt.UTC().Truncate(time.Microsecond),
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ledger record for %s: %w", rec.ManifestPath, err)
	}
	return nil
}

func encodeExpectedFiles(files []string) (string, error) {
	if files == nil {
		files = []string{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("failed to encode expected_files: %w", err)
	}
	return string(b), nil
}

func decodeExpectedFiles(b []byte) ([]string, error) {
	if len(b) == 0 {
		return []string{}, nil
	}
	var files []string
	if err := json.Unmarshal(b, &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}
	return files, nil
}
