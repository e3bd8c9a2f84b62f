package repository

import (
	"context"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

// LedgerRepository persiste um ProcessingRecord por (account_id, manifest_path).
type LedgerRepository interface {
	Get(ctx context.Context, accountID, manifestPath string) (*entity.ProcessingRecord, error)
	Upsert(ctx context.Context, record entity.ProcessingRecord) error
}

// AccountRepository lê a configuração de exports das contas.
type AccountRepository interface {
	ListAccounts(ctx context.Context, filter entity.AccountFilter) ([]entity.Account, error)
}
