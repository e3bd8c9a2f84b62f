package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
)

// tierColumns é a lista fechada de colunas usadas no filtro por tier.
var tierColumns = map[entity.ReportTier]string{
	entity.TierHourly:  "hourly_export",
	entity.TierDaily:   "daily_export",
	entity.TierMonthly: "monthly_export",
}

// AccountRepositoryImpl lê a tabela exports.
type AccountRepositoryImpl struct {
	db Executor
}

// NewAccountRepository cria uma nova implementação do AccountRepository.
func NewAccountRepository(db Executor) repository.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// buildAccountQuery monta a consulta de contas com os filtros opcionais.
func buildAccountQuery(filter entity.AccountFilter) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT account_id, account_name, region_name, access_key_id, secret_access_key,
		bucket, prefix, hourly_export, daily_export, monthly_export
		FROM exports
		WHERE bucket IS NOT NULL AND bucket <> ''`)

	if filter.PayerID != "" {
		args = append(args, filter.PayerID)
		fmt.Fprintf(&b, " AND account_id = $%d", len(args))
	}
	if filter.Tier != nil {
		col, ok := tierColumns[*filter.Tier]
		if !ok {
			return "", nil, fmt.Errorf("invalid report tier %q", *filter.Tier)
		}
		fmt.Fprintf(&b, " AND %s IS NOT NULL AND %s <> ''", col, col)
	}
	b.WriteString(" ORDER BY account_id")
	return b.String(), args, nil
}

// ListAccounts devolve as contas com bucket de export configurado.
func (r *AccountRepositoryImpl) ListAccounts(ctx context.Context, filter entity.AccountFilter) ([]entity.Account, error) {
	query, args, err := buildAccountQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var accounts []entity.Account
	for rows.Next() {
		var row exportsRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan exports row: %w", err)
		}
		accounts = append(accounts, row.account())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return accounts, nil
}

// exportsRow espelha as colunas selecionadas por buildAccountQuery. Só
// account_id e bucket são obrigatórios; o resto aceita NULL.
type exportsRow struct {
	accountID       string
	name            *string
	region          *string
	accessKeyID     *string
	secretAccessKey *string
	bucket          string
	prefix          *string
	hourlyExport    *string
	dailyExport     *string
	monthlyExport   *string
}

func (r *exportsRow) dest() []any {
	return []any{
		&r.accountID,
		&r.name,
		&r.region,
		&r.accessKeyID,
		&r.secretAccessKey,
		&r.bucket,
		&r.prefix,
		&r.hourlyExport,
		&r.dailyExport,
		&r.monthlyExport,
	}
}

func (r exportsRow) account() entity.Account {
	return entity.Account{
		AccountID:       r.accountID,
		Name:            deref(r.name),
		Region:          deref(r.region),
		AccessKeyID:     strings.TrimSpace(deref(r.accessKeyID)),
		SecretAccessKey: strings.TrimSpace(deref(r.secretAccessKey)),
		Bucket:          r.bucket,
		Prefix:          strings.Trim(deref(r.prefix), "/"),
		HourlyExport:    r.hourlyExport,
		DailyExport:     r.dailyExport,
		MonthlyExport:   r.monthlyExport,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
