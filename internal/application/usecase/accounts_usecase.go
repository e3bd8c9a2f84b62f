package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
)

// AccountsUseCase lista as contas configuradas e, opcionalmente, valida as credenciais.
type AccountsUseCase struct {
	accountRepo  repository.AccountRepository
	identityRepo repository.IdentityRepository
	console      types.ConsoleInterface
}

// NewAccountsUseCase creates a new accounts use case.
func NewAccountsUseCase(
	accountRepo repository.AccountRepository,
	identityRepo repository.IdentityRepository,
	console types.ConsoleInterface,
) *AccountsUseCase {
	return &AccountsUseCase{
		accountRepo:  accountRepo,
		identityRepo: identityRepo,
		console:      console,
	}
}

// ListAccounts exibe a tabela de contas. Com verify, consulta o STS de cada conta
// e devolve ErrSyncFailed se alguma credencial for rejeitada.
func (uc *AccountsUseCase) ListAccounts(ctx context.Context, filter entity.AccountFilter, verify bool) error {
	accounts, err := uc.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return types.ErrNoAccounts
	}

	table := uc.console.CreateTable()
	table.AddColumn("Account ID")
	table.AddColumn("Name")
	table.AddColumn("Region")
	table.AddColumn("Source")
	table.AddColumn("Tiers")
	if verify {
		table.AddColumn("Credentials")
	}

	var spinner types.StatusHandle
	if verify {
		spinner = uc.console.Status("Verifying credentials")
	}

	failed := false
	for _, a := range accounts {
		row := []interface{}{
			a.AccountID,
			a.Name,
			a.Region,
			"s3://" + strings.TrimSuffix(a.Bucket+"/"+a.Prefix, "/"),
			strings.Join(a.Tiers(), ", "),
		}
		if verify {
			spinner.Update(fmt.Sprintf("Verifying credentials for %s", a.AccountID))
			status := uc.verify(ctx, a)
			if status == "error" {
				failed = true
			}
			row = append(row, status)
		}
		table.AddRow(row...)
	}
	if spinner != nil {
		spinner.Stop()
	}

	uc.console.Println(table.Render())
	if failed {
		return types.ErrSyncFailed
	}
	return nil
}

func (uc *AccountsUseCase) verify(ctx context.Context, a entity.Account) string {
	caller, err := uc.identityRepo.CallerAccount(ctx, a)
	if err != nil {
		uc.console.LogError("Credential check failed for %s: %v", a.AccountID, err)
		return "error"
	}
	if caller != a.AccountID {
		uc.console.LogWarning("Credentials for %s belong to account %s", a.AccountID, caller)
		return "mismatch (" + caller + ")"
	}
	return "ok"
}
