package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/shared/testutil"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondAccount() entity.Account {
	return entity.Account{
		AccountID:     "210987654321",
		Name:          "subsidiary",
		Region:        "sa-east-1",
		Bucket:        "sub-cur",
		MonthlyExport: strPtr("monthly-report"),
	}
}

func TestAccountsUseCaseListAccounts(t *testing.T) {
	console := testutil.NewConsole()
	uc := NewAccountsUseCase(&fakeAccounts{accounts: []entity.Account{testAccount(), secondAccount()}}, &fakeIdentity{}, console)

	require.NoError(t, uc.ListAccounts(context.Background(), entity.AccountFilter{}, false))

	out := console.Output.String()
	assert.Contains(t, out, "Account ID | Name | Region | Source | Tiers")
	assert.Contains(t, out, testAccountID+" | payer | us-east-1 | s3://payer-cur/cur | daily")
	assert.Contains(t, out, "210987654321 | subsidiary | sa-east-1 | s3://sub-cur | monthly")
	assert.NotContains(t, out, "Credentials")
	assert.Empty(t, console.Statuses)
}

func TestAccountsUseCaseVerify(t *testing.T) {
	tests := []struct {
		name       string
		identities map[string]string
		wantErr    error
		wantCell   string
		wantWarn   bool
	}{
		{name: "valid credentials", identities: map[string]string{testAccountID: testAccountID}, wantCell: "ok"},
		{name: "credentials from another account", identities: map[string]string{testAccountID: "999999999999"}, wantCell: "mismatch (999999999999)", wantWarn: true},
		{name: "rejected credentials", identities: map[string]string{}, wantCell: "error", wantErr: types.ErrSyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := testutil.NewConsole()
			uc := NewAccountsUseCase(&fakeAccounts{accounts: []entity.Account{testAccount()}}, &fakeIdentity{accounts: tt.identities}, console)

			err := uc.ListAccounts(context.Background(), entity.AccountFilter{}, true)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, console.Output.String(), "| Credentials")
			assert.Contains(t, console.Output.String(), "| "+tt.wantCell)
			assert.Equal(t, tt.wantWarn, len(console.Warnings) > 0)
			assert.Equal(t, []string{"Verifying credentials", "Verifying credentials for " + testAccountID}, console.Statuses)
			assert.Equal(t, 1, console.Stops)
		})
	}
}

func TestAccountsUseCaseErrors(t *testing.T) {
	console := testutil.NewConsole()

	uc := NewAccountsUseCase(&fakeAccounts{}, &fakeIdentity{}, console)
	assert.ErrorIs(t, uc.ListAccounts(context.Background(), entity.AccountFilter{}, false), types.ErrNoAccounts)

	boom := errors.New("db down")
	uc = NewAccountsUseCase(&fakeAccounts{err: boom}, &fakeIdentity{}, console)
	assert.ErrorIs(t, uc.ListAccounts(context.Background(), entity.AccountFilter{}, false), boom)

	monthly := entity.TierMonthly
	uc = NewAccountsUseCase(&fakeAccounts{accounts: []entity.Account{testAccount(), secondAccount()}}, &fakeIdentity{}, console)
	require.NoError(t, uc.ListAccounts(context.Background(), entity.AccountFilter{Tier: &monthly}, false))
	assert.NotContains(t, console.Output.String(), testAccountID)
}
