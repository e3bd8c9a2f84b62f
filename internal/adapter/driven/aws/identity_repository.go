package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
)

// IdentityRepositoryImpl valida as chaves de uma conta via STS.
type IdentityRepositoryImpl struct {
	registry *clientRegistry
}

// NewIdentityRepository cria uma nova implementação do IdentityRepository.
func NewIdentityRepository(maxAttempts int) repository.IdentityRepository {
	return &IdentityRepositoryImpl{registry: newClientRegistry(maxAttempts)}
}

// CallerAccount devolve o account id associado às credenciais da conta.
func (r *IdentityRepositoryImpl) CallerAccount(ctx context.Context, account entity.Account) (string, error) {
	client, err := r.registry.stsClient(ctx, account)
	if err != nil {
		return "", err
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity for account %s: %w", account.AccountID, err)
	}
	return aws.ToString(out.Account), nil
}
