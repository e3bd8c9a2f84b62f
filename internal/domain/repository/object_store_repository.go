package repository

import (
	"context"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

// ObjectStoreRepository abstrai os buckets de origem (por conta) e o bucket de destino.
type ObjectStoreRepository interface {
	// Source (credenciais da conta)
	GetObject(ctx context.Context, account entity.Account, key string) entity.ObjectResult
	GetObjectMetadata(ctx context.Context, account entity.Account, key string) entity.MetadataResult
	ListSource(ctx context.Context, account entity.Account, prefix, delimiter string) (entity.Listing, error)

	// Destination (credenciais padrão do processo)
	CheckObjectExists(ctx context.Context, key string) (bool, *entity.ObjectMetadata)
	PutObject(ctx context.Context, key string, body []byte) bool
	ListTarget(ctx context.Context, prefix, delimiter string) (entity.Listing, error)
	DeleteTarget(ctx context.Context, key string) error
}

// IdentityRepository verifica a identidade associada às credenciais de uma conta.
type IdentityRepository interface {
	CallerAccount(ctx context.Context, account entity.Account) (string, error)
}
