package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

// DefaultMaxAttempts é o número de tentativas do retryer padrão do SDK.
const DefaultMaxAttempts = 3

// clientRegistry mantém um cliente por conta durante toda a execução.
type clientRegistry struct {
	maxAttempts int
	cfgCache    map[string]aws.Config
	s3Cache     map[string]S3API
	stsCache    map[string]STSAPI
	mu          sync.Mutex

	// fábricas substituíveis em testes
	loadConfig func(ctx context.Context, account entity.Account, maxAttempts int) (aws.Config, error)
	newS3      func(cfg aws.Config) S3API
	newSTS     func(cfg aws.Config) STSAPI
}

func newClientRegistry(maxAttempts int) *clientRegistry {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &clientRegistry{
		maxAttempts: maxAttempts,
		cfgCache:    make(map[string]aws.Config),
		s3Cache:     make(map[string]S3API),
		stsCache:    make(map[string]STSAPI),
		loadConfig:  loadAccountConfig,
		newS3:       func(cfg aws.Config) S3API { return s3.NewFromConfig(cfg) },
		newSTS:      func(cfg aws.Config) STSAPI { return sts.NewFromConfig(cfg) },
	}
}

func cacheKey(account entity.Account) string {
	return fmt.Sprintf("%s-%s", account.AccountID, account.Region)
}

// accountConfig carrega e guarda em cache a configuração AWS da conta.
func (r *clientRegistry) accountConfig(ctx context.Context, account entity.Account) (aws.Config, error) {
	key := cacheKey(account)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[key]; ok {
		return cfg, nil
	}

	cfg, err := r.loadConfig(ctx, account, r.maxAttempts)
	if err != nil {
		return aws.Config{}, err
	}

	r.cfgCache[key] = cfg
	return cfg, nil
}

func loadAccountConfig(ctx context.Context, account entity.Account, maxAttempts int) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(account.Region),
		config.WithRetryMaxAttempts(maxAttempts),
	}
	// Sem chaves na tabela, vale a cadeia padrão do SDK (env, perfil, role).
	if account.HasStaticCredentials() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(account.AccessKeyID, account.SecretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for account %s: %w", account.AccountID, err)
	}
	return cfg, nil
}

func (r *clientRegistry) s3Client(ctx context.Context, account entity.Account) (S3API, error) {
	key := cacheKey(account)

	r.mu.Lock()
	if client, ok := r.s3Cache[key]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.accountConfig(ctx, account)
	if err != nil {
		return nil, err
	}

	client := r.newS3(cfg)

	r.mu.Lock()
	r.s3Cache[key] = client
	r.mu.Unlock()

	return client, nil
}

func (r *clientRegistry) stsClient(ctx context.Context, account entity.Account) (STSAPI, error) {
	key := cacheKey(account)

	r.mu.Lock()
	if client, ok := r.stsCache[key]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.accountConfig(ctx, account)
	if err != nil {
		return nil, err
	}

	client := r.newSTS(cfg)

	r.mu.Lock()
	r.stsCache[key] = client
	r.mu.Unlock()

	return client, nil
}

// defaultConfig carrega a cadeia padrão de credenciais do processo para o bucket de destino.
func defaultConfig(ctx context.Context, region string, maxAttempts int) (aws.Config, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMaxAttempts(maxAttempts),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load default AWS config: %w", err)
	}
	return cfg, nil
}
