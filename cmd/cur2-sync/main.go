package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/aws"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/columnar"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/config"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/export"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/metrics"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/postgres"
	"github.com/diillson/cur2-parquet-sync/internal/adapter/driving/cli"
	"github.com/diillson/cur2-parquet-sync/internal/application/usecase"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/diillson/cur2-parquet-sync/pkg/console"
	"github.com/diillson/cur2-parquet-sync/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	consoleImpl := console.NewConsole()
	app.SetConfigRepository(config.NewConfigRepository())
	app.SetBootstrap(bootstrap(consoleImpl))

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap conecta ao banco do ledger e à AWS e monta os casos de uso.
func bootstrap(consoleImpl *console.Console) cli.Bootstrap {
	return func(ctx context.Context, env *types.Environment, args *types.CLIArgs) (*cli.Runtime, error) {
		db, err := postgres.New(ctx, consoleImpl, env, postgres.DefaultPoolConfig)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureLedgerSchema(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}

		store, err := aws.NewS3Repository(ctx, consoleImpl, env.ParquetBucket, env.AWSRegion, args.MaxAttempts)
		if err != nil {
			db.Close()
			return nil, err
		}

		accountRepo := postgres.NewAccountRepository(db.Pool)
		ledger := usecase.NewLedgerService(postgres.NewLedgerRepository(db.Pool))

		syncUseCase := usecase.NewSyncUseCase(
			accountRepo,
			store,
			columnar.NewConverter(consoleImpl, args.MemoryThreshold),
			ledger,
			metrics.NewMetricsRecorder(env.PushgatewayURL, consoleImpl),
			export.NewExportRepository(),
			consoleImpl,
		)
		accountsUseCase := usecase.NewAccountsUseCase(
			accountRepo,
			aws.NewIdentityRepository(args.MaxAttempts),
			consoleImpl,
		)

		return &cli.Runtime{
			Sync:     syncUseCase,
			Accounts: accountsUseCase,
			Close:    db.Close,
		}, nil
	}
}
