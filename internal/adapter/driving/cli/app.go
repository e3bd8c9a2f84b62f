package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diillson/cur2-parquet-sync/internal/adapter/driven/columnar"
	"github.com/diillson/cur2-parquet-sync/internal/application/usecase"
	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/diillson/cur2-parquet-sync/pkg/console"
	"github.com/diillson/cur2-parquet-sync/pkg/version"
	"github.com/spf13/cobra"
)

// Runtime agrupa os casos de uso montados a partir do ambiente resolvido.
type Runtime struct {
	Sync     *usecase.SyncUseCase
	Accounts *usecase.AccountsUseCase
	Close    func()
}

// Bootstrap conecta banco e AWS e monta o Runtime. É fornecido pelo main.
type Bootstrap func(ctx context.Context, env *types.Environment, args *types.CLIArgs) (*Runtime, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	bootstrap  Bootstrap
	version    string
	quiet      bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "cur2-sync",
		Short:         "Sync AWS CUR 2.0 exports into a partitioned Parquet bucket",
		Version:       formattedVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "CUR2 Parquet Sync version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("payer", "", "Only process this payer account id")
	rootCmd.PersistentFlags().String("tier", "", "Only process this report tier: hourly, daily or monthly")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int("max-attempts", 3, "Maximum attempts for each AWS API call")

	rootCmd.Flags().Bool("full", false, "Run over every billing period found (recorded in the run summary)")
	rootCmd.Flags().Bool("force", false, "Reprocess manifests even when the ledger says they are up to date")
	rootCmd.Flags().String("path", "", "Only process this partition, e.g. BILLING_PERIOD=2025-06")
	rootCmd.Flags().Int("memory-threshold", columnar.DefaultMemoryThresholdMiB, "Files at or above this size in MiB are converted through a temporary directory")
	rootCmd.Flags().StringP("report-name", "n", "", "Base name for the run summary report file (without extension)")
	rootCmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Run summary report types: csv, json, pdf")
	rootCmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.Flags().String("pushgateway-url", "", "Prometheus Pushgateway URL (overrides PUSHGATEWAY_URL)")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts with a configured CUR export",
		RunE:  app.runAccounts,
	}
	accountsCmd.Flags().Bool("verify", false, "Check each account's credentials with STS")
	rootCmd.AddCommand(accountsCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetConfigRepository define o repositório usado para resolver a configuração.
func (app *CLIApp) SetConfigRepository(repo repository.ConfigRepository) {
	app.configRepo = repo
}

// SetBootstrap define a função que monta os casos de uso.
func (app *CLIApp) SetBootstrap(b Bootstrap) {
	app.bootstrap = b
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	payer, _ := flags.GetString("payer")
	tier, _ := flags.GetString("tier")
	debug, _ := flags.GetBool("debug")
	maxAttempts, _ := flags.GetInt("max-attempts")
	full, _ := flags.GetBool("full")
	force, _ := flags.GetBool("force")
	path, _ := flags.GetString("path")
	memoryThreshold, _ := flags.GetInt("memory-threshold")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	pushgatewayURL, _ := flags.GetString("pushgateway-url")
	verify, _ := flags.GetBool("verify")

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	if maxAttempts <= 0 {
		return nil, fmt.Errorf("--max-attempts must be positive, got %d", maxAttempts)
	}

	return &types.CLIArgs{
		ConfigFile:      configFile,
		Full:            full,
		Force:           force,
		Payer:           payer,
		Tier:            tier,
		Path:            path,
		MemoryThreshold: memoryThreshold,
		MaxAttempts:     maxAttempts,
		Debug:           debug,
		ReportName:      reportName,
		ReportType:      reportType,
		Dir:             dir,
		PushgatewayURL:  pushgatewayURL,
		Verify:          verify,
	}, nil
}

// syncOptions valida os filtros e monta as opções da execução.
func syncOptions(args *types.CLIArgs) (entity.SyncOptions, error) {
	opts := entity.SyncOptions{
		Full:    args.Full,
		Force:   args.Force,
		PayerID: args.Payer,
	}

	if args.Tier != "" {
		tier, err := entity.ParseReportTier(args.Tier)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", types.ErrInvalidTier, err)
		}
		opts.Tier = &tier
	}

	if args.Path != "" {
		if err := entity.ValidatePartitionFilter(args.Path); err != nil {
			return opts, fmt.Errorf("%w: %v", types.ErrInvalidPartitionFilter, err)
		}
		opts.PartitionFilter = args.Path
	}

	if args.MemoryThreshold <= 0 {
		return opts, fmt.Errorf("--memory-threshold must be positive, got %d", args.MemoryThreshold)
	}
	return opts, nil
}

// resolveEnvironment carrega o arquivo de configuração, se houver, e aplica o ambiente.
func (app *CLIApp) resolveEnvironment(args *types.CLIArgs) (*types.Environment, error) {
	var fileCfg *types.Config
	if args.ConfigFile != "" {
		cfg, err := app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		fileCfg = cfg
	}

	env, err := app.configRepo.ResolveEnvironment(fileCfg)
	if err != nil {
		return nil, err
	}
	if args.PushgatewayURL != "" {
		env.PushgatewayURL = args.PushgatewayURL
	}
	return env, nil
}

// prepare resolve a configuração e monta o Runtime.
func (app *CLIApp) prepare(ctx context.Context, cliArgs *types.CLIArgs) (*Runtime, error) {
	console.SetDebug(cliArgs.Debug)

	env, err := app.resolveEnvironment(cliArgs)
	if err != nil {
		return nil, err
	}
	return app.bootstrap(ctx, env, cliArgs)
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	if !app.quiet {
		displayWelcomeBanner()
		go version.CheckLatestVersion(app.version)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Filtros inválidos abortam antes de qualquer conexão.
	cliArgs, err := parseArgs(cmd)
	if err != nil {
		return err
	}
	opts, err := syncOptions(cliArgs)
	if err != nil {
		return err
	}

	rt, err := app.prepare(ctx, cliArgs)
	if err != nil {
		return err
	}
	if rt.Close != nil {
		defer rt.Close()
	}

	summary, err := rt.Sync.RunSync(ctx, opts)
	if err != nil {
		return err
	}

	rt.Sync.DisplaySummary(summary)
	rt.Sync.ExportSummary(summary, cliArgs.ReportName, cliArgs.ReportType, cliArgs.Dir)

	if summary.Failed() {
		return types.ErrSyncFailed
	}
	return nil
}

// runAccounts lista as contas configuradas.
func (app *CLIApp) runAccounts(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliArgs, err := parseArgs(cmd)
	if err != nil {
		return err
	}
	filter := entity.AccountFilter{PayerID: cliArgs.Payer}
	if cliArgs.Tier != "" {
		tier, err := entity.ParseReportTier(cliArgs.Tier)
		if err != nil {
			return fmt.Errorf("%w: %v", types.ErrInvalidTier, err)
		}
		filter.Tier = &tier
	}

	rt, err := app.prepare(ctx, cliArgs)
	if err != nil {
		return err
	}
	if rt.Close != nil {
		defer rt.Close()
	}

	return rt.Accounts.ListAccounts(ctx, filter, cliArgs.Verify)
}
