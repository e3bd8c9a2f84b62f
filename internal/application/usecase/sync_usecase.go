package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/google/uuid"
)

// SyncUseCase coordena a sincronização dos exports CUR para o bucket de destino.
type SyncUseCase struct {
	accountRepo repository.AccountRepository
	store       repository.ObjectStoreRepository
	converter   repository.FormatConverter
	ledger      *LedgerService
	metrics     repository.MetricsRecorder
	exportRepo  repository.ExportRepository
	console     types.ConsoleInterface

	now      func() time.Time
	newRunID func() string
}

// NewSyncUseCase creates a new sync use case.
func NewSyncUseCase(
	accountRepo repository.AccountRepository,
	store repository.ObjectStoreRepository,
	converter repository.FormatConverter,
	ledger *LedgerService,
	metrics repository.MetricsRecorder,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *SyncUseCase {
	return &SyncUseCase{
		accountRepo: accountRepo,
		store:       store,
		converter:   converter,
		ledger:      ledger,
		metrics:     metrics,
		exportRepo:  exportRepo,
		console:     console,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// RunSync percorre contas, tiers e partições. Falhas por item são registradas
// no resumo; apenas erros de inicialização são devolvidos.
func (uc *SyncUseCase) RunSync(ctx context.Context, opts entity.SyncOptions) (*entity.RunSummary, error) {
	summary := &entity.RunSummary{
		RunID:     uc.newRunID(),
		StartedAt: uc.now().UTC(),
		Full:      opts.Full,
		Force:     opts.Force,
	}

	accounts, err := uc.accountRepo.ListAccounts(ctx, entity.AccountFilter{PayerID: opts.PayerID, Tier: opts.Tier})
	if err != nil {
		return nil, fmt.Errorf("failed to load account configuration: %w", err)
	}
	if len(accounts) == 0 {
		return nil, types.ErrNoAccounts
	}
	summary.Accounts = len(accounts)

	uc.console.LogInfo("Run %s: syncing %d account(s) (force=%t, full=%t)", summary.RunID, len(accounts), opts.Force, opts.Full)

	progress := uc.console.ProgressWithTotal(len(accounts))
	for _, account := range accounts {
		uc.syncAccount(ctx, account, opts, summary)
		progress.Increment()
	}
	progress.Stop()

	summary.FinishedAt = uc.now().UTC()
	if err := uc.metrics.Finish(summary.RunID, summary.Failed()); err != nil {
		uc.console.LogWarning("Failed to publish metrics: %v", err)
	}
	return summary, nil
}

func (uc *SyncUseCase) syncAccount(ctx context.Context, account entity.Account, opts entity.SyncOptions, summary *entity.RunSummary) {
	uc.console.LogInfo("Account %s (%s)", account.AccountID, account.Name)

	for _, tier := range opts.Tiers() {
		reportName := account.ReportName(tier)
		if reportName == "" {
			uc.console.LogDebug("Account %s has no %s export configured", account.AccountID, tier)
			continue
		}

		partitions, err := uc.discoverPartitions(ctx, account, reportName, opts.PartitionFilter)
		if err != nil {
			msg := fmt.Sprintf("account %s %s: %v", account.AccountID, tier, err)
			uc.console.LogError("Failed to list billing periods for %s", msg)
			summary.Errors = append(summary.Errors, msg)
			continue
		}
		if len(partitions) == 0 {
			uc.console.LogWarning("No billing periods found for account %s report %s", account.AccountID, reportName)
			continue
		}

		for _, partition := range partitions {
			outcome := uc.syncPartition(ctx, account, tier, reportName, partition, opts.Force)
			uc.metrics.ObserveManifest(string(tier), string(outcome.State))
			summary.Manifests = append(summary.Manifests, outcome)
		}
	}
}

// discoverPartitions lista os diretórios BILLING_PERIOD= do metadata, exceto
// quando um filtro fixa a partição.
func (uc *SyncUseCase) discoverPartitions(ctx context.Context, account entity.Account, reportName, filter string) ([]string, error) {
	if filter != "" {
		return []string{filter}, nil
	}

	prefix := entity.ReportMetadataPrefix(account.Prefix, reportName)
	uc.console.LogDebug("Listing billing periods under s3://%s/%s", account.Bucket, prefix)

	listing, err := uc.store.ListSource(ctx, account, prefix, "/")
	if err != nil {
		return nil, err
	}
	return entity.FilterPartitions(listing.CommonPrefixes, uc.now()), nil
}

// syncPartition executa LOCATE_MANIFEST, CHECK_FRESHNESS, PROCESS, RECONCILE e RECORD.
func (uc *SyncUseCase) syncPartition(ctx context.Context, account entity.Account, tier entity.ReportTier, reportName, partition string, force bool) entity.ManifestOutcome {
	manifestPath := entity.ManifestPath(account.Prefix, reportName, partition)
	outcome := entity.ManifestOutcome{
		AccountID:    account.AccountID,
		AccountName:  account.Name,
		Tier:         tier,
		Partition:    partition,
		ManifestPath: manifestPath,
	}

	meta := uc.store.GetObjectMetadata(ctx, account, manifestPath)
	switch meta.Status {
	case entity.ObjectNotFound:
		uc.console.LogError("Manifest not found: s3://%s/%s", account.Bucket, manifestPath)
		outcome.State = entity.ManifestNotFound
		outcome.Error = "manifest not found"
		return outcome
	case entity.ObjectError:
		outcome.State = entity.ManifestError
		outcome.Error = fmt.Sprintf("manifest metadata: %v", meta.Err)
		return outcome
	}
	lastModified := meta.Metadata.LastModified

	process, err := uc.ledger.ShouldProcess(ctx, account.AccountID, manifestPath, lastModified, force)
	if err != nil {
		uc.console.LogError("Failed to read ledger for %s: %v", manifestPath, err)
		outcome.State = entity.ManifestError
		outcome.Error = fmt.Sprintf("ledger: %v", err)
		return outcome
	}
	if !process {
		uc.console.LogInfo("%s %s %s is up to date, skipping", account.AccountID, tier, partition)
		outcome.State = entity.ManifestSkipped
		return outcome
	}

	uc.console.LogInfo("Processing %s %s %s", account.AccountID, tier, partition)
	written, procErr := uc.processManifest(ctx, account, tier, manifestPath, &outcome)

	record := entity.ProcessingRecord{
		AccountID:            account.AccountID,
		ManifestPath:         manifestPath,
		ReportTier:           tier,
		ManifestLastModified: lastModified,
		Status:               entity.StatusSuccess,
		ExpectedFiles:        written,
	}
	if procErr != "" {
		record.Status = entity.StatusError
		record.ErrorMessage = &procErr
		outcome.State = entity.ManifestError
		outcome.Error = procErr
	} else {
		outcome.State = entity.ManifestSuccess
	}

	if err := uc.ledger.Upsert(ctx, record); err != nil {
		uc.console.LogError("Failed to record %s in ledger: %v", manifestPath, err)
		outcome.State = entity.ManifestError
		if outcome.Error == "" {
			outcome.Error = fmt.Sprintf("ledger: %v", err)
		}
		return outcome
	}

	if outcome.State == entity.ManifestSuccess {
		uc.console.LogSuccess("%s %s %s: %d file(s) synced", account.AccountID, tier, partition, len(written))
	} else {
		uc.console.LogWarning("%s %s %s finished with errors: %s", account.AccountID, tier, partition, outcome.Error)
	}
	return outcome
}

// processManifest lê o manifest, converte e envia cada arquivo e reconcilia o
// diretório de destino. Devolve os nomes gravados e a mensagem de erro, se houver.
func (uc *SyncUseCase) processManifest(ctx context.Context, account entity.Account, tier entity.ReportTier, manifestPath string, outcome *entity.ManifestOutcome) ([]string, string) {
	res := uc.store.GetObject(ctx, account, manifestPath)
	if res.Status != entity.ObjectFound {
		return nil, fmt.Sprintf("failed to read manifest (%s)", res.Status)
	}

	manifest, err := entity.ParseManifest(res.Body)
	if err != nil {
		uc.console.LogError("Invalid manifest %s: %v", manifestPath, err)
		return nil, err.Error()
	}
	if manifest.Skipped > 0 {
		uc.console.LogWarning("Manifest %s: skipped %d dataFiles entries with an unsupported shape", manifestPath, manifest.Skipped)
	}
	if len(manifest.DataFiles) == 0 {
		return nil, "manifest lists no data files"
	}

	expected := make(map[string]struct{}, len(manifest.DataFiles))
	var written []string
	for _, raw := range manifest.DataFiles {
		expected[entity.TargetFileName(raw)] = struct{}{}

		fo := uc.processDataFile(ctx, account, tier, raw)
		uc.metrics.ObserveFile(string(tier), fo.Success, fo.Bytes)
		outcome.Files = append(outcome.Files, fo)
		if fo.Success {
			written = append(written, path.Base(fo.TargetKey))
		}
	}

	var problems []string
	if failed := outcome.FailedFiles(); failed > 0 {
		problems = append(problems, fmt.Sprintf("%d of %d data files failed", failed, len(manifest.DataFiles)))
	}

	partition, _ := entity.ExtractPartition(manifestPath)
	deleted, err := uc.reconcile(ctx, entity.TargetPartitionPrefix(tier, account.AccountID, partition), expected)
	outcome.Deleted = deleted
	uc.metrics.ObserveDeleted(string(tier), len(deleted))
	if err != nil {
		problems = append(problems, fmt.Sprintf("reconcile: %v", err))
	}

	return written, strings.Join(problems, "; ")
}

// processDataFile nomeia o destino pela entrada crua do manifest, como ela
// aparece no JSON; a chave normalizada serve só para ler a origem.
func (uc *SyncUseCase) processDataFile(ctx context.Context, account entity.Account, tier entity.ReportTier, raw string) entity.FileOutcome {
	sourceKey := entity.NormalizeSourceKey(account.Bucket, raw)
	fo := entity.FileOutcome{SourceKey: sourceKey}

	targetKey, err := entity.TargetKey(tier, account.AccountID, raw)
	if err != nil {
		uc.console.LogError("Cannot derive target key: %v", err)
		fo.Error = err.Error()
		return fo
	}
	fo.TargetKey = targetKey
	uc.console.LogDebug("%s -> %s", sourceKey, targetKey)

	res := uc.store.GetObject(ctx, account, sourceKey)
	if res.Status != entity.ObjectFound {
		uc.console.LogError("Failed to fetch source file s3://%s/%s (%s)", account.Bucket, sourceKey, res.Status)
		fo.Error = fmt.Sprintf("source %s", res.Status)
		return fo
	}

	body := res.Body
	if entity.IsParquetKey(sourceKey) {
		uc.console.LogDebug("Source %s is already parquet, uploading as is", sourceKey)
	} else {
		body, err = uc.converter.Convert(ctx, res.Body)
		if err != nil {
			uc.console.LogError("Failed to convert %s: %v", sourceKey, err)
			fo.Error = err.Error()
			return fo
		}
	}

	if !uc.store.PutObject(ctx, targetKey, body) {
		fo.Error = "upload failed"
		return fo
	}

	fo.Success = true
	fo.Bytes = len(body)
	return fo
}

// reconcile remove do diretório de destino tudo que não pertence ao conjunto esperado.
func (uc *SyncUseCase) reconcile(ctx context.Context, targetPrefix string, expected map[string]struct{}) ([]string, error) {
	listing, err := uc.store.ListTarget(ctx, targetPrefix, "")
	if err != nil {
		uc.console.LogError("Failed to list %s: %v", targetPrefix, err)
		return nil, err
	}

	var (
		deleted  []string
		firstErr error
	)
	for _, obj := range listing.Objects {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if _, ok := expected[path.Base(obj.Key)]; ok {
			continue
		}
		if err := uc.store.DeleteTarget(ctx, obj.Key); err != nil {
			uc.console.LogError("Failed to delete stale object %s: %v", obj.Key, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		uc.console.LogInfo("Deleted stale object %s", obj.Key)
		deleted = append(deleted, obj.Key)
	}
	return deleted, firstErr
}
