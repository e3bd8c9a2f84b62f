package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
)

var (
	ErrMissingPartition     = errors.New("manifest path has no BILLING_PERIOD partition")
	ErrInvalidExpectedFiles = errors.New("expected files must be a list of .parquet file names")
)

// LedgerService aplica as regras do ledger sobre o repositório.
type LedgerService struct {
	repo repository.LedgerRepository
	now  func() time.Time
}

// NewLedgerService cria o serviço sobre o repositório informado.
func NewLedgerService(repo repository.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo, now: time.Now}
}

// Get devolve o registro do manifest ou nil.
func (s *LedgerService) Get(ctx context.Context, accountID, manifestPath string) (*entity.ProcessingRecord, error) {
	return s.repo.Get(ctx, accountID, manifestPath)
}

// ShouldProcess aplica a regra de frescor. force ignora o ledger.
func (s *LedgerService) ShouldProcess(ctx context.Context, accountID, manifestPath string, lastModified time.Time, force bool) (bool, error) {
	if force {
		return true, nil
	}
	rec, err := s.repo.Get(ctx, accountID, manifestPath)
	if err != nil {
		return false, err
	}
	return !rec.IsFresh(lastModified), nil
}

// Upsert re-deriva a partição do caminho do manifest, valida a lista de
// arquivos esperados e grava o registro com o horário de processamento.
func (s *LedgerService) Upsert(ctx context.Context, rec entity.ProcessingRecord) error {
	partition, ok := entity.ExtractPartition(rec.ManifestPath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingPartition, rec.ManifestPath)
	}
	if err := validateExpectedFiles(rec.ExpectedFiles); err != nil {
		return err
	}

	rec.Partition = partition
	rec.ManifestLastModified = rec.ManifestLastModified.UTC()
	rec.ProcessedAt = s.now().UTC()
	if rec.ExpectedFiles == nil {
		rec.ExpectedFiles = []string{}
	}
	return s.repo.Upsert(ctx, rec)
}

func validateExpectedFiles(files []string) error {
	for _, f := range files {
		if f == "" || strings.Contains(f, "/") || !strings.HasSuffix(f, ".parquet") {
			return fmt.Errorf("%w: %q", ErrInvalidExpectedFiles, f)
		}
	}
	return nil
}
