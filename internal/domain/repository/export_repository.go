package repository

import (
	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

// ExportRepository grava o resumo de uma execução em disco.
type ExportRepository interface {
	ExportToCSV(summary *entity.RunSummary, filename, outputDir string) (string, error)
	ExportToJSON(summary *entity.RunSummary, filename, outputDir string) (string, error)
	ExportToPDF(summary *entity.RunSummary, filename, outputDir string) (string, error)
}
