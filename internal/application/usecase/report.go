package usecase

import (
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

// DisplaySummary imprime a tabela de manifests visitados e os totais da execução.
func (uc *SyncUseCase) DisplaySummary(summary *entity.RunSummary) {
	table := uc.console.CreateTable()
	table.AddColumn("Account")
	table.AddColumn("Tier")
	table.AddColumn("Partition")
	table.AddColumn("State")
	table.AddColumn("Files OK")
	table.AddColumn("Files Failed")
	table.AddColumn("Deleted")

	for _, m := range summary.Manifests {
		failed := m.FailedFiles()
		table.AddRow(
			m.AccountID,
			string(m.Tier),
			m.Partition,
			string(m.State),
			len(m.Files)-failed,
			failed,
			len(m.Deleted),
		)
	}
	uc.console.Println(table.Render())

	ok, failed := summary.FileTotals()
	uc.console.LogInfo("Manifests: %d processed, %d skipped, %d failed, %d missing",
		summary.Count(entity.ManifestSuccess),
		summary.Count(entity.ManifestSkipped),
		summary.Count(entity.ManifestError),
		summary.Count(entity.ManifestNotFound),
	)
	uc.console.LogInfo("Data files: %d synced, %d failed", ok, failed)
	for _, e := range summary.Errors {
		uc.console.LogError("%s", e)
	}
	if summary.Failed() {
		uc.console.LogError("Run %s finished with failures", summary.RunID)
		return
	}
	uc.console.LogSuccess("Run %s finished successfully in %s", summary.RunID, summary.Duration().Round(time.Millisecond))
}

// ExportSummary grava o resumo nos formatos pedidos. Falhas de exportação são
// apenas registradas.
func (uc *SyncUseCase) ExportSummary(summary *entity.RunSummary, reportName string, reportTypes []string, dir string) {
	if reportName == "" || len(reportTypes) == 0 {
		return
	}

	for _, reportType := range reportTypes {
		var (
			out string
			err error
		)
		switch reportType {
		case "csv":
			out, err = uc.exportRepo.ExportToCSV(summary, reportName, dir)
		case "json":
			out, err = uc.exportRepo.ExportToJSON(summary, reportName, dir)
		case "pdf":
			out, err = uc.exportRepo.ExportToPDF(summary, reportName, dir)
		default:
			uc.console.LogWarning("Unsupported report type: %s", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export run summary to %s: %s", reportType, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported run summary to %s: %s", reportType, out)
	}
}
