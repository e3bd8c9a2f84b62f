package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

var csvHeaders = []string{
	"Run ID", "Account ID", "Account Name", "Tier", "Partition", "Manifest",
	"State", "Files OK", "Files Failed", "Bytes Written", "Deleted", "Error",
}

func (r *ExportRepositoryImpl) ExportToCSV(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, m := range summary.Manifests {
		failed := m.FailedFiles()
		bytes := 0
		for _, f := range m.Files {
			bytes += f.Bytes
		}
		record := []string{
			summary.RunID,
			m.AccountID,
			m.AccountName,
			string(m.Tier),
			m.Partition,
			m.ManifestPath,
			string(m.State),
			strconv.Itoa(len(m.Files) - failed),
			strconv.Itoa(failed),
			strconv.Itoa(bytes),
			strconv.Itoa(len(m.Deleted)),
			m.Error,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	failedColor := [3]int{192, 0, 0}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	footer := fmt.Sprintf("CUR2 Parquet Sync | run %s | %s", summary.RunID, r.now().Format("2006-01-02"))
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	drawSection := func(title string, lines []string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(strings.Join(lines, "\n")), "", "L", false)
		pdf.Ln(6)
	}

	// Capa com os totais
	pdf.AddPage()
	banner := headerColor
	status := "finished successfully"
	if summary.Failed() {
		banner = failedColor
		status = "finished with failures"
	}
	pdf.SetFillColor(banner[0], banner[1], banner[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Sync run %s", status)), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run ID: %s", summary.RunID)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	ok, failed := summary.FileTotals()
	drawSection("Run Summary", []string{
		fmt.Sprintf("Started: %s", summary.StartedAt.Format(time.RFC3339)),
		fmt.Sprintf("Duration: %s", summary.Duration().Round(time.Millisecond)),
		fmt.Sprintf("Force: %t   Full: %t", summary.Force, summary.Full),
		fmt.Sprintf("Accounts: %d", summary.Accounts),
		fmt.Sprintf("Manifests: %d processed, %d skipped, %d failed, %d missing",
			summary.Count(entity.ManifestSuccess),
			summary.Count(entity.ManifestSkipped),
			summary.Count(entity.ManifestError),
			summary.Count(entity.ManifestNotFound)),
		fmt.Sprintf("Data files: %d synced, %d failed", ok, failed),
	})
	if len(summary.Errors) > 0 {
		drawSection("Errors", summary.Errors)
	}

	for _, accountID := range accountOrder(summary.Manifests) {
		var lines []string
		name := ""
		for _, m := range summary.Manifests {
			if m.AccountID != accountID {
				continue
			}
			name = m.AccountName
			line := fmt.Sprintf("%-8s %-24s %-10s files %d/%d  deleted %d",
				m.Tier, m.Partition, m.State, len(m.Files)-m.FailedFiles(), len(m.Files), len(m.Deleted))
			if m.Error != "" {
				line += "\n    " + m.Error
			}
			lines = append(lines, line)
		}
		title := accountID
		if name != "" {
			title = fmt.Sprintf("%s (%s)", accountID, name)
		}
		drawSection(title, lines)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// accountOrder lista as contas presentes no resumo, ordenadas.
func accountOrder(manifests []entity.ManifestOutcome) []string {
	seen := map[string]bool{}
	var ids []string
	for _, m := range manifests {
		if !seen[m.AccountID] {
			seen[m.AccountID] = true
			ids = append(ids, m.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
