package usecase

import (
	"errors"
	"testing"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/diillson/cur2-parquet-sync/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeExport struct {
	calls  []string
	pdfErr error
}

func (f *fakeExport) ExportToCSV(_ *entity.RunSummary, name, dir string) (string, error) {
	f.calls = append(f.calls, "csv")
	return dir + "/" + name + ".csv", nil
}

func (f *fakeExport) ExportToJSON(_ *entity.RunSummary, name, dir string) (string, error) {
	f.calls = append(f.calls, "json")
	return dir + "/" + name + ".json", nil
}

func (f *fakeExport) ExportToPDF(*entity.RunSummary, string, string) (string, error) {
	f.calls = append(f.calls, "pdf")
	return "", f.pdfErr
}

func summaryWith(states ...entity.ManifestState) *entity.RunSummary {
	s := &entity.RunSummary{RunID: "run-1", StartedAt: fixedNow, FinishedAt: fixedNow}
	for _, st := range states {
		s.Manifests = append(s.Manifests, entity.ManifestOutcome{
			AccountID: testAccountID, Tier: entity.TierDaily, Partition: testPartition, State: st,
			Files: []entity.FileOutcome{{Success: true}, {Success: st != entity.ManifestError}},
		})
	}
	return s
}

func TestDisplaySummary(t *testing.T) {
	console := testutil.NewConsole()
	uc := NewSyncUseCase(nil, nil, nil, nil, nil, nil, console)

	uc.DisplaySummary(summaryWith(entity.ManifestSuccess, entity.ManifestError))

	out := console.Output.String()
	assert.Contains(t, out, "Account | Tier | Partition | State | Files OK | Files Failed | Deleted")
	assert.Contains(t, out, testAccountID+" | daily | "+testPartition+" | error | 1 | 1 | 0")
	assert.True(t, testutil.Contains(console.Infos, "Manifests: 1 processed, 0 skipped, 1 failed, 0 missing"))
	assert.True(t, testutil.Contains(console.Infos, "Data files: 3 synced, 1 failed"))
	assert.True(t, testutil.Contains(console.Errors, "Run run-1 finished with failures"))

	console = testutil.NewConsole()
	uc.console = console
	uc.DisplaySummary(summaryWith(entity.ManifestSuccess, entity.ManifestSkipped))
	assert.Empty(t, console.Errors)
	assert.True(t, testutil.Contains(console.Infos, "finished successfully"))
}

func TestExportSummary(t *testing.T) {
	console := testutil.NewConsole()
	exp := &fakeExport{pdfErr: errors.New("disk full")}
	uc := NewSyncUseCase(nil, nil, nil, nil, nil, exp, console)

	uc.ExportSummary(summaryWith(entity.ManifestSuccess), "sync", []string{"csv", "xml", "json", "pdf"}, "/tmp/out")

	assert.Equal(t, []string{"csv", "json", "pdf"}, exp.calls)
	assert.True(t, testutil.Contains(console.Warnings, "Unsupported report type: xml"))
	assert.True(t, testutil.Contains(console.Errors, "disk full"))
	assert.True(t, testutil.Contains(console.Infos, "/tmp/out/sync.csv"))
}

func TestExportSummaryWithoutReportName(t *testing.T) {
	exp := &fakeExport{}
	uc := NewSyncUseCase(nil, nil, nil, nil, nil, exp, testutil.NewConsole())

	uc.ExportSummary(summaryWith(entity.ManifestSuccess), "", []string{"csv"}, "")

	assert.Empty(t, exp.calls)
}
