package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportNow = time.Date(2025, 6, 15, 12, 30, 45, 0, time.UTC)

func newTestRepo() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time { return exportNow }}
}

func sampleSummary() *entity.RunSummary {
	return &entity.RunSummary{
		RunID:      "run-1",
		StartedAt:  exportNow.Add(-time.Minute),
		FinishedAt: exportNow,
		Accounts:   2,
		Manifests: []entity.ManifestOutcome{
			{
				AccountID: "210987654321", AccountName: "sub", Tier: entity.TierMonthly,
				Partition: "BILLING_PERIOD=2025-06", State: entity.ManifestSkipped,
			},
			{
				AccountID: "123456789012", AccountName: "payer", Tier: entity.TierDaily,
				Partition: "BILLING_PERIOD=2025-06", State: entity.ManifestError,
				ManifestPath: "cur/d/metadata/BILLING_PERIOD=2025-06/d-Manifest.json",
				Files: []entity.FileOutcome{
					{SourceKey: "a", Success: true, Bytes: 120},
					{SourceKey: "b", Error: "gzip: invalid header"},
				},
				Deleted: []string{"daily/ID=123456789012/cid-cur2/data/BILLING_PERIOD=2025-06/x.parquet"},
				Error:   "1 of 2 data files failed",
			},
		},
		Errors: []string{"account 1 hourly: AccessDenied"},
	}
}

func TestExportToCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	out, err := newTestRepo().ExportToCSV(sampleSummary(), "sync", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sync_20250615_123045.csv"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, csvHeaders, rows[0])
	assert.Equal(t, []string{
		"run-1", "123456789012", "payer", "daily", "BILLING_PERIOD=2025-06",
		"cur/d/metadata/BILLING_PERIOD=2025-06/d-Manifest.json",
		"error", "1", "1", "120", "1", "1 of 2 data files failed",
	}, rows[2])
}

func TestExportToJSON(t *testing.T) {
	dir := t.TempDir()

	out, err := newTestRepo().ExportToJSON(sampleSummary(), "sync", dir)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded entity.RunSummary
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Manifests, 2)
	assert.Equal(t, entity.ManifestError, decoded.Manifests[1].State)
	assert.Equal(t, "gzip: invalid header", decoded.Manifests[1].Files[1].Error)
}

func TestExportToPDF(t *testing.T) {
	dir := t.TempDir()

	out, err := newTestRepo().ExportToPDF(sampleSummary(), "sync", dir)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestAccountOrder(t *testing.T) {
	assert.Equal(t, []string{"123456789012", "210987654321"}, accountOrder(sampleSummary().Manifests))
}
