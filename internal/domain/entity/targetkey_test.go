package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetKey(t *testing.T) {
	src := "cur/daily-report/data/BILLING_PERIOD=2025-06/daily-report-00001.csv.gz"

	key, err := TargetKey(TierDaily, "123456789012", src)
	require.NoError(t, err)
	assert.Equal(t, "daily/ID=123456789012/cid-cur2/data/BILLING_PERIOD=2025-06/66c83ece0abfa16a.parquet", key)

	again, err := TargetKey(TierDaily, "123456789012", src)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	other, err := TargetKey(TierDaily, "123456789012", "a/BILLING_PERIOD=2024-01/x.csv.gz")
	require.NoError(t, err)
	assert.Equal(t, "daily/ID=123456789012/cid-cur2/data/BILLING_PERIOD=2024-01/b1957f609dd5f21b.parquet", other)
}

func TestTargetKeyHashesManifestEntryVerbatim(t *testing.T) {
	raw := "s3://payer-cur/cur/daily-report/data/BILLING_PERIOD=2025-06/daily-report-00001.csv.gz"

	key, err := TargetKey(TierDaily, "123456789012", raw)
	require.NoError(t, err)
	assert.Equal(t, "daily/ID=123456789012/cid-cur2/data/BILLING_PERIOD=2025-06/8ab84bcf64c686e6.parquet", key)
	assert.NotEqual(t, TargetFileName(NormalizeSourceKey("payer-cur", raw)), TargetFileName(raw))
}

func TestTargetKeyWithoutPartition(t *testing.T) {
	_, err := TargetKey(TierHourly, "123456789012", "cur/report/data/file.csv.gz")
	assert.ErrorIs(t, err, ErrNoPartition)
}

func TestTargetFileNameShape(t *testing.T) {
	name := TargetFileName("anything")
	assert.Len(t, name, len("0123456789abcdef.parquet"))
	assert.Regexp(t, `^[0-9a-f]{16}\.parquet$`, name)
}

func TestIsParquetKey(t *testing.T) {
	assert.True(t, IsParquetKey("a/b/part-0.snappy.parquet"))
	assert.True(t, IsParquetKey("a/b/PART.PARQUET"))
	assert.False(t, IsParquetKey("a/b/part-0.csv.gz"))
}
