package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"assemblyId": "abc",
		"dataFiles": [
			"cur/r/data/BILLING_PERIOD=2025-06/r-00001.csv.gz",
			{"key": "cur/r/data/BILLING_PERIOD=2025-06/r-00002.csv.gz"},
			42,
			{"name": "no key"},
			""
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cur/r/data/BILLING_PERIOD=2025-06/r-00001.csv.gz",
		"cur/r/data/BILLING_PERIOD=2025-06/r-00002.csv.gz",
	}, m.DataFiles)
	assert.Equal(t, 3, m.Skipped)
}

func TestParseManifestInvalid(t *testing.T) {
	for _, doc := range []string{`not json`, `{"files": []}`, `{"dataFiles": "x"}`, `[]`} {
		_, err := ParseManifest([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidManifest, doc)
	}
}

func TestManifestPath(t *testing.T) {
	assert.Equal(t,
		"cur/daily/metadata/BILLING_PERIOD=2025-06/daily-Manifest.json",
		ManifestPath("cur/", "daily", "BILLING_PERIOD=2025-06"))
	assert.Equal(t,
		"daily/metadata/BILLING_PERIOD=2025-06/daily-Manifest.json",
		ManifestPath("", "daily", "BILLING_PERIOD=2025-06"))
	assert.Equal(t, "cur/daily/metadata/", ReportMetadataPrefix("/cur", "daily"))
}

func TestNormalizeSourceKey(t *testing.T) {
	tests := map[string]string{
		"s3://payer-cur/cur/r/data/f.csv.gz": "cur/r/data/f.csv.gz",
		"payer-cur/cur/r/data/f.csv.gz":      "cur/r/data/f.csv.gz",
		"/cur/r/data/f.csv.gz":               "cur/r/data/f.csv.gz",
		"cur/r/data/f.csv.gz":                "cur/r/data/f.csv.gz",
		"s3://other/cur/f.csv.gz":            "cur/f.csv.gz",
		"s3://payer-cur":                     "",
		"other/cur/f.csv.gz":                 "other/cur/f.csv.gz",
		"payer-cur-2/cur/f.csv.gz":           "payer-cur-2/cur/f.csv.gz",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSourceKey("payer-cur", in), in)
	}
}
