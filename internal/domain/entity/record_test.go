package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcessingRecordIsFresh(t *testing.T) {
	mtime := time.Date(2025, 6, 14, 3, 0, 0, 0, time.UTC)
	rec := &ProcessingRecord{Status: StatusSuccess, ManifestLastModified: mtime}

	assert.True(t, rec.IsFresh(mtime))
	assert.True(t, rec.IsFresh(mtime.Add(-900*time.Millisecond)))
	assert.True(t, rec.IsFresh(mtime.In(time.FixedZone("BRT", -3*3600))))
	assert.False(t, rec.IsFresh(mtime.Add(time.Second)))
	assert.False(t, rec.IsFresh(mtime.Add(-2*time.Second)))

	failed := &ProcessingRecord{Status: StatusError, ManifestLastModified: mtime}
	assert.False(t, failed.IsFresh(mtime))

	var missing *ProcessingRecord
	assert.False(t, missing.IsFresh(mtime))
}
