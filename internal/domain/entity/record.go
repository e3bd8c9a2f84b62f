package entity

import "time"

// ProcessingStatus é o resultado registrado para um manifest.
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusError   ProcessingStatus = "error"
)

// FreshnessTolerance é a diferença máxima entre o mtime observado e o registrado
// para que o manifest seja considerado já processado.
const FreshnessTolerance = time.Second

// ProcessingRecord é a linha do ledger para (AccountID, ManifestPath).
type ProcessingRecord struct {
	AccountID            string           `json:"account_id"`
	ManifestPath         string           `json:"manifest_path"`
	Partition            string           `json:"manifest_partition"`
	ReportTier           ReportTier       `json:"report_type"`
	ManifestLastModified time.Time        `json:"manifest_last_modified"`
	Status               ProcessingStatus `json:"status"`
	ErrorMessage         *string          `json:"error_message,omitempty"`
	ExpectedFiles        []string         `json:"expected_files"`
	ProcessedAt          time.Time        `json:"processed_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// IsFresh indica se o registro já cobre a versão observada do manifest.
func (r *ProcessingRecord) IsFresh(observed time.Time) bool {
	if r == nil || r.Status != StatusSuccess {
		return false
	}
	diff := r.ManifestLastModified.UTC().Sub(observed.UTC())
	if diff < 0 {
		diff = -diff
	}
	return diff < FreshnessTolerance
}
