package entity

import "time"

// SyncOptions são as opções de execução de uma sincronização.
type SyncOptions struct {
	Full            bool
	Force           bool
	PayerID         string
	Tier            *ReportTier
	PartitionFilter string
}

// Tiers devolve os tiers a visitar, respeitando o filtro.
func (o SyncOptions) Tiers() []ReportTier {
	if o.Tier != nil {
		return []ReportTier{*o.Tier}
	}
	return AllTiers
}

// AccountFilter restringe a seleção de contas.
type AccountFilter struct {
	PayerID string
	Tier    *ReportTier
}

// ManifestState é o estado final de um manifest em uma execução.
type ManifestState string

const (
	ManifestSkipped  ManifestState = "skipped"
	ManifestSuccess  ManifestState = "success"
	ManifestError    ManifestState = "error"
	ManifestNotFound ManifestState = "not_found"
)

// FileOutcome registra o processamento de um arquivo de dados.
type FileOutcome struct {
	SourceKey string `json:"source_key"`
	TargetKey string `json:"target_key,omitempty"`
	Success   bool   `json:"success"`
	Bytes     int    `json:"bytes"`
	Error     string `json:"error,omitempty"`
}

// ManifestOutcome registra o que aconteceu com uma partição de um export.
type ManifestOutcome struct {
	AccountID    string        `json:"account_id"`
	AccountName  string        `json:"account_name"`
	Tier         ReportTier    `json:"tier"`
	Partition    string        `json:"partition"`
	ManifestPath string        `json:"manifest_path"`
	State        ManifestState `json:"state"`
	Files        []FileOutcome `json:"files,omitempty"`
	Deleted      []string      `json:"deleted,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// FailedFiles conta os arquivos com falha.
func (m ManifestOutcome) FailedFiles() int {
	n := 0
	for _, f := range m.Files {
		if !f.Success {
			n++
		}
	}
	return n
}

// RunSummary consolida uma execução completa.
type RunSummary struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Full       bool              `json:"full"`
	Force      bool              `json:"force"`
	Accounts   int               `json:"accounts"`
	Manifests  []ManifestOutcome `json:"manifests"`
	// Errors guarda falhas fora de um manifest, como a listagem de partições.
	Errors []string `json:"errors,omitempty"`
}

// Failed indica se alguma falha ocorreu durante a execução.
func (s *RunSummary) Failed() bool {
	if len(s.Errors) > 0 {
		return true
	}
	for _, m := range s.Manifests {
		if m.State == ManifestError || m.State == ManifestNotFound {
			return true
		}
	}
	return false
}

// Duration é o tempo total da execução.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Count devolve quantos manifests terminaram no estado informado.
func (s *RunSummary) Count(state ManifestState) int {
	n := 0
	for _, m := range s.Manifests {
		if m.State == state {
			n++
		}
	}
	return n
}

// FileTotals devolve (convertidos com sucesso, falhas).
func (s *RunSummary) FileTotals() (ok, failed int) {
	for _, m := range s.Manifests {
		for _, f := range m.Files {
			if f.Success {
				ok++
			} else {
				failed++
			}
		}
	}
	return ok, failed
}
