package entity

import (
	"fmt"
	"strings"
)

// ReportTier identifica a granularidade de um export CUR.
type ReportTier string

const (
	TierHourly  ReportTier = "hourly"
	TierDaily   ReportTier = "daily"
	TierMonthly ReportTier = "monthly"
)

// AllTiers lista os tiers na ordem em que são processados.
var AllTiers = []ReportTier{TierHourly, TierDaily, TierMonthly}

// ParseReportTier converte a string recebida da CLI ou do banco em um ReportTier.
func ParseReportTier(s string) (ReportTier, error) {
	switch ReportTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierHourly:
		return TierHourly, nil
	case TierDaily:
		return TierDaily, nil
	case TierMonthly:
		return TierMonthly, nil
	}
	return "", fmt.Errorf("invalid report tier %q (expected hourly, daily or monthly)", s)
}

// Account representa a configuração de export CUR de uma conta pagadora.
type Account struct {
	AccountID       string  `json:"account_id"`
	Name            string  `json:"account_name"`
	Region          string  `json:"region_name"`
	AccessKeyID     string  `json:"-"`
	SecretAccessKey string  `json:"-"`
	Bucket          string  `json:"bucket"`
	Prefix          string  `json:"prefix"`
	HourlyExport    *string `json:"hourly_export,omitempty"`
	DailyExport     *string `json:"daily_export,omitempty"`
	MonthlyExport   *string `json:"monthly_export,omitempty"`
}

// HasStaticCredentials indica se a linha de configuração traz chave e segredo.
func (a Account) HasStaticCredentials() bool {
	return a.AccessKeyID != "" && a.SecretAccessKey != ""
}

// ReportRef associa um tier ao nome do export configurado.
type ReportRef struct {
	Tier       ReportTier
	ReportName string
}

// ReportName retorna o nome do export para o tier, ou "" quando não configurado.
func (a Account) ReportName(tier ReportTier) string {
	var name *string
	switch tier {
	case TierHourly:
		name = a.HourlyExport
	case TierDaily:
		name = a.DailyExport
	case TierMonthly:
		name = a.MonthlyExport
	}
	if name == nil {
		return ""
	}
	return strings.TrimSpace(*name)
}

// Reports lista os exports configurados na ordem hourly, daily, monthly.
func (a Account) Reports() []ReportRef {
	refs := make([]ReportRef, 0, len(AllTiers))
	for _, tier := range AllTiers {
		if name := a.ReportName(tier); name != "" {
			refs = append(refs, ReportRef{Tier: tier, ReportName: name})
		}
	}
	return refs
}

// Tiers retorna apenas os tiers configurados, útil para exibição.
func (a Account) Tiers() []string {
	refs := a.Reports()
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r.Tier)
	}
	return out
}
