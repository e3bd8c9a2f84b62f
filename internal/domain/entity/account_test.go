package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportTier(t *testing.T) {
	tier, err := ParseReportTier(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, TierMonthly, tier)

	_, err = ParseReportTier("weekly")
	assert.Error(t, err)
}

func TestAccountReports(t *testing.T) {
	hourly, blank, monthly := "h-report", "  ", "m-report"
	a := Account{HourlyExport: &hourly, DailyExport: &blank, MonthlyExport: &monthly}

	assert.Equal(t, []ReportRef{
		{Tier: TierHourly, ReportName: "h-report"},
		{Tier: TierMonthly, ReportName: "m-report"},
	}, a.Reports())
	assert.Equal(t, []string{"hourly", "monthly"}, a.Tiers())
	assert.Empty(t, a.ReportName(TierDaily))
}

func TestAccountHasStaticCredentials(t *testing.T) {
	assert.True(t, Account{AccessKeyID: "AKIA", SecretAccessKey: "s"}.HasStaticCredentials())
	assert.False(t, Account{AccessKeyID: "AKIA"}.HasStaticCredentials())
	assert.False(t, Account{SecretAccessKey: "s"}.HasStaticCredentials())
	assert.False(t, Account{}.HasStaticCredentials())
}
