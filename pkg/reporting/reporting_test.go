package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ducminhle1904/crypto-risk-engine/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	avg := 0.55
	maxCorr := 0.72
	return &Report{
		GeneratedAt: "2024-06-01T00:00:00Z",
		Provider:    "CSV Provider",
		Start:       "2024-01-01",
		End:         "2024-03-31",
		Assessments: map[string]risk.Assessment{
			"ETHUSDT": {
				RemainingPositionLimit: 7522.5,
				CurrentPrice:           3000,
				VolatilityMetrics: risk.VolatilityMetrics{
					DailyVolatility:      0.031,
					AnnualizedVolatility: 0.60,
					VolatilityPercentile: 80,
					DataPoints:           60,
				},
				CorrelationMetrics: risk.CorrelationMetrics{
					AvgCorrelationWithActive: &avg,
					MaxCorrelationWithActive: &maxCorr,
					TopCorrelatedSymbols: []risk.SymbolCorrelation{
						{Symbol: "BTCUSDT", Correlation: 0.72},
					},
				},
				Reasoning: risk.Reasoning{
					PortfolioValue:           100000,
					BasePositionLimitPct:     0.0885,
					CorrelationMultiplier:    0.85,
					CombinedPositionLimitPct: 0.075225,
					PositionLimit:            7522.5,
					RemainingLimit:           7522.5,
					AvailableCash:            50000,
					RiskAdjustment:           "Volatility x Correlation adjusted: 7.5% (base 8.9%)",
				},
			},
			"DOGEUSDT": {
				Reasoning: risk.Reasoning{
					PortfolioValue: 100000,
					AvailableCash:  50000,
					Error:          "missing price data for risk calculation",
				},
				CorrelationMetrics: risk.CorrelationMetrics{
					TopCorrelatedSymbols: []risk.SymbolCorrelation{},
				},
			},
		},
		ExtremeDailyVolatility:      0.10,
		CorrelationWarningThreshold: 0.70,
	}
}

func TestReport_SymbolsSorted(t *testing.T) {
	report := sampleReport()

	assert.Equal(t, []string{"DOGEUSDT", "ETHUSDT"}, report.Symbols())
}

func TestWriteReportJSON_RoundTrip(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, WriteReportJSON(report, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, report.Provider, decoded.Provider)
	require.Contains(t, decoded.Assessments, "ETHUSDT")
	assert.InDelta(t, 7522.5, decoded.Assessments["ETHUSDT"].RemainingPositionLimit, 1e-9)
	assert.Equal(t, "missing price data for risk calculation", decoded.Assessments["DOGEUSDT"].Reasoning.Error)
}

func TestWriteReportCSV_OneRowPerSymbol(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, WriteReportCSV(report, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "Symbol,Current_Price")
	assert.Contains(t, content, "ETHUSDT")
	assert.Contains(t, content, "DOGEUSDT")
	assert.Contains(t, content, "missing price data for risk calculation")
}

func TestWriteReportCSV_XlsxPathDelegates(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteReportCSV(report, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteReportXLSX(t *testing.T) {
	report := sampleReport()
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")

	require.NoError(t, WriteReportXLSX(report, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFormatReport_IndentedJSON(t *testing.T) {
	f := NewDefaultJSONFormatter()

	data, err := f.FormatReport(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, string(data), "  \"assessments\"")
}

func TestReport_PortfolioValue(t *testing.T) {
	report := sampleReport()

	assert.Equal(t, 100000.0, report.PortfolioValue())
	assert.Equal(t, 0.0, (&Report{}).PortfolioValue())
}

func TestReportingManager_WritesEnabledFormats(t *testing.T) {
	dir := t.TempDir()
	manager := NewReportingManager(ReportingConfig{
		OutputDirectory: dir,
		JSONFile:        "report.json",
		CSVFile:         "report.csv",
	})

	require.NoError(t, manager.ReportBatch(sampleReport()))

	for _, name := range []string{"report.json", "report.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err := os.Stat(filepath.Join(dir, "report.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestReportingManager_ResolvePath(t *testing.T) {
	manager := NewReportingManager(ReportingConfig{OutputDirectory: "out"})

	assert.Equal(t, filepath.Join("out", "report.json"), manager.ResolvePath("report.json"))
	assert.Equal(t, filepath.Join("elsewhere", "report.json"), manager.ResolvePath(filepath.Join("elsewhere", "report.json")))
}

func TestReportingManager_DefaultOutputDirIsDated(t *testing.T) {
	manager := NewReportingManager(ReportingConfig{})

	dir := manager.OutputDir()
	assert.Contains(t, dir, filepath.Join("results", "risk_report_"))
	assert.Equal(t, dir, DefaultOutputDir("risk_report"))
}

func TestEnsureDirectoryExists_CreatesParents(t *testing.T) {
	p := NewDefaultPathManager()
	path := filepath.Join(t.TempDir(), "a", "b", "report.json")

	require.NoError(t, p.EnsureDirectoryExists(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
