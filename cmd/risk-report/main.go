package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/internal/config"
	"github.com/ducminhle1904/crypto-risk-engine/internal/exchange/bybit"
	"github.com/ducminhle1904/crypto-risk-engine/internal/monitoring"
	"github.com/ducminhle1904/crypto-risk-engine/internal/risk"
	"github.com/ducminhle1904/crypto-risk-engine/pkg/data"
	"github.com/ducminhle1904/crypto-risk-engine/pkg/reporting"
	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		symbolsFlag   = flag.String("symbols", "", "Comma-separated symbols to assess (e.g., BTCUSDT,ETHUSDT)")
		portfolioFile = flag.String("portfolio", "", "Portfolio snapshot JSON file")
		startFlag     = flag.String("start", "", "Start of the price window (YYYY-MM-DD, default: 90 days ago)")
		endFlag       = flag.String("end", "", "End of the price window (YYYY-MM-DD, default: today)")
		providerFlag  = flag.String("provider", "", "Price provider: csv or bybit (default: from env)")
		jsonOut       = flag.String("json", "", "Write report JSON to this path (bare file names go under the output directory)")
		csvOut        = flag.String("csv", "", "Write report CSV to this path (bare file names go under the output directory)")
		xlsxOut       = flag.String("xlsx", "", "Write report Excel workbook to this path (bare file names go under the output directory)")
		outDir        = flag.String("out", "", "Output directory for bare file names (default: dated results directory)")
		printJSON     = flag.Bool("print-json", false, "Print report JSON to stdout")
		quiet         = flag.Bool("quiet", false, "Suppress console table output")
		envFile       = flag.String("env", ".env", "Environment file path (default: .env)")
	)
	flag.Parse()

	if *symbolsFlag == "" {
		log.Fatal("Please specify symbols with -symbols flag")
	}

	// Load environment variables from .env file
	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	cfg := config.Load()
	if *providerFlag != "" {
		cfg.Provider.Name = *providerFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	symbols := splitSymbols(*symbolsFlag)

	portfolio, err := loadPortfolio(*portfolioFile)
	if err != nil {
		log.Fatalf("Failed to load portfolio: %v", err)
	}

	start, end, err := resolveWindow(*startFlag, *endFlag)
	if err != nil {
		log.Fatalf("Invalid date window: %v", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to build price provider: %v", err)
	}

	riskCfg := risk.DefaultConfig()
	riskCfg.MaxPositionSize = cfg.Risk.MaxPositionSize
	riskCfg.SafeDailyVolatility = cfg.Risk.SafeDailyVolatility
	riskCfg.ExtremeDailyVolatility = cfg.Risk.ExtremeDailyVolatility
	riskCfg.CorrelationWarningThreshold = cfg.Risk.CorrelationWarningThreshold
	riskCfg.LookbackSamples = cfg.Risk.LookbackSamples
	riskCfg.FetchWorkers = cfg.Risk.FetchWorkers

	engine, err := risk.NewEngine(riskCfg, provider)
	if err != nil {
		log.Fatalf("Failed to create risk engine: %v", err)
	}

	// Expose Prometheus metrics and the health endpoint when a port is configured
	health := monitoring.NewHealthChecker()
	if cfg.Monitoring.PrometheusPort > 0 {
		go serveMetrics(cfg.Monitoring.PrometheusPort, health)
	}

	fmt.Println("🚀 Risk Report Starting...")
	fmt.Printf("📊 Symbols: %s\n", strings.Join(symbols, ", "))
	fmt.Printf("🏪 Provider: %s\n", provider.GetName())
	fmt.Printf("📅 Window: %s → %s\n", start.Format(dateLayout), end.Format(dateLayout))
	fmt.Println(strings.Repeat("=", 51))

	ctx := context.Background()
	assessments, err := engine.Assess(ctx, risk.AssessRequest{
		Symbols:   symbols,
		Portfolio: portfolio,
		Start:     start,
		End:       end,
	})
	if err != nil {
		health.RecordError(err.Error())
		log.Fatalf("Risk assessment failed: %v", err)
	}
	health.RecordBatch(len(assessments))

	report := &reporting.Report{
		GeneratedAt:                 time.Now().UTC().Format(time.RFC3339),
		Provider:                    provider.GetName(),
		Start:                       start.Format(dateLayout),
		End:                         end.Format(dateLayout),
		Assessments:                 assessments,
		ExtremeDailyVolatility:      riskCfg.ExtremeDailyVolatility,
		CorrelationWarningThreshold: riskCfg.CorrelationWarningThreshold,
	}

	manager := reporting.NewReportingManager(reporting.ReportingConfig{
		EnableConsole:   !*quiet,
		OutputDirectory: *outDir,
		JSONFile:        *jsonOut,
		CSVFile:         *csvOut,
		XLSXFile:        *xlsxOut,
	})
	if err := manager.ReportBatch(report); err != nil {
		log.Fatalf("Failed to write reports: %v", err)
	}

	if *printJSON {
		reporting.PrintReportJSON(report)
	}
}

func loadEnvFile(envFile string) error {
	// Load .env file if it exists
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// loadPortfolio reads a portfolio snapshot from a JSON file. An empty path
// yields an empty portfolio so price-only reports need no file.
func loadPortfolio(path string) (types.Portfolio, error) {
	if path == "" {
		return types.Portfolio{Positions: map[string]types.Position{}}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Portfolio{}, fmt.Errorf("failed to read portfolio file %s: %w", path, err)
	}

	var portfolio types.Portfolio
	if err := json.Unmarshal(raw, &portfolio); err != nil {
		return types.Portfolio{}, fmt.Errorf("failed to parse portfolio file: %w", err)
	}
	if portfolio.Positions == nil {
		portfolio.Positions = map[string]types.Position{}
	}

	// Backfill symbol names from the map keys
	for symbol, pos := range portfolio.Positions {
		if pos.Symbol == "" {
			pos.Symbol = symbol
			portfolio.Positions[symbol] = pos
		}
	}

	return portfolio, nil
}

func resolveWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -90)

	var err error
	if startRaw != "" {
		start, err = time.Parse(dateLayout, startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startRaw, err)
		}
	}
	if endRaw != "" {
		end, err = time.Parse(dateLayout, endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endRaw, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s", end.Format(dateLayout), start.Format(dateLayout))
	}

	return start, end, nil
}

// buildProvider wires the configured price source behind an in-memory cache
func buildProvider(cfg *config.Config) (data.PriceProvider, error) {
	switch cfg.Provider.Name {
	case "csv":
		return data.NewCachedProvider(data.NewCSVProvider(cfg.Provider.DataRoot)), nil
	case "bybit":
		client := bybit.NewClient(bybit.Config{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.Secret,
			Testnet:   cfg.Exchange.Testnet,
		})
		return data.NewCachedProvider(bybit.NewProvider(client)), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func serveMetrics(port int, health *monitoring.HealthChecker) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", health)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("📈 Prometheus metrics available at http://localhost%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("⚠️ Metrics server stopped: %v", err)
	}
}
