package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adestock/quant/internal/metrics"
	"github.com/adestock/quant/internal/pipeline"
	"github.com/adestock/quant/internal/ranking"
	"github.com/adestock/quant/internal/store"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/database"
	"github.com/adestock/quant/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "전체 분석 사이클 실행",
	Long: `전 종목의 지표를 계산하고 단면 랭킹까지 매깁니다.

이 명령어는:
- 종목 마스터 로드
- 종목별 가중 상대수익·200일선·패턴·ATR 손절가 계산
- 완성된 단면에 백분위 랭킹 부여

Example:
  go run ./cmd/quant analyze
  go run ./cmd/quant analyze --benchmark VTI --workers 16`,
	RunE: runAnalyze,
}

var (
	analyzeBenchmark string
	analyzeWorkers   int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeBenchmark, "benchmark", "", "벤치마크 티커 (기본: config)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "동시 워커 수 (기본: config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AdeStock Quant Analysis ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if analyzeBenchmark != "" {
		cfg.Analysis.Benchmark = analyzeBenchmark
	}
	if analyzeWorkers > 0 {
		cfg.Analysis.Workers = analyzeWorkers
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// 4. Wire the pipeline
	runner := pipeline.NewRunner(
		store.NewInstrumentRepository(db.Pool),
		store.NewPriceRepository(db.Pool),
		store.NewFeatureRepository(db.Pool),
		metrics.NewCalculator(log),
		ranking.NewEngine(log),
		log,
	)

	// 5. Run
	start := time.Now()
	result, err := runner.RunAnalysis(context.Background(), pipeline.Config{
		Benchmark:   cfg.Analysis.Benchmark,
		HistoryBars: cfg.Analysis.HistoryBars,
		Workers:     cfg.Analysis.Workers,
	})
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	fmt.Printf("\n✅ Analysis completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("   As-of date: %s\n", result.Date.Format("2006-01-02"))
	fmt.Printf("   Calculated: %d\n", result.Calculated)
	fmt.Printf("   Skipped:    %d (insufficient history)\n", result.Skipped)
	fmt.Printf("   Failed:     %d\n", result.Failed)

	return nil
}
