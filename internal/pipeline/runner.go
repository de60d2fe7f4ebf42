package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/internal/metrics"
	"github.com/adestock/quant/internal/ranking"
	"github.com/adestock/quant/pkg/logger"
)

// Runner orchestrates the analysis cycle: metrics per instrument, then a
// cross-sectional ranking pass over the completed date.
// ⭐ SSOT: 분석 오케스트레이션은 이 패키지에서만
type Runner struct {
	instruments contracts.InstrumentRepository
	prices      contracts.PriceRepository
	features    contracts.FeatureRepository
	calculator  *metrics.Calculator
	engine      *ranking.Engine
	logger      *logger.Logger
}

// Config holds runner configuration
type Config struct {
	Benchmark   string // Benchmark ETF ticker (e.g. VTI)
	HistoryBars int    // Bars loaded per instrument
	Workers     int    // Number of concurrent workers
}

// NewRunner creates a new Runner instance
func NewRunner(
	instruments contracts.InstrumentRepository,
	prices contracts.PriceRepository,
	features contracts.FeatureRepository,
	calculator *metrics.Calculator,
	engine *ranking.Engine,
	log *logger.Logger,
) *Runner {
	return &Runner{
		instruments: instruments,
		prices:      prices,
		features:    features,
		calculator:  calculator,
		engine:      engine,
		logger:      log.WithField("module", "pipeline"),
	}
}

// AnalysisResult summarizes one analysis cycle
type AnalysisResult struct {
	Date       time.Time
	Calculated int
	Skipped    int
	Failed     int
}

// instrumentResult is the per-instrument outcome inside the worker pool
type instrumentResult struct {
	Ticker  string
	Skipped bool
	Error   error
}

// RunAnalysis computes metrics for every instrument against the benchmark,
// persists them, and ranks the resulting cross-section.
// 벤치마크 이력 부족은 전 종목 계산 불능이므로 즉시 실패, 개별 종목의
// 이력 부족은 건너뛰고 계속 진행한다.
func (r *Runner) RunAnalysis(ctx context.Context, cfg Config) (*AnalysisResult, error) {
	// 1. Load benchmark series once — shared by every worker, read only
	benchmark, err := r.prices.GetRecentBars(ctx, cfg.Benchmark, cfg.HistoryBars)
	if err != nil {
		return nil, fmt.Errorf("load benchmark %s: %w", cfg.Benchmark, err)
	}
	if len(benchmark) < metrics.MinHistoryBars {
		return nil, fmt.Errorf("benchmark %s has %d bars: %w",
			cfg.Benchmark, len(benchmark), contracts.ErrInsufficientHistory)
	}
	asOfDate := benchmark[len(benchmark)-1].Date

	// 2. Load instruments
	instruments, err := r.instruments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"instrument_count": len(instruments),
		"benchmark":        cfg.Benchmark,
		"as_of":            asOfDate.Format("2006-01-02"),
		"workers":          cfg.Workers,
	}).Info("Starting analysis cycle")

	// 3. Worker pool over instruments
	instCh := make(chan contracts.Instrument, len(instruments))
	resultCh := make(chan instrumentResult, len(instruments))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.analysisWorker(ctx, workerID, instCh, resultCh, benchmark, cfg.HistoryBars)
		}(i)
	}

	for _, inst := range instruments {
		instCh <- inst
	}
	close(instCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// 4. Collect results
	result := &AnalysisResult{Date: asOfDate}
	for res := range resultCh {
		switch {
		case res.Skipped:
			result.Skipped++
		case res.Error != nil:
			result.Failed++
		default:
			result.Calculated++
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"calculated": result.Calculated,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
	}).Info("Metrics pass completed")

	// 5. Rank the completed cross-section
	if err := r.RankDate(ctx, asOfDate); err != nil {
		return result, fmt.Errorf("rank %s: %w", asOfDate.Format("2006-01-02"), err)
	}

	return result, nil
}

// analysisWorker computes and persists metrics for queued instruments
func (r *Runner) analysisWorker(
	ctx context.Context,
	workerID int,
	instCh <-chan contracts.Instrument,
	resultCh chan<- instrumentResult,
	benchmark []contracts.PriceBar,
	historyBars int,
) {
	for inst := range instCh {
		select {
		case <-ctx.Done():
			resultCh <- instrumentResult{Ticker: inst.Ticker, Error: ctx.Err()}
			return
		default:
		}

		bars, err := r.prices.GetRecentBars(ctx, inst.Ticker, historyBars)
		if err != nil {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": inst.Ticker,
			}).Error("Failed to load bars")
			resultCh <- instrumentResult{Ticker: inst.Ticker, Error: err}
			continue
		}

		daily, weekly, err := r.calculator.Calculate(ctx, inst.Ticker, bars, benchmark)
		if errors.Is(err, contracts.ErrInsufficientHistory) {
			// 신규 상장 등 이력 부족 — 실패가 아니라 제외
			r.logger.WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": inst.Ticker,
				"bars":   len(bars),
			}).Warn("Skipping instrument with insufficient history")
			resultCh <- instrumentResult{Ticker: inst.Ticker, Skipped: true}
			continue
		}
		if err != nil {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": inst.Ticker,
			}).Error("Failed to calculate metrics")
			resultCh <- instrumentResult{Ticker: inst.Ticker, Error: err}
			continue
		}

		if err := r.prices.SaveDaily(ctx, daily); err != nil {
			resultCh <- instrumentResult{Ticker: inst.Ticker, Error: err}
			continue
		}
		if err := r.features.SaveWeekly(ctx, weekly); err != nil {
			resultCh <- instrumentResult{Ticker: inst.Ticker, Error: err}
			continue
		}

		resultCh <- instrumentResult{Ticker: inst.Ticker}
	}
}

// RankDate ranks the cross-section stored for one as-of date and writes the
// four ranking fields back. 같은 날짜를 다시 돌려도 결과는 동일 (멱등).
func (r *Runner) RankDate(ctx context.Context, date time.Time) error {
	records, err := r.features.GetCrossSection(ctx, date)
	if err != nil {
		return fmt.Errorf("load cross-section: %w", err)
	}
	if len(records) == 0 {
		r.logger.WithField("date", date.Format("2006-01-02")).Warn("No records to rank")
		return nil
	}

	priorRatings, err := r.features.GetPriorRatings(ctx, date, ranking.TrendWindow)
	if err != nil {
		return fmt.Errorf("load prior ratings: %w", err)
	}

	ranked, err := r.engine.Rank(ctx, ranking.Snapshot{
		Date:         date,
		Records:      records,
		PriorRatings: priorRatings,
	})
	if err != nil {
		return fmt.Errorf("rank cross-section: %w", err)
	}

	if err := r.features.UpdateRankings(ctx, ranked); err != nil {
		return fmt.Errorf("update rankings: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"count": len(ranked),
	}).Info("Cross-section ranked")

	return nil
}

// Backfill re-ranks every stored cross-section in [from, to], oldest first.
// 모멘텀·추세가 이전 날짜의 랭킹에 의존하므로 순서가 중요하다.
func (r *Runner) Backfill(ctx context.Context, from, to time.Time) (int, error) {
	dates, err := r.features.GetDates(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("list dates: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"dates": len(dates),
	}).Info("Starting ranking backfill")

	for i, date := range dates {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		if err := r.RankDate(ctx, date); err != nil {
			return i, fmt.Errorf("backfill %s: %w", date.Format("2006-01-02"), err)
		}
	}

	return len(dates), nil
}
