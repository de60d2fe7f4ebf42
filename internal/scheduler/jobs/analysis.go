package jobs

import (
	"context"
	"fmt"

	"github.com/adestock/quant/internal/pipeline"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/logger"
)

// AnalysisJob runs the full metrics + ranking cycle after the close
// ⭐ SSOT: 일일 분석 스케줄은 이 Job에서만
type AnalysisJob struct {
	runner *pipeline.Runner
	config *config.Config
	logger *logger.Logger
}

// NewAnalysisJob creates a new analysis job
func NewAnalysisJob(runner *pipeline.Runner, cfg *config.Config, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		runner: runner,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "daily_analysis"
}

// Schedule returns the cron schedule (weekdays at 6 PM, with seconds)
func (j *AnalysisJob) Schedule() string {
	return "0 0 18 * * 1-5"
}

// Run executes the analysis cycle
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled analysis")

	result, err := j.runner.RunAnalysis(ctx, pipeline.Config{
		Benchmark:   j.config.Analysis.Benchmark,
		HistoryBars: j.config.Analysis.HistoryBars,
		Workers:     j.config.Analysis.Workers,
	})
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":       result.Date.Format("2006-01-02"),
		"calculated": result.Calculated,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
	}).Info("Scheduled analysis completed")

	return nil
}
