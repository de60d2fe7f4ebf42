package jobs

import (
	"context"
	"fmt"

	"github.com/adestock/quant/internal/fundamentals"
	"github.com/adestock/quant/pkg/logger"
)

// FundamentalsJob rescores fundamentals weekly, after the new filings settle.
// 재무제표는 주중에 바뀌지 않으므로 토요일 아침 한 번이면 충분
type FundamentalsJob struct {
	scorer *fundamentals.Scorer
	logger *logger.Logger
}

// NewFundamentalsJob creates a new fundamentals job
func NewFundamentalsJob(scorer *fundamentals.Scorer, log *logger.Logger) *FundamentalsJob {
	return &FundamentalsJob{
		scorer: scorer,
		logger: log,
	}
}

// Name returns the job name
func (j *FundamentalsJob) Name() string {
	return "weekly_fundamentals"
}

// Schedule returns the cron schedule (Saturday at 8 AM, with seconds)
func (j *FundamentalsJob) Schedule() string {
	return "0 0 8 * * 6"
}

// Run executes the fundamentals refresh
func (j *FundamentalsJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled fundamentals refresh")

	if err := j.scorer.RefreshAll(ctx); err != nil {
		return fmt.Errorf("refresh fundamentals: %w", err)
	}

	j.logger.Info("Scheduled fundamentals refresh completed")
	return nil
}
