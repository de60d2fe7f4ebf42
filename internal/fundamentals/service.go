package fundamentals

import (
	"context"
	"fmt"
	"time"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/pkg/logger"
)

// Scorer reads stored statements, derives growth, scores and persists the
// latest-state fundamentals record
// ⭐ SSOT: 펀더멘털 등급 산정은 여기서만
type Scorer struct {
	instruments contracts.InstrumentRepository
	financials  contracts.FinancialRepository
	logger      *logger.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewScorer creates a new fundamentals scorer
func NewScorer(instruments contracts.InstrumentRepository, financials contracts.FinancialRepository, log *logger.Logger) *Scorer {
	return &Scorer{
		instruments: instruments,
		financials:  financials,
		logger:      log,
		now:         time.Now,
	}
}

// RefreshAll recomputes growth figures and the composite score for every
// STOCK instrument. 종목별 실패는 배치를 중단시키지 않음.
func (s *Scorer) RefreshAll(ctx context.Context) error {
	instruments, err := s.instruments.ListByMarketType(ctx, "STOCK")
	if err != nil {
		return fmt.Errorf("list instruments: %w", err)
	}

	s.logger.WithField("count", len(instruments)).Info("Starting fundamentals refresh")

	scored := 0
	skipped := 0
	failed := 0
	for _, inst := range instruments {
		f, err := s.ScoreInstrument(ctx, inst.Ticker)
		switch {
		case err != nil:
			failed++
			s.logger.WithError(err).WithField("ticker", inst.Ticker).
				Warn("Failed to score instrument fundamentals")
		case f == nil:
			skipped++ // 분기 데이터 없음
		default:
			scored++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"scored":  scored,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Fundamentals refresh completed")

	return nil
}

// ScoreInstrument derives growth from the stored quarterly series, combines
// it with the latest annual ROE and upserts the result. Returns nil without
// error when no quarterly data exists yet.
func (s *Scorer) ScoreInstrument(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	if err := s.recomputeGrowth(ctx, ticker); err != nil {
		return nil, err
	}

	latestQ, err := s.financials.GetLatestQuarterly(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("latest quarterly: %w", err)
	}
	if latestQ == nil {
		return nil, nil
	}

	latestA, err := s.financials.GetLatestAnnual(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("latest annual: %w", err)
	}

	in := ScoreInput{
		EPSGrowthYoY:    latestQ.EPSGrowthYoY,
		LatestEPS:       latestQ.BasicEPS,
		LatestNetIncome: latestQ.NetIncome,
	}
	if latestA != nil {
		in.ROE = latestA.ROE
	}

	result := Score(in)

	record := &contracts.Fundamentals{
		Ticker:       ticker,
		LatestQDate:  latestQ.Date,
		EPSRating:    result.TotalScore,
		Grade:        result.Grade,
		EPSGrowthYoY: latestQ.EPSGrowthYoY,
		ROE:          in.ROE,
		UpdatedAt:    s.now(),
	}

	if err := s.financials.SaveFundamentals(ctx, record); err != nil {
		return nil, fmt.Errorf("save fundamentals: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"score":  result.TotalScore,
		"grade":  result.Grade,
		"capped": result.DeficitCapped,
	}).Debug("Scored instrument fundamentals")

	return record, nil
}

// recomputeGrowth rewrites the YoY growth columns of the stored quarterly
// series. 새 분기가 들어올 때마다 전체 시리즈를 다시 계산해도 멱등.
func (s *Scorer) recomputeGrowth(ctx context.Context, ticker string) error {
	series, err := s.financials.GetQuarterlySeries(ctx, ticker)
	if err != nil {
		return fmt.Errorf("quarterly series: %w", err)
	}
	if len(series) == 0 {
		return nil
	}

	derived := DeriveQuarterlyGrowth(series)
	for i := range derived {
		q := derived[i]
		if err := s.financials.SaveQuarterly(ctx, &q); err != nil {
			return fmt.Errorf("save quarterly %s %s: %w", ticker, q.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}
