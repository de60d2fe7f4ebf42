package ranking

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/pkg/logger"
)

// TrendWindow is the number of cross-sections (current inclusive) averaged
// for the rating trend
const TrendWindow = 4

// Snapshot is the immutable input of one ranking pass: the complete
// cross-section for a single as-of date plus the prior ratings needed for
// momentum and trend.
// ⭐ 단면이 완전히 쌓인 뒤에만 만들 것 — 부분 단면 위의 백분위는 조용히 틀림
type Snapshot struct {
	Date    time.Time
	Records []contracts.WeeklyFeature

	// PriorRatings maps ticker -> rs_rating of up to TrendWindow-1 earlier
	// cross-sections, most recent first. Missing ticker means first
	// observation (momentum stays nil).
	PriorRatings map[string][]float64
}

// Engine computes percentile ratings, momentum, trend and grade over one
// cross-section
// ⭐ SSOT: 횡단면 랭킹 계산은 여기서만
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new ranking engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger: log,
	}
}

// Rank returns a copy of the snapshot's records with the four ranking fields
// populated. Pure and idempotent: same snapshot, same output. A cross-section
// with fewer than 2 members is degenerate but defined (single member rates
// 100) and only logged as a warning.
func (e *Engine) Rank(ctx context.Context, snap Snapshot) ([]contracts.WeeklyFeature, error) {
	n := len(snap.Records)
	if n == 0 {
		e.logger.WithField("date", snap.Date.Format("2006-01-02")).
			Warn("Empty cross-section, nothing to rank")
		return nil, nil
	}
	if n == 1 {
		e.logger.WithFields(map[string]interface{}{
			"date":   snap.Date.Format("2006-01-02"),
			"ticker": snap.Records[0].Ticker,
		}).Warn("Degenerate cross-section with a single member")
	}

	// Sorted rs_values for strictly-lower counting (tie handling:
	// 동률은 더 낮은 값의 비율로 같은 순위를 받음)
	values := make([]float64, n)
	for i, r := range snap.Records {
		values[i] = r.RSValue
	}
	sort.Float64s(values)

	ranked := make([]contracts.WeeklyFeature, n)
	for i, rec := range snap.Records {
		out := rec

		rating := percentileRating(values, rec.RSValue)
		out.RSRating = &rating

		prior := snap.PriorRatings[rec.Ticker]
		if len(prior) > 0 {
			momentum := rating - prior[0]
			out.RSMomentum = &momentum
		}

		trend := trendFor(rating, prior)
		out.RSTrend = &trend

		grade := contracts.GradeForRating(rating)
		out.StockGrade = &grade

		ranked[i] = out
	}

	e.logger.WithFields(map[string]interface{}{
		"date":  snap.Date.Format("2006-01-02"),
		"count": n,
	}).Info("Cross-section ranked")

	return ranked, nil
}

// percentileRating computes round(percent_rank * 100) over the sorted
// cross-section values. percent_rank = (strictly lower count) / (n-1);
// a single-member cross-section rates 100.
func percentileRating(sorted []float64, value float64) float64 {
	n := len(sorted)
	if n < 2 {
		return 100
	}

	lower := sort.SearchFloat64s(sorted, value)
	return math.Round(float64(lower) / float64(n-1) * 100)
}

// trendFor classifies the rating against its trailing TrendWindow average
// (current inclusive). 평균 이상이면 UP, 미만이면 DOWN.
func trendFor(rating float64, prior []float64) contracts.Trend {
	sum := rating
	count := 1.0
	for i, p := range prior {
		if i >= TrendWindow-1 {
			break
		}
		sum += p
		count++
	}

	if rating >= sum/count {
		return contracts.TrendUp
	}
	return contracts.TrendDown
}
