package metrics

import (
	"context"
	"math"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/pkg/logger"
)

// MinHistoryBars is the minimum number of daily bars for the RS calculation.
// 4분기 가중수익률이 252 거래일 창을 전제로 함.
const MinHistoryBars = 252

// Calculator turns one instrument's OHLCV series into daily and weekly
// feature records
// ⭐ SSOT: 종목별 지표 계산은 여기서만
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new metrics calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{
		logger: log,
	}
}

// Calculate computes the daily snapshot and weekly feature record for one
// instrument. bars and benchmark must both be ascending by date. Less than
// 252 bars or a misaligned benchmark returns a typed skip error, never a
// panic — the caller continues with other instruments.
func (c *Calculator) Calculate(ctx context.Context, ticker string, bars []contracts.PriceBar, benchmark []contracts.PriceBar) (*contracts.DailyFeature, *contracts.WeeklyFeature, error) {
	if len(bars) < MinHistoryBars {
		return nil, nil, &contracts.InsufficientHistoryError{
			Ticker:   ticker,
			Got:      len(bars),
			Required: MinHistoryBars,
		}
	}

	if !benchmarkAligned(bars, benchmark) {
		return nil, nil, contracts.ErrBenchmarkMismatch
	}

	closes := closeSeries(bars)
	benchCloses := closeSeries(benchmark)
	latest := bars[len(bars)-1]

	// 벤치마크 대비 가중 상대수익 ×100
	rsValue := (weightedReturn(closes) - weightedReturn(benchCloses)) * 100

	sma200 := mean(closes[len(closes)-200:])
	deviation := (latest.Close/sma200 - 1) * 100

	// 5거래일 전 종가 대비 (오늘이 -1이므로 -6)
	weeklyReturn := (latest.Close/closes[len(closes)-6] - 1) * 100

	daily := &contracts.DailyFeature{
		Ticker: ticker,
		Date:   latest.Date,
		Open:   latest.Open,
		High:   latest.High,
		Low:    latest.Low,
		Close:  latest.Close,
		Volume: latest.Volume,
	}

	weekly := &contracts.WeeklyFeature{
		Ticker:         ticker,
		WeeklyDate:     latest.Date,
		WeeklyReturn:   round2(weeklyReturn),
		RSValue:        round2(rsValue),
		IsAbove200MA:   latest.Close > sma200,
		Deviation200MA: round2(deviation),
		IsVCP:          isVCP(bars),
		IsVolDry:       isVolumeDryUp(bars),
	}

	if stop, ok := atrStopLoss(bars); ok {
		weekly.ATRStopLoss = stop
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"date":     latest.Date.Format("2006-01-02"),
		"rs_value": weekly.RSValue,
		"is_vcp":   weekly.IsVCP,
	}).Debug("Calculated instrument metrics")

	return daily, weekly, nil
}

// weightedReturn computes the quarter-weighted return of a close series.
// 최근 분기에 0.4, 이전 세 분기에 각 0.2 가중. 252개 미만이면 실패 대신 0.
func weightedReturn(closes []float64) float64 {
	n := len(closes)
	if n < MinHistoryBars {
		return 0
	}

	r1 := closes[n-1]/closes[n-63] - 1
	r2 := closes[n-63]/closes[n-126] - 1
	r3 := closes[n-126]/closes[n-189] - 1
	r4 := closes[n-189]/closes[n-252] - 1

	return r1*0.4 + r2*0.2 + r3*0.2 + r4*0.2
}

// benchmarkAligned checks that the benchmark series covers the instrument's
// window: enough bars and the same final trading date
func benchmarkAligned(bars, benchmark []contracts.PriceBar) bool {
	if len(benchmark) < MinHistoryBars {
		return false
	}

	last := bars[len(bars)-1].Date
	benchLast := benchmark[len(benchmark)-1].Date
	return last.Equal(benchLast)
}

func closeSeries(bars []contracts.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round2 rounds to 2 decimal places. 파생 퍼센트 필드는 저장 전 반올림,
// 가격 원본 필드는 반올림하지 않음.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
