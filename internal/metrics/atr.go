package metrics

import (
	"math"

	"github.com/adestock/quant/internal/contracts"
)

// atrPeriod is the lookback for the average true range
const atrPeriod = 14

// atrStopLoss computes a volatility-adjusted downside level:
// close - 2*ATR14, rounded to 2 decimals. Needs atrPeriod+1 bars because the
// oldest bar of the window has no previous close and is excluded from the
// mean. ok=false when history is too short.
func atrStopLoss(bars []contracts.PriceBar) (float64, bool) {
	if len(bars) < atrPeriod+1 {
		return 0, false
	}

	// 최근 14개 바의 TR 평균. 각 바는 직전 종가가 필요.
	start := len(bars) - atrPeriod
	var sum float64
	for i := start; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1].Close)
	}
	atr := sum / atrPeriod

	latest := bars[len(bars)-1]
	return round2(latest.Close - 2*atr), true
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|)
func trueRange(bar contracts.PriceBar, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if hc := math.Abs(bar.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(bar.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}
