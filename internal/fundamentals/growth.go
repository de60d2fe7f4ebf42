package fundamentals

import (
	"math"

	"github.com/adestock/quant/internal/contracts"
)

// yoyPeriods is the quarter shift for year-over-year comparison
const yoyPeriods = 4

// YoYGrowth computes a period-over-period percent change using the
// sign-stable form (curr - prev) / |prev| * 100, rounded to 2 decimals.
// 전기가 0이면 성장률을 정의할 수 없어 nil.
func YoYGrowth(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}

	growth := (current - previous) / math.Abs(previous) * 100
	rounded := math.Round(growth*100) / 100
	return &rounded
}

// DeriveQuarterlyGrowth fills RevGrowthYoY and EPSGrowthYoY on a ticker's
// quarterly series (ascending by date) by comparing each quarter with the
// one four periods earlier. Quarters without a comparable prior stay nil.
func DeriveQuarterlyGrowth(series []contracts.QuarterlyFinancial) []contracts.QuarterlyFinancial {
	out := make([]contracts.QuarterlyFinancial, len(series))
	copy(out, series)

	for i := range out {
		if i < yoyPeriods {
			continue
		}
		prev := out[i-yoyPeriods]

		out[i].RevGrowthYoY = YoYGrowth(float64(out[i].Revenue), float64(prev.Revenue))
		out[i].EPSGrowthYoY = YoYGrowth(out[i].BasicEPS, prev.BasicEPS)
	}

	return out
}
