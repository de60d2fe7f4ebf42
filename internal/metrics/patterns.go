package metrics

import "github.com/adestock/quant/internal/contracts"

// Pattern detector windows
const (
	vcpShortWindow = 20
	vcpLongWindow  = 60
	volShortWindow = 5
	volLongWindow  = 50
)

// VCP/거래량 고갈 임계치. 20일 변동성이 60일 대비 75% 아래로 수축하면 VCP,
// 5일 평균 거래량이 50일 대비 60% 아래면 고갈.
const (
	vcpContractionRatio = 0.75
	volDryUpRatio       = 0.6
)

// isVCP reports whether intraday volatility has contracted: the 20-bar mean
// daily range is below 75% of the 60-bar baseline. 진입 신호가 아니라 선행
// 패턴 플래그.
func isVCP(bars []contracts.PriceBar) bool {
	if len(bars) < vcpLongWindow {
		return false
	}

	vol20 := meanDailyRange(bars[len(bars)-vcpShortWindow:])
	vol60 := meanDailyRange(bars[len(bars)-vcpLongWindow:])

	return vol60 > 0 && vol20 < vcpContractionRatio*vol60
}

// isVolumeDryUp reports whether recent volume has dried up: the 5-bar average
// volume is below 60% of the 50-bar average
func isVolumeDryUp(bars []contracts.PriceBar) bool {
	if len(bars) < volLongWindow {
		return false
	}

	vol5 := meanVolume(bars[len(bars)-volShortWindow:])
	vol50 := meanVolume(bars[len(bars)-volLongWindow:])

	return vol50 > 0 && vol5 < volDryUpRatio*vol50
}

// meanDailyRange averages (high-low)/close per bar
func meanDailyRange(bars []contracts.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}

	var sum float64
	for _, b := range bars {
		if b.Close > 0 {
			sum += (b.High - b.Low) / b.Close
		}
	}
	return sum / float64(len(bars))
}

func meanVolume(bars []contracts.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}

	var sum int64
	for _, b := range bars {
		sum += b.Volume
	}
	return float64(sum) / float64(len(bars))
}
