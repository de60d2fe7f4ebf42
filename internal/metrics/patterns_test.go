package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVCP(t *testing.T) {
	// 60-bar window: 40 old bars with range 4, 20 recent bars with range r.
	// vol60 = (40*4 + 20*r)/60, vol20 = r (close constant at 100).
	tests := []struct {
		name        string
		recentRange float64
		want        bool
	}{
		// r = 1.6: vol20 = 0.5 * vol60 -> contracted
		{"contraction to 50 percent", 1.6, true},
		// r = 24.0/7: vol20 = 0.9 * vol60 -> not contracted
		{"only 90 percent of baseline", 24.0 / 7.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := flatBars("AAPL", 60, 100, 1000)
			for i := range bars {
				r := 4.0
				if i >= 40 {
					r = tt.recentRange
				}
				bars[i].High = 100 + r/2
				bars[i].Low = 100 - r/2
			}

			assert.Equal(t, tt.want, isVCP(bars))
		})
	}
}

func TestIsVCP_InsufficientBars(t *testing.T) {
	bars := flatBars("AAPL", 59, 100, 1000)
	assert.False(t, isVCP(bars))
}

func TestIsVCP_ZeroBaseline(t *testing.T) {
	// 변동이 전혀 없으면 vol60 == 0 -> VCP 아님
	bars := flatBars("AAPL", 60, 100, 1000)
	for i := range bars {
		bars[i].High = 100
		bars[i].Low = 100
	}
	assert.False(t, isVCP(bars))
}

func TestIsVolumeDryUp(t *testing.T) {
	tests := []struct {
		name         string
		recentVolume int64
		want         bool
	}{
		// vol50 = (45*1000 + 5*500)/50 = 950; 500 < 0.6*950 -> dry
		{"volume dried up", 500, true},
		// vol50 = 1000; 1000 >= 600 -> not dry
		{"volume unchanged", 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := flatBars("AAPL", 50, 100, 1000)
			for i := 45; i < 50; i++ {
				bars[i].Volume = tt.recentVolume
			}

			assert.Equal(t, tt.want, isVolumeDryUp(bars))
		})
	}
}

func TestIsVolumeDryUp_InsufficientBars(t *testing.T) {
	bars := flatBars("AAPL", 49, 100, 100)
	assert.False(t, isVolumeDryUp(bars))
}

func TestDetectorsAreIndependent(t *testing.T) {
	// Both flags can be true at once; the calculator never combines them
	bars := flatBars("AAPL", 60, 100, 1000)
	for i := range bars {
		r := 4.0
		if i >= 40 {
			r = 1.6
		}
		bars[i].High = 100 + r/2
		bars[i].Low = 100 - r/2
	}
	for i := 55; i < 60; i++ {
		bars[i].Volume = 100
	}

	assert.True(t, isVCP(bars))
	assert.True(t, isVolumeDryUp(bars))
}
