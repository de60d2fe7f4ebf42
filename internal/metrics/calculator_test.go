package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adestock/quant/internal/contracts"
	"github.com/adestock/quant/pkg/config"
	"github.com/adestock/quant/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// flatBars builds n bars with constant close and intraday range 2
func flatBars(ticker string, n int, close float64, volume int64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: volume,
		}
	}
	return bars
}

func TestCalculator_InsufficientHistory(t *testing.T) {
	calc := NewCalculator(testLogger())

	bars := flatBars("AAPL", 200, 100, 1000)
	bench := flatBars("VTI", 252, 100, 1000)

	_, _, err := calc.Calculate(context.Background(), "AAPL", bars, bench)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInsufficientHistory))

	var ihe *contracts.InsufficientHistoryError
	require.True(t, errors.As(err, &ihe))
	assert.Equal(t, 200, ihe.Got)
	assert.Equal(t, 252, ihe.Required)
}

func TestCalculator_BenchmarkMismatch(t *testing.T) {
	calc := NewCalculator(testLogger())

	bars := flatBars("AAPL", 252, 100, 1000)

	// Benchmark ends one day earlier than the instrument
	bench := flatBars("VTI", 252, 100, 1000)
	bench = bench[:251]

	_, _, err := calc.Calculate(context.Background(), "AAPL", bars, bench)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrBenchmarkMismatch))
	// 벤치마크 이탈은 InsufficientHistory와 동일하게 스킵 처리
	assert.True(t, errors.Is(err, contracts.ErrInsufficientHistory))
}

func TestCalculator_RSValue(t *testing.T) {
	calc := NewCalculator(testLogger())

	// Instrument doubles over the most recent quarter, flat before that:
	// r1 = 1.0, r2 = r3 = r4 = 0 -> weighted = 0.4 -> rs_value = 40
	bars := flatBars("NVDA", 252, 100, 1000)
	for i := 190; i < 252; i++ {
		bars[i].Open = 200
		bars[i].High = 201
		bars[i].Low = 199
		bars[i].Close = 200
	}
	bench := flatBars("VTI", 252, 100, 1000)
	// Align benchmark dates with the instrument
	for i := range bench {
		bench[i].Date = bars[i].Date
	}

	daily, weekly, err := calc.Calculate(context.Background(), "NVDA", bars, bench)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, weekly.RSValue, 1e-9)
	assert.Equal(t, 0.0, weekly.WeeklyReturn) // flat over the last 5 sessions
	assert.True(t, weekly.IsAbove200MA)
	assert.Equal(t, "NVDA", weekly.Ticker)
	assert.Equal(t, bars[251].Date, weekly.WeeklyDate)

	// Daily snapshot mirrors the latest bar without rounding
	assert.Equal(t, 200.0, daily.Close)
	assert.Equal(t, int64(1000), daily.Volume)
}

func TestCalculator_RankingFieldsUntouched(t *testing.T) {
	calc := NewCalculator(testLogger())

	bars := flatBars("AAPL", 252, 100, 1000)
	bench := flatBars("VTI", 252, 100, 1000)

	_, weekly, err := calc.Calculate(context.Background(), "AAPL", bars, bench)
	require.NoError(t, err)

	// 랭킹 필드는 랭킹 엔진 전까지 nil
	assert.Nil(t, weekly.RSRating)
	assert.Nil(t, weekly.RSMomentum)
	assert.Nil(t, weekly.RSTrend)
	assert.Nil(t, weekly.StockGrade)
}

func TestCalculator_Deterministic(t *testing.T) {
	calc := NewCalculator(testLogger())

	bars := flatBars("MSFT", 300, 150, 2000)
	for i := range bars {
		// Mild uptrend with varying volume
		bars[i].Close += float64(i) * 0.25
		bars[i].High = bars[i].Close + 1.5
		bars[i].Low = bars[i].Close - 1.5
		bars[i].Volume = 2000 + int64(i%7)*100
	}
	bench := flatBars("VTI", 300, 100, 1000)
	for i := range bench {
		bench[i].Date = bars[i].Date
	}

	_, first, err := calc.Calculate(context.Background(), "MSFT", bars, bench)
	require.NoError(t, err)
	_, second, err := calc.Calculate(context.Background(), "MSFT", bars, bench)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWeightedReturn_ShortSeries(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	// 252개 미만이면 실패 대신 0
	assert.Equal(t, 0.0, weightedReturn(closes))
}

func TestWeightedReturn_QuarterWeights(t *testing.T) {
	// Each quarter gains exactly 10%:
	// weighted = 0.1*0.4 + 0.1*0.2 + 0.1*0.2 + 0.1*0.2 = 0.1
	closes := make([]float64, 252)
	for i := range closes {
		closes[i] = 100
	}
	closes[251] = 110 // close[-1]
	closes[189] = 100 // close[-63]
	closes[126] = 100.0 / 1.1
	closes[63] = 100.0 / 1.1 / 1.1
	closes[0] = 100.0 / 1.1 / 1.1 / 1.1

	// r1 = 110/100-1 = 0.1; each deeper quarter also +10%
	got := weightedReturn(closes)
	assert.InDelta(t, 0.1, got, 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2345))
	assert.Equal(t, 1.24, round2(1.235))
	assert.Equal(t, -2.57, round2(-2.5651))
	assert.Equal(t, 0.0, round2(0))
}
