package ranking

import (
	"context"
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

func record(ticker string, rsValue float64) contracts.WeeklyFeature {
	return contracts.WeeklyFeature{
		Ticker:     ticker,
		WeeklyDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		RSValue:    rsValue,
	}
}

func ratingOf(t *testing.T, ranked []contracts.WeeklyFeature, ticker string) float64 {
	t.Helper()
	for _, r := range ranked {
		if r.Ticker == ticker {
			require.NotNil(t, r.RSRating)
			return *r.RSRating
		}
	}
	t.Fatalf("ticker %s not found", ticker)
	return 0
}

func TestEngine_ThreeInstrumentCrossSection(t *testing.T) {
	engine := NewEngine(testLogger())

	snap := Snapshot{
		Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Records: []contracts.WeeklyFeature{
			record("AAA", 10),
			record("BBB", 5),
			record("CCC", -2),
		},
		PriorRatings: map[string][]float64{},
	}

	ranked, err := engine.Rank(context.Background(), snap)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, 100.0, ratingOf(t, ranked, "AAA"))
	assert.Equal(t, 50.0, ratingOf(t, ranked, "BBB"))
	assert.Equal(t, 0.0, ratingOf(t, ranked, "CCC"))

	for _, r := range ranked {
		require.NotNil(t, r.StockGrade)
		// 첫 관측이므로 모멘텀은 nil
		assert.Nil(t, r.RSMomentum)
	}
	assert.Equal(t, contracts.GradeA, *ranked[0].StockGrade)
	assert.Equal(t, contracts.GradeC, *ranked[1].StockGrade)
	assert.Equal(t, contracts.GradeE, *ranked[2].StockGrade)
}

func TestEngine_MonotonicInRSValue(t *testing.T) {
	engine := NewEngine(testLogger())

	records := []contracts.WeeklyFeature{
		record("T1", -30), record("T2", -10), record("T3", 0),
		record("T4", 4), record("T5", 12), record("T6", 55),
	}

	ranked, err := engine.Rank(context.Background(), Snapshot{Records: records})
	require.NoError(t, err)

	prev := -1.0
	for _, ticker := range []string{"T1", "T2", "T3", "T4", "T5", "T6"} {
		rating := ratingOf(t, ranked, ticker)
		assert.Greater(t, rating, prev, "ratings must be monotonic in rs_value")
		prev = rating
	}
	assert.Equal(t, 0.0, ratingOf(t, ranked, "T1"))
	assert.Equal(t, 100.0, ratingOf(t, ranked, "T6"))
}

func TestEngine_TiesShareRank(t *testing.T) {
	engine := NewEngine(testLogger())

	ranked, err := engine.Rank(context.Background(), Snapshot{
		Records: []contracts.WeeklyFeature{
			record("LOW", 1),
			record("TIE1", 5),
			record("TIE2", 5),
			record("HIGH", 9),
		},
	})
	require.NoError(t, err)

	// 동률은 "자기보다 낮은 값의 비율"로 같은 순위
	assert.Equal(t, ratingOf(t, ranked, "TIE1"), ratingOf(t, ranked, "TIE2"))
	assert.InDelta(t, 33.0, ratingOf(t, ranked, "TIE1"), 0.5) // round(1/3*100)
}

func TestEngine_SingleMemberIsDegenerate(t *testing.T) {
	engine := NewEngine(testLogger())

	ranked, err := engine.Rank(context.Background(), Snapshot{
		Records: []contracts.WeeklyFeature{record("ONLY", 3.2)},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	// 단독 단면은 에러가 아니라 정의된 축퇴 결과: 100분위
	assert.Equal(t, 100.0, ratingOf(t, ranked, "ONLY"))
}

func TestEngine_EmptyCrossSection(t *testing.T) {
	engine := NewEngine(testLogger())

	ranked, err := engine.Rank(context.Background(), Snapshot{})
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestEngine_Momentum(t *testing.T) {
	engine := NewEngine(testLogger())

	snap := Snapshot{
		Records: []contracts.WeeklyFeature{
			record("AAA", 10),
			record("BBB", 5),
			record("CCC", -2),
		},
		PriorRatings: map[string][]float64{
			"AAA": {80},       // second observation
			"BBB": {50, 40, 30}, // full history
			// CCC: first observation
		},
	}

	ranked, err := engine.Rank(context.Background(), snap)
	require.NoError(t, err)

	for _, r := range ranked {
		switch r.Ticker {
		case "AAA":
			require.NotNil(t, r.RSMomentum)
			assert.Equal(t, 20.0, *r.RSMomentum) // 100 - 80
		case "BBB":
			require.NotNil(t, r.RSMomentum)
			assert.Equal(t, 0.0, *r.RSMomentum) // 50 - 50
		case "CCC":
			assert.Nil(t, r.RSMomentum)
		}
	}
}

func TestEngine_Trend(t *testing.T) {
	engine := NewEngine(testLogger())

	snap := Snapshot{
		Records: []contracts.WeeklyFeature{
			record("UPWARD", 10), // rating 100, prior avg pulls below
			record("FALLER", -5), // rating 0, prior ratings high
		},
		PriorRatings: map[string][]float64{
			"UPWARD": {90, 80, 70}, // avg4 = (100+90+80+70)/4 = 85 <= 100
			"FALLER": {60, 70, 80}, // avg4 = (0+60+70+80)/4 = 52.5 > 0
		},
	}

	ranked, err := engine.Rank(context.Background(), snap)
	require.NoError(t, err)

	for _, r := range ranked {
		require.NotNil(t, r.RSTrend)
		switch r.Ticker {
		case "UPWARD":
			assert.Equal(t, contracts.TrendUp, *r.RSTrend)
		case "FALLER":
			assert.Equal(t, contracts.TrendDown, *r.RSTrend)
		}
	}
}

func TestEngine_TrendUsesAtMostFourPeriods(t *testing.T) {
	// 5개 이상 과거 이력이 와도 최근 3개 + 현재만 평균
	assert.Equal(t, contracts.TrendUp, trendFor(50, []float64{50, 50, 50, 0, 0}))
	assert.Equal(t, contracts.TrendDown, trendFor(40, []float64{50, 50, 50, 0, 0}))
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(testLogger())

	snap := Snapshot{
		Records: []contracts.WeeklyFeature{
			record("AAA", 10), record("BBB", 5), record("CCC", -2),
		},
		PriorRatings: map[string][]float64{"AAA": {70}},
	}

	first, err := engine.Rank(context.Background(), snap)
	require.NoError(t, err)
	second, err := engine.Rank(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// 입력 스냅샷은 변경되지 않음
	for _, r := range snap.Records {
		assert.Nil(t, r.RSRating)
	}
}

func TestPercentileRating_GradeBoundaries(t *testing.T) {
	// rating 90 -> A, 89 -> B (경계는 하한 포함)
	assert.Equal(t, contracts.GradeA, contracts.GradeForRating(90))
	assert.Equal(t, contracts.GradeB, contracts.GradeForRating(89))
}
