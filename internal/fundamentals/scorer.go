package fundamentals

import (
	"math"

	"github.com/adestock/quant/internal/contracts"
)

// Scoring constants. 성장률 1%당 2점(30%에서 만점 60), ROE 1%당 2.35점
// (17%에서 만점 40). 적자 기업은 총점이 39.0을 넘지 못함.
const (
	growthPointsPerPct = 2.0
	growthScoreMax     = 60.0
	roePointsPerPct    = 2.35
	roeScoreMax        = 40.0
	deficitScoreCap    = 39.0
)

// ScoreInput carries the latest fundamentals of one instrument.
// EPSGrowthYoY/ROE는 결측이 흔해 nullable — 점수 계산에서만 0으로 치환된다.
type ScoreInput struct {
	EPSGrowthYoY    *float64 // latest quarter EPS growth YoY (%)
	ROE             *float64 // latest annual return on equity (%)
	LatestEPS       float64  // latest quarter basic EPS
	LatestNetIncome int64    // latest quarter net income
}

// ScoreResult is the composite fundamentals score breakdown
type ScoreResult struct {
	GrowthScore   float64
	ROEScore      float64
	TotalScore    float64
	Grade         contracts.Grade
	DeficitCapped bool
}

// Score computes the 0~100 composite fundamentals score and letter grade.
// The deficit penalty is a hard ceiling, not a subtraction: a fast-growing
// but unprofitable instrument cannot score above the D range.
func Score(in ScoreInput) ScoreResult {
	growth := coalesceForScoring(in.EPSGrowthYoY)
	roe := coalesceForScoring(in.ROE)

	result := ScoreResult{
		GrowthScore: clamp(growth*growthPointsPerPct, 0, growthScoreMax),
		ROEScore:    clamp(roe*roePointsPerPct, 0, roeScoreMax),
	}

	total := round1(result.GrowthScore + result.ROEScore)

	// 최신 분기 EPS나 순이익이 적자면 상한 적용
	if in.LatestEPS < 0 || in.LatestNetIncome < 0 {
		if total > deficitScoreCap {
			total = deficitScoreCap
		}
		result.DeficitCapped = true
	}

	result.TotalScore = total
	result.Grade = contracts.GradeForFundamentalScore(total)
	return result
}

// coalesceForScoring substitutes zero for missing inputs. 저장소의 원본은
// nullable로 남기고, 치환은 점수 계산 시점에만 — "결측"과 "0"의 구분을
// 구조적으로 유지하기 위한 명시적 단계.
func coalesceForScoring(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
