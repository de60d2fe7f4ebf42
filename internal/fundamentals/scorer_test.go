package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adestock/quant/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestScore_DeficitCap(t *testing.T) {
	// 50% growth -> capped 60, 20% ROE -> 47 capped 40, raw sum 100 —
	// 그러나 최신 EPS 적자면 39.0 상한
	result := Score(ScoreInput{
		EPSGrowthYoY:    fp(50),
		ROE:             fp(20),
		LatestEPS:       -1,
		LatestNetIncome: 1000,
	})

	assert.Equal(t, 60.0, result.GrowthScore)
	assert.Equal(t, 40.0, result.ROEScore)
	assert.Equal(t, 39.0, result.TotalScore)
	assert.Equal(t, contracts.GradeD, result.Grade)
	assert.True(t, result.DeficitCapped)
}

func TestScore_DeficitCapOnNetIncome(t *testing.T) {
	result := Score(ScoreInput{
		EPSGrowthYoY:    fp(40),
		ROE:             fp(25),
		LatestEPS:       0.5,
		LatestNetIncome: -100,
	})

	assert.Equal(t, 39.0, result.TotalScore)
	assert.True(t, result.DeficitCapped)
}

func TestScore_CapIsACeilingNotASubtraction(t *testing.T) {
	// 적자여도 원래 점수가 상한 아래면 그대로
	result := Score(ScoreInput{
		EPSGrowthYoY:    fp(5), // growth score 10
		ROE:             fp(4), // roe score 9.4
		LatestEPS:       -2,
		LatestNetIncome: -50,
	})

	assert.Equal(t, 19.4, result.TotalScore)
	assert.Equal(t, contracts.GradeE, result.Grade)
	assert.True(t, result.DeficitCapped)
}

func TestScore_Clamps(t *testing.T) {
	tests := []struct {
		name       string
		in         ScoreInput
		wantGrowth float64
		wantROE    float64
		wantTotal  float64
		wantGrade  contracts.Grade
	}{
		{
			name:       "perfect score",
			in:         ScoreInput{EPSGrowthYoY: fp(30), ROE: fp(17.1), LatestEPS: 1, LatestNetIncome: 1},
			wantGrowth: 60,
			wantROE:    40,
			wantTotal:  100,
			wantGrade:  contracts.GradeA,
		},
		{
			name:       "negative growth clamps to zero",
			in:         ScoreInput{EPSGrowthYoY: fp(-20), ROE: fp(10), LatestEPS: 1, LatestNetIncome: 1},
			wantGrowth: 0,
			wantROE:    23.5,
			wantTotal:  23.5,
			wantGrade:  contracts.GradeD,
		},
		{
			name:       "mid-range",
			in:         ScoreInput{EPSGrowthYoY: fp(15), ROE: fp(10), LatestEPS: 1, LatestNetIncome: 1},
			wantGrowth: 30,
			wantROE:    23.5,
			wantTotal:  53.5,
			wantGrade:  contracts.GradeC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.in)
			assert.Equal(t, tt.wantGrowth, result.GrowthScore)
			assert.Equal(t, tt.wantROE, result.ROEScore)
			assert.Equal(t, tt.wantTotal, result.TotalScore)
			assert.Equal(t, tt.wantGrade, result.Grade)
			assert.False(t, result.DeficitCapped)
		})
	}
}

func TestScore_NullInputsCoalesceToZero(t *testing.T) {
	// 결측 입력은 에러가 아니라 0점 처리
	result := Score(ScoreInput{LatestEPS: 1, LatestNetIncome: 1})

	assert.Equal(t, 0.0, result.TotalScore)
	assert.Equal(t, contracts.GradeE, result.Grade)
	assert.False(t, result.DeficitCapped)
}

func TestCoalesceForScoring(t *testing.T) {
	assert.Equal(t, 0.0, coalesceForScoring(nil))
	assert.Equal(t, 12.5, coalesceForScoring(fp(12.5)))
}
