package fundamentals

import (
	"context"
	"sort"
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

type fakeInstrumentRepo struct {
	instruments []contracts.Instrument
}

func (f *fakeInstrumentRepo) List(ctx context.Context) ([]contracts.Instrument, error) {
	return f.instruments, nil
}

func (f *fakeInstrumentRepo) ListByMarketType(ctx context.Context, marketType string) ([]contracts.Instrument, error) {
	var out []contracts.Instrument
	for _, inst := range f.instruments {
		if inst.MarketType == marketType {
			out = append(out, inst)
		}
	}
	return out, nil
}

type fakeFinancialRepo struct {
	quarterly    map[string][]contracts.QuarterlyFinancial
	annual       map[string]contracts.AnnualFinancial
	fundamentals map[string]contracts.Fundamentals
}

func newFakeFinancialRepo() *fakeFinancialRepo {
	return &fakeFinancialRepo{
		quarterly:    make(map[string][]contracts.QuarterlyFinancial),
		annual:       make(map[string]contracts.AnnualFinancial),
		fundamentals: make(map[string]contracts.Fundamentals),
	}
}

func (f *fakeFinancialRepo) SaveQuarterly(ctx context.Context, q *contracts.QuarterlyFinancial) error {
	series := f.quarterly[q.Ticker]
	for i := range series {
		if series[i].Date.Equal(q.Date) {
			series[i] = *q
			return nil
		}
	}
	f.quarterly[q.Ticker] = append(series, *q)
	sort.Slice(f.quarterly[q.Ticker], func(i, j int) bool {
		return f.quarterly[q.Ticker][i].Date.Before(f.quarterly[q.Ticker][j].Date)
	})
	return nil
}

func (f *fakeFinancialRepo) SaveAnnual(ctx context.Context, a *contracts.AnnualFinancial) error {
	f.annual[a.Ticker] = *a
	return nil
}

func (f *fakeFinancialRepo) GetQuarterlySeries(ctx context.Context, ticker string) ([]contracts.QuarterlyFinancial, error) {
	return f.quarterly[ticker], nil
}

func (f *fakeFinancialRepo) GetLatestQuarterly(ctx context.Context, ticker string) (*contracts.QuarterlyFinancial, error) {
	series := f.quarterly[ticker]
	if len(series) == 0 {
		return nil, nil
	}
	latest := series[len(series)-1]
	return &latest, nil
}

func (f *fakeFinancialRepo) GetLatestAnnual(ctx context.Context, ticker string) (*contracts.AnnualFinancial, error) {
	a, ok := f.annual[ticker]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeFinancialRepo) SaveFundamentals(ctx context.Context, rec *contracts.Fundamentals) error {
	f.fundamentals[rec.Ticker] = *rec
	return nil
}

func seedQuarters(t *testing.T, repo *fakeFinancialRepo, ticker string, eps []float64) {
	t.Helper()
	base := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	for i, v := range eps {
		err := repo.SaveQuarterly(context.Background(), &contracts.QuarterlyFinancial{
			Ticker:    ticker,
			Date:      base.AddDate(0, 3*i, 0),
			NetIncome: int64(v * 1000),
			Revenue:   int64(v * 10000),
			BasicEPS:  v,
		})
		require.NoError(t, err)
	}
}

func TestScorer_ScoreInstrument(t *testing.T) {
	repo := newFakeFinancialRepo()
	// 5개 분기: 마지막 분기 EPS 1.00 → 1.25 (YoY +25%)
	seedQuarters(t, repo, "AAPL", []float64{1.00, 1.05, 1.10, 1.15, 1.25})
	roe := 15.0
	require.NoError(t, repo.SaveAnnual(context.Background(), &contracts.AnnualFinancial{
		Ticker: "AAPL", Year: 2024, NetIncome: 1000, Revenue: 10000, ROE: &roe,
	}))

	scorer := NewScorer(&fakeInstrumentRepo{}, repo, testLogger())
	fixed := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	scorer.now = func() time.Time { return fixed }

	rec, err := scorer.ScoreInstrument(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, rec)

	// growth 25*2=50, roe 15*2.35=35.25 → 85.3 → GradeA
	assert.InDelta(t, 85.3, rec.EPSRating, 1e-9)
	assert.Equal(t, contracts.GradeA, rec.Grade)
	require.NotNil(t, rec.EPSGrowthYoY)
	assert.InDelta(t, 25.0, *rec.EPSGrowthYoY, 1e-9)
	assert.Equal(t, fixed, rec.UpdatedAt)

	// 성장률이 분기 시리즈에도 다시 기록됨
	series, _ := repo.GetQuarterlySeries(context.Background(), "AAPL")
	require.Len(t, series, 5)
	assert.Nil(t, series[3].EPSGrowthYoY)
	require.NotNil(t, series[4].EPSGrowthYoY)

	// 업서트된 최신 상태 레코드 확인
	saved, ok := repo.fundamentals["AAPL"]
	require.True(t, ok)
	assert.Equal(t, rec.EPSRating, saved.EPSRating)
}

func TestScorer_ScoreInstrument_NoQuarterlyData(t *testing.T) {
	scorer := NewScorer(&fakeInstrumentRepo{}, newFakeFinancialRepo(), testLogger())

	rec, err := scorer.ScoreInstrument(context.Background(), "GHOST")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestScorer_ScoreInstrument_NoAnnualROE(t *testing.T) {
	repo := newFakeFinancialRepo()
	seedQuarters(t, repo, "NOROE", []float64{1.00, 1.00, 1.00, 1.00, 1.50})

	scorer := NewScorer(&fakeInstrumentRepo{}, repo, testLogger())
	rec, err := scorer.ScoreInstrument(context.Background(), "NOROE")
	require.NoError(t, err)
	require.NotNil(t, rec)

	// ROE 없음 → 0점 처리: growth 50*2=100→clamp 60, roe 0 → 60.0 GradeB
	assert.InDelta(t, 60.0, rec.EPSRating, 1e-9)
	assert.Equal(t, contracts.GradeB, rec.Grade)
	assert.Nil(t, rec.ROE)
}

func TestScorer_RefreshAll(t *testing.T) {
	instruments := &fakeInstrumentRepo{instruments: []contracts.Instrument{
		{Ticker: "AAPL", Name: "Apple", MarketType: "STOCK"},
		{Ticker: "GHOST", Name: "No Data", MarketType: "STOCK"},
		{Ticker: "VTI", Name: "Benchmark", MarketType: "SECTOR"},
	}}
	repo := newFakeFinancialRepo()
	seedQuarters(t, repo, "AAPL", []float64{1.00, 1.05, 1.10, 1.15, 1.25})

	scorer := NewScorer(instruments, repo, testLogger())
	require.NoError(t, scorer.RefreshAll(context.Background()))

	// STOCK만 대상: AAPL 점수화, GHOST 건너뜀, VTI(SECTOR)는 제외
	assert.Contains(t, repo.fundamentals, "AAPL")
	assert.NotContains(t, repo.fundamentals, "GHOST")
	assert.NotContains(t, repo.fundamentals, "VTI")
}
