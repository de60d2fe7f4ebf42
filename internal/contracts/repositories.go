package contracts

import (
	"context"
	"time"
)

// InstrumentRepository reads the stock master registry
type InstrumentRepository interface {
	// List returns all registered instruments (benchmark ETF 포함)
	List(ctx context.Context) ([]Instrument, error)

	// ListByMarketType returns instruments of one market type (e.g. STOCK)
	ListByMarketType(ctx context.Context, marketType string) ([]Instrument, error)
}

// PriceRepository reads and writes daily OHLCV rows
type PriceRepository interface {
	// GetRecentBars returns up to limit most recent bars, ascending by date
	GetRecentBars(ctx context.Context, ticker string, limit int) ([]PriceBar, error)

	// SaveDaily upserts a daily feature snapshot keyed by (ticker, date)
	SaveDaily(ctx context.Context, daily *DailyFeature) error
}

// FeatureRepository reads and writes weekly feature records
type FeatureRepository interface {
	// SaveWeekly upserts the metrics-pass fields keyed by (ticker, weekly_date).
	// 랭킹 필드는 건드리지 않음.
	SaveWeekly(ctx context.Context, weekly *WeeklyFeature) error

	// GetCrossSection returns all instruments' records for one as-of date
	GetCrossSection(ctx context.Context, date time.Time) ([]WeeklyFeature, error)

	// GetLatestDate returns the most recent weekly_date present in the store
	GetLatestDate(ctx context.Context) (time.Time, error)

	// GetDates returns the distinct weekly dates in [from, to], ascending
	GetDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// GetPriorRatings returns, per ticker, the rs_rating values of up to n
	// cross-sections strictly before date, most recent first. 랭킹이 아직 없는
	// 날짜는 건너뜀.
	GetPriorRatings(ctx context.Context, date time.Time, n int) (map[string][]float64, error)

	// UpdateRankings writes only the four ranking fields back to existing rows
	UpdateRankings(ctx context.Context, records []WeeklyFeature) error
}

// FinancialRepository reads and writes financial statements and scores
type FinancialRepository interface {
	// SaveQuarterly upserts one quarter keyed by (ticker, date)
	SaveQuarterly(ctx context.Context, q *QuarterlyFinancial) error

	// SaveAnnual upserts one year keyed by (ticker, year)
	SaveAnnual(ctx context.Context, a *AnnualFinancial) error

	// GetQuarterlySeries returns all stored quarters for a ticker, ascending
	GetQuarterlySeries(ctx context.Context, ticker string) ([]QuarterlyFinancial, error)

	// GetLatestQuarterly returns the most recent quarter, or nil if none
	GetLatestQuarterly(ctx context.Context, ticker string) (*QuarterlyFinancial, error)

	// GetLatestAnnual returns the most recent year, or nil if none
	GetLatestAnnual(ctx context.Context, ticker string) (*AnnualFinancial, error)

	// SaveFundamentals upserts the latest-state composite score keyed by ticker
	SaveFundamentals(ctx context.Context, f *Fundamentals) error
}
