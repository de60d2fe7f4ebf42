package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// createStockMaster is the instrument registry
const createStockMaster = `
CREATE TABLE IF NOT EXISTS stock_master (
    ticker VARCHAR(10) PRIMARY KEY,
    name TEXT NOT NULL,
    market_type VARCHAR(10) NOT NULL DEFAULT 'STOCK'
);
`

// createPriceDaily holds raw OHLCV plus the latest-bar snapshot
const createPriceDaily = `
CREATE TABLE IF NOT EXISTS price_daily (
    ticker VARCHAR(10) NOT NULL,
    date DATE NOT NULL,
    open DOUBLE PRECISION NOT NULL,
    high DOUBLE PRECISION NOT NULL,
    low DOUBLE PRECISION NOT NULL,
    close DOUBLE PRECISION NOT NULL,
    volume BIGINT NOT NULL,
    PRIMARY KEY (ticker, date)
);

CREATE INDEX IF NOT EXISTS idx_price_daily_date ON price_daily(date);
`

// createPriceWeekly holds per-instrument metrics plus the ranking fields.
// 랭킹 4개 컬럼은 nullable — 단면 랭킹 패스가 2차로 채움
const createPriceWeekly = `
CREATE TABLE IF NOT EXISTS price_weekly (
    ticker VARCHAR(10) NOT NULL,
    weekly_date DATE NOT NULL,
    weekly_return DOUBLE PRECISION NOT NULL,
    rs_value DOUBLE PRECISION NOT NULL,
    is_above_200ma BOOLEAN NOT NULL,
    deviation_200ma DOUBLE PRECISION NOT NULL,
    is_vcp BOOLEAN NOT NULL,
    is_vol_dry BOOLEAN NOT NULL,
    atr_stop_loss DOUBLE PRECISION NOT NULL,
    rs_rating DOUBLE PRECISION,
    rs_momentum DOUBLE PRECISION,
    rs_trend VARCHAR(4),
    stock_grade VARCHAR(1),
    PRIMARY KEY (ticker, weekly_date)
);

CREATE INDEX IF NOT EXISTS idx_price_weekly_date ON price_weekly(weekly_date);
`

// createFinancialQuarterly keeps quarterly income statement extracts
const createFinancialQuarterly = `
CREATE TABLE IF NOT EXISTS financial_quarterly (
    ticker VARCHAR(10) NOT NULL,
    date DATE NOT NULL,
    net_income BIGINT NOT NULL,
    revenue BIGINT NOT NULL,
    basic_eps DOUBLE PRECISION NOT NULL,
    rev_growth_yoy DOUBLE PRECISION,
    eps_growth_yoy DOUBLE PRECISION,
    PRIMARY KEY (ticker, date)
);
`

// createFinancialAnnual keeps fiscal-year extracts for ROE
const createFinancialAnnual = `
CREATE TABLE IF NOT EXISTS financial_annual (
    ticker VARCHAR(10) NOT NULL,
    year INTEGER NOT NULL,
    net_income BIGINT NOT NULL,
    revenue BIGINT NOT NULL,
    roe DOUBLE PRECISION,
    PRIMARY KEY (ticker, year)
);
`

// createStockFundamentals keeps the latest-state composite score per ticker
const createStockFundamentals = `
CREATE TABLE IF NOT EXISTS stock_fundamentals (
    ticker VARCHAR(10) PRIMARY KEY,
    latest_q_date DATE NOT NULL,
    eps_rating DOUBLE PRECISION NOT NULL,
    fundamental_grade VARCHAR(1) NOT NULL,
    eps_growth_yoy DOUBLE PRECISION,
    roe DOUBLE PRECISION,
    updated_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates every table the engine reads or writes.
// 모든 DDL이 IF NOT EXISTS라 몇 번을 돌려도 안전
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []struct {
		name string
		ddl  string
	}{
		{"stock_master", createStockMaster},
		{"price_daily", createPriceDaily},
		{"price_weekly", createPriceWeekly},
		{"financial_quarterly", createFinancialQuarterly},
		{"financial_annual", createFinancialAnnual},
		{"stock_fundamentals", createStockFundamentals},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", stmt.name, err)
		}
	}
	return nil
}
