package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/internal/contracts"
)

// FinancialRepository implements contracts.FinancialRepository
// ⭐ SSOT: 재무제표·펀더멘털 점수 접근은 여기서만
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new financial repository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

// SaveQuarterly upserts one quarter keyed by (ticker, date)
func (r *FinancialRepository) SaveQuarterly(ctx context.Context, q *contracts.QuarterlyFinancial) error {
	query := `
		INSERT INTO financial_quarterly (
			ticker, date, net_income, revenue, basic_eps, rev_growth_yoy, eps_growth_yoy
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date) DO UPDATE SET
			net_income = EXCLUDED.net_income,
			revenue = EXCLUDED.revenue,
			basic_eps = EXCLUDED.basic_eps,
			rev_growth_yoy = EXCLUDED.rev_growth_yoy,
			eps_growth_yoy = EXCLUDED.eps_growth_yoy
	`

	_, err := r.pool.Exec(ctx, query,
		q.Ticker, q.Date, q.NetIncome, q.Revenue, q.BasicEPS, q.RevGrowthYoY, q.EPSGrowthYoY,
	)
	return err
}

// SaveAnnual upserts one fiscal year keyed by (ticker, year)
func (r *FinancialRepository) SaveAnnual(ctx context.Context, a *contracts.AnnualFinancial) error {
	query := `
		INSERT INTO financial_annual (ticker, year, net_income, revenue, roe)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker, year) DO UPDATE SET
			net_income = EXCLUDED.net_income,
			revenue = EXCLUDED.revenue,
			roe = EXCLUDED.roe
	`

	_, err := r.pool.Exec(ctx, query, a.Ticker, a.Year, a.NetIncome, a.Revenue, a.ROE)
	return err
}

// GetQuarterlySeries returns every stored quarter for a ticker, ascending
func (r *FinancialRepository) GetQuarterlySeries(ctx context.Context, ticker string) ([]contracts.QuarterlyFinancial, error) {
	query := `
		SELECT ticker, date, net_income, revenue, basic_eps, rev_growth_yoy, eps_growth_yoy
		FROM financial_quarterly
		WHERE ticker = $1
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []contracts.QuarterlyFinancial
	for rows.Next() {
		var q contracts.QuarterlyFinancial
		if err := rows.Scan(
			&q.Ticker, &q.Date, &q.NetIncome, &q.Revenue, &q.BasicEPS,
			&q.RevGrowthYoY, &q.EPSGrowthYoY,
		); err != nil {
			return nil, err
		}
		series = append(series, q)
	}
	return series, rows.Err()
}

// GetLatestQuarterly returns the most recent quarter, or nil when the
// ticker has no quarterly rows yet
func (r *FinancialRepository) GetLatestQuarterly(ctx context.Context, ticker string) (*contracts.QuarterlyFinancial, error) {
	query := `
		SELECT ticker, date, net_income, revenue, basic_eps, rev_growth_yoy, eps_growth_yoy
		FROM financial_quarterly
		WHERE ticker = $1
		ORDER BY date DESC
		LIMIT 1
	`

	var q contracts.QuarterlyFinancial
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&q.Ticker, &q.Date, &q.NetIncome, &q.Revenue, &q.BasicEPS,
		&q.RevGrowthYoY, &q.EPSGrowthYoY,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetLatestAnnual returns the most recent fiscal year, or nil when none
func (r *FinancialRepository) GetLatestAnnual(ctx context.Context, ticker string) (*contracts.AnnualFinancial, error) {
	query := `
		SELECT ticker, year, net_income, revenue, roe
		FROM financial_annual
		WHERE ticker = $1
		ORDER BY year DESC
		LIMIT 1
	`

	var a contracts.AnnualFinancial
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&a.Ticker, &a.Year, &a.NetIncome, &a.Revenue, &a.ROE)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveFundamentals upserts the latest-state composite score keyed by ticker
func (r *FinancialRepository) SaveFundamentals(ctx context.Context, f *contracts.Fundamentals) error {
	query := `
		INSERT INTO stock_fundamentals (
			ticker, latest_q_date, eps_rating, fundamental_grade,
			eps_growth_yoy, roe, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker) DO UPDATE SET
			latest_q_date = EXCLUDED.latest_q_date,
			eps_rating = EXCLUDED.eps_rating,
			fundamental_grade = EXCLUDED.fundamental_grade,
			eps_growth_yoy = EXCLUDED.eps_growth_yoy,
			roe = EXCLUDED.roe,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		f.Ticker, f.LatestQDate, f.EPSRating, string(f.Grade),
		f.EPSGrowthYoY, f.ROE, f.UpdatedAt,
	)
	return err
}
