package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adestock/quant/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
// ⭐ SSOT: 일별 가격 접근은 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetRecentBars returns up to limit most recent bars for a ticker,
// ascending by date. 최신 구간을 DESC로 끊어낸 뒤 다시 ASC로 뒤집는다.
func (r *PriceRepository) GetRecentBars(ctx context.Context, ticker string, limit int) ([]contracts.PriceBar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, volume
		FROM (
			SELECT ticker, date, open, high, low, close, volume
			FROM price_daily
			WHERE ticker = $1
			ORDER BY date DESC
			LIMIT $2
		) recent
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// SaveDaily upserts the latest-bar snapshot keyed by (ticker, date)
func (r *PriceRepository) SaveDaily(ctx context.Context, daily *contracts.DailyFeature) error {
	query := `
		INSERT INTO price_daily (ticker, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	_, err := r.pool.Exec(ctx, query,
		daily.Ticker, daily.Date, daily.Open, daily.High, daily.Low, daily.Close, daily.Volume,
	)
	return err
}
